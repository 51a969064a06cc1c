package feature

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

const (
	// shortURLLimit and longURLLimit bound the URL_Length bands.
	shortURLLimit = 54
	longURLLimit  = 75

	// schemePrefixLen is the length of "http://". A "//" after this offset
	// means a second authority is embedded in the URL.
	schemePrefixLen = 7
)

// dottedQuad matches an IPv4 literal anywhere in the URL.
var dottedQuad = regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

// Result is the output of Inspect.
type Result struct {
	// Vector is the feature vector, or the fallback vector.
	Vector Vector

	// Host is the lowercased hostname; empty when Fallback is true.
	Host string

	// Scheme is the lowercased URL scheme; empty when Fallback is true.
	Scheme string

	// Fallback is true when the URL could not be parsed.
	Fallback bool
}

// Extractor computes feature vectors. It is safe for concurrent use.
type Extractor struct {
	shorteners     []string
	suspiciousTLDs []string
	youngTLDs      []string
	sensitiveWords []string
	redirectTokens []string
	brandWords     []string
	trafficDomains []string
}

// New creates an Extractor over lists. Empty lists stay empty; call
// lists.Merge(DefaultLists()) first to fill gaps with defaults.
func New(lists Lists) *Extractor {
	return &Extractor{
		shorteners:     normalizeList(lists.Shorteners),
		suspiciousTLDs: normalizeList(lists.SuspiciousTLDs),
		youngTLDs:      normalizeList(lists.YoungTLDs),
		sensitiveWords: normalizeList(lists.SensitiveWords),
		redirectTokens: normalizeList(lists.RedirectTokens),
		brandWords:     normalizeList(lists.BrandWords),
		trafficDomains: normalizeList(lists.TrafficDomains),
	}
}

// NewDefault creates an Extractor over DefaultLists.
func NewDefault() *Extractor {
	return New(DefaultLists())
}

// Extract returns the feature vector for rawURL. It never fails: a URL that
// does not parse yields Fallback().
func (e *Extractor) Extract(rawURL string) Vector {
	return e.Inspect(rawURL).Vector
}

// Inspect is Extract plus the parsed pieces the caller may want to reuse.
func (e *Extractor) Inspect(rawURL string) Result {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Scheme == "" {
		return Result{Vector: Fallback(), Fallback: true}
	}

	host := strings.ToLower(u.Hostname())
	scheme := strings.ToLower(u.Scheme)
	// Web URLs must name a host; opaque schemes such as mailto do not.
	if (scheme == "http" || scheme == "https") && host == "" {
		return Result{Vector: Fallback(), Fallback: true}
	}
	folded := cases.Fold().String(rawURL)

	v := make(Vector, Count)

	v[HavingIPAddress] = flag(dottedQuad.MatchString(rawURL))
	v[URLLength] = lengthBand(len(rawURL))
	v[ShorteningService] = flag(matchesDomain(host, e.shorteners))
	v[HavingAtSymbol] = flag(strings.Contains(rawURL, "@"))
	v[DoubleSlashRedirecting] = flag(len(rawURL) > schemePrefixLen && strings.Contains(rawURL[schemePrefixLen:], "//"))
	v[PrefixSuffix] = flag(strings.Contains(host, "-"))
	v[HavingSubDomain] = subDomainBand(host)
	v[SSLFinalState] = flag(scheme != "https")
	v[DomainRegistrationLength] = flag(hasTLD(host, e.suspiciousTLDs))
	v[Favicon] = -1
	v[Port] = flag(nonStandardPort(u.Port()))
	v[HTTPSToken] = flag(strings.Contains(host, "https"))
	v[RequestURL] = -1
	v[URLOfAnchor] = -1
	v[LinksInTags] = -1
	v[SFH] = -1
	v[SubmittingToEmail] = flag(strings.Contains(folded, "mailto:"))
	v[AbnormalURL] = flag(containsAny(folded, e.sensitiveWords))
	v[Redirect] = flag(containsAny(folded, e.redirectTokens))
	v[OnMouseover] = -1
	v[RightClick] = -1
	v[PopUpWindow] = -1
	v[Iframe] = -1
	v[AgeOfDomain] = flag(hasTLD(host, e.youngTLDs))
	v[DNSRecord] = flag(hasTLD(host, e.youngTLDs))
	v[WebTraffic] = flag(!isSubdomainOf(host, e.trafficDomains))
	v[PageRank] = -1
	v[GoogleIndex] = -1
	v[LinksPointingToPage] = -1
	v[StatisticalReport] = flag(containsAny(host, e.brandWords))

	return Result{Vector: v, Host: host, Scheme: scheme}
}

// flag maps a suspicious condition to 1 and its absence to -1.
func flag(suspicious bool) int {
	if suspicious {
		return 1
	}
	return -1
}

func lengthBand(n int) int {
	switch {
	case n < shortURLLimit:
		return -1
	case n <= longURLLimit:
		return 0
	default:
		return 1
	}
}

// subDomainBand buckets the number of hostname labels.
func subDomainBand(host string) int {
	labels := len(strings.Split(host, "."))
	switch {
	case labels <= 3:
		return -1
	case labels == 4:
		return 0
	default:
		return 1
	}
}

func nonStandardPort(port string) bool {
	return port != "" && port != "80" && port != "443"
}

func hasTLD(host string, tlds []string) bool {
	for _, tld := range tlds {
		if strings.HasSuffix(host, "."+tld) {
			return true
		}
	}
	return false
}

// matchesDomain reports whether host is one of domains or a subdomain of one.
func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// isSubdomainOf reports whether host is a strict subdomain of one of domains.
func isSubdomainOf(host string, domains []string) bool {
	for _, d := range domains {
		if strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
