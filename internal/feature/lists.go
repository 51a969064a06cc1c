package feature

import "strings"

// Lists carries the word lists the extractor matches against.
// Extractor copies them on construction, so changing a Lists value after
// calling New has no effect on the extractor.
type Lists struct {
	// Shorteners are URL-shortening service domains.
	Shorteners []string `yaml:"shorteners,omitempty"`

	// SuspiciousTLDs drive Domain_registeration_length.
	SuspiciousTLDs []string `yaml:"suspiciousTlds,omitempty"`

	// YoungTLDs drive age_of_domain and DNSRecord.
	YoungTLDs []string `yaml:"youngTlds,omitempty"`

	// SensitiveWords drive Abnormal_URL. Matched anywhere in the URL.
	SensitiveWords []string `yaml:"sensitiveWords,omitempty"`

	// RedirectTokens drive Redirect. Matched anywhere in the URL.
	RedirectTokens []string `yaml:"redirectTokens,omitempty"`

	// BrandWords drive Statistical_report. Matched in the hostname only.
	BrandWords []string `yaml:"brandWords,omitempty"`

	// TrafficDomains are registrable domains whose subdomains count as
	// high-traffic for web_traffic.
	TrafficDomains []string `yaml:"trafficDomains,omitempty"`
}

// DefaultLists returns the lists the classifier was tuned against.
func DefaultLists() Lists {
	return Lists{
		Shorteners:     []string{"bit.ly", "goo.gl", "tinyurl.com", "ow.ly", "t.co"},
		SuspiciousTLDs: []string{"icu", "xyz"},
		YoungTLDs:      []string{"icu"},
		SensitiveWords: []string{"login", "verify", "update", "secure", "account"},
		RedirectTokens: []string{"redirect", "rurl", "url=", "dest=", "out=", "view="},
		BrandWords:     []string{"paypal", "allegro", "bank", "secure", "account"},
		TrafficDomains: []string{"google.com"},
	}
}

// Merge returns l with every empty list replaced by the one from fallback.
func (l Lists) Merge(fallback Lists) Lists {
	pick := func(a, b []string) []string {
		if len(a) > 0 {
			return a
		}
		return b
	}
	return Lists{
		Shorteners:     pick(l.Shorteners, fallback.Shorteners),
		SuspiciousTLDs: pick(l.SuspiciousTLDs, fallback.SuspiciousTLDs),
		YoungTLDs:      pick(l.YoungTLDs, fallback.YoungTLDs),
		SensitiveWords: pick(l.SensitiveWords, fallback.SensitiveWords),
		RedirectTokens: pick(l.RedirectTokens, fallback.RedirectTokens),
		BrandWords:     pick(l.BrandWords, fallback.BrandWords),
		TrafficDomains: pick(l.TrafficDomains, fallback.TrafficDomains),
	}
}

// normalizeList lowercases, trims and drops empty entries and leading dots.
func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
