package feature

import "fmt"

// SchemaVersion identifies the feature order. Bump it whenever Names changes.
const SchemaVersion = "uci-30/v1"

// Feature indexes into a Vector. The constants are listed in vector order.
const (
	HavingIPAddress = iota
	URLLength
	ShorteningService
	HavingAtSymbol
	DoubleSlashRedirecting
	PrefixSuffix
	HavingSubDomain
	SSLFinalState
	DomainRegistrationLength
	Favicon
	Port
	HTTPSToken
	RequestURL
	URLOfAnchor
	LinksInTags
	SFH
	SubmittingToEmail
	AbnormalURL
	Redirect
	OnMouseover
	RightClick
	PopUpWindow
	Iframe
	AgeOfDomain
	DNSRecord
	WebTraffic
	PageRank
	GoogleIndex
	LinksPointingToPage
	StatisticalReport

	// Count is the canonical vector length.
	Count
)

// Names holds the column names in the order the classifier expects.
// The spellings match the training data, typos included.
var Names = [Count]string{
	HavingIPAddress:          "having_IP_Address",
	URLLength:                "URL_Length",
	ShorteningService:        "Shortining_Service",
	HavingAtSymbol:           "having_At_Symbol",
	DoubleSlashRedirecting:   "double_slash_redirecting",
	PrefixSuffix:             "Prefix_Suffix",
	HavingSubDomain:          "having_Sub_Domain",
	SSLFinalState:            "SSLfinal_State",
	DomainRegistrationLength: "Domain_registeration_length",
	Favicon:                  "Favicon",
	Port:                     "port",
	HTTPSToken:               "HTTPS_token",
	RequestURL:               "Request_URL",
	URLOfAnchor:              "URL_of_Anchor",
	LinksInTags:              "Links_in_tags",
	SFH:                      "SFH",
	SubmittingToEmail:        "Submitting_to_email",
	AbnormalURL:              "Abnormal_URL",
	Redirect:                 "Redirect",
	OnMouseover:              "on_mouseover",
	RightClick:               "RightClick",
	PopUpWindow:              "popUpWidnow",
	Iframe:                   "Iframe",
	AgeOfDomain:              "age_of_domain",
	DNSRecord:                "DNSRecord",
	WebTraffic:               "web_traffic",
	PageRank:                 "Page_Rank",
	GoogleIndex:              "Google_Index",
	LinksPointingToPage:      "Links_pointing_to_page",
	StatisticalReport:        "Statistical_report",
}

// ternary marks the features with a middle band.
var ternary = map[int]bool{
	URLLength:       true,
	HavingSubDomain: true,
}

// Domain returns the values feature i may take.
func Domain(i int) []int {
	if ternary[i] {
		return []int{-1, 0, 1}
	}
	return []int{-1, 1}
}

// Vector is an ordered feature vector. Use Extract to build one.
type Vector []int

// Named pairs a value with its column name.
type Named struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Named returns the vector as name/value pairs in canonical order.
func (v Vector) Named() []Named {
	out := make([]Named, 0, len(v))
	for i, val := range v {
		name := fmt.Sprintf("feature_%d", i)
		if i < Count {
			name = Names[i]
		}
		out = append(out, Named{Name: name, Value: val})
	}
	return out
}

// Fallback returns the vector used for URLs that fail to parse: every
// element set to 1. It is a valid classifier input, not an error marker.
func Fallback() Vector {
	v := make(Vector, Count)
	for i := range v {
		v[i] = 1
	}
	return v
}

// Validate checks the length and the per-feature domain of v.
func Validate(v Vector) error {
	if len(v) != Count {
		return fmt.Errorf("%w: got %d features, want %d", ErrLength, len(v), Count)
	}
	for i, val := range v {
		ok := false
		for _, allowed := range Domain(i) {
			if val == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s=%d", ErrOutOfDomain, Names[i], val)
		}
	}
	return nil
}
