// Package allowlist holds the static set of trusted domains that are never
// sent to the classifier.
package allowlist

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/idna"
)

// DefaultDomains is the built-in trusted set.
var DefaultDomains = []string{
	"google.com",
	"wikipedia.org",
	"youtube.com",
	"facebook.com",
	"amazon.com",
	"github.com",
	"linkedin.com",
}

// Allowlist is an immutable set of trusted registrable domains.
// The zero value and a nil *Allowlist match nothing.
type Allowlist struct {
	domains map[string]struct{}
}

// New builds an Allowlist. Entries are normalized the same way hosts are;
// entries that normalize to the empty string are dropped.
func New(domains []string) *Allowlist {
	a := &Allowlist{domains: make(map[string]struct{}, len(domains))}
	for _, d := range domains {
		if n := NormalizeHost(d); n != "" {
			a.domains[n] = struct{}{}
		}
	}
	return a
}

// Default returns an Allowlist over DefaultDomains.
func Default() *Allowlist {
	return New(DefaultDomains)
}

// Len returns the number of entries.
func (a *Allowlist) Len() int {
	if a == nil {
		return 0
	}
	return len(a.domains)
}

// Domains returns the entries in sorted order.
func (a *Allowlist) Domains() []string {
	if a == nil {
		return nil
	}
	out := make([]string, 0, len(a.domains))
	for d := range a.domains {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ContainsHost reports whether host is an entry or a subdomain of one.
// Matching happens on label boundaries, so "google.com.evil.xyz" and
// "notgoogle.com" do not match "google.com".
func (a *Allowlist) ContainsHost(host string) bool {
	if a == nil || len(a.domains) == 0 {
		return false
	}
	h := NormalizeHost(host)
	for h != "" {
		if _, ok := a.domains[h]; ok {
			return true
		}
		i := strings.IndexByte(h, '.')
		if i < 0 {
			return false
		}
		h = h[i+1:]
	}
	return false
}

// ContainsURL parses rawURL and tests its host. Unparseable URLs never match.
func (a *Allowlist) ContainsURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	return a.ContainsHost(u.Hostname())
}

// NormalizeHost lowercases host, converts it to its ASCII (punycode) form,
// strips a trailing dot and a leading "www.". It returns the empty string
// for hosts IDNA rejects.
func NormalizeHost(host string) string {
	h := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
	if h == "" {
		return ""
	}
	ascii, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(ascii, "www.")
}
