package feature

import (
	"net/netip"
	"net/url"
	"strings"
)

// NumFeatures is the fixed width of the feature vector. It defines the
// input width of the classifier and must never change without retraining.
const NumFeatures = 9

// Feature vector indexes. The order is significant: trained models consume
// vectors positionally.
const (
	// IdxDomainLength is the character count of the URL's authority
	// component, userinfo included.
	IdxDomainLength = iota
	// IdxHaveIP is 1 when the authority is a literal IPv4 or IPv6 address.
	IdxHaveIP
	// IdxHaveAt is 1 when '@' appears anywhere in the raw URL.
	IdxHaveAt
	// IdxURLLength is the character count of the raw URL string.
	IdxURLLength
	// IdxURLDepth is the number of non-empty path segments.
	IdxURLDepth
	// IdxRedirection is 1 when "//" appears inside the path component.
	IdxRedirection
	// IdxHTTPSDomain is 1 when "https" appears in the scheme component.
	IdxHTTPSDomain
	// IdxTinyURL is 1 when the authority contains a known URL-shortener
	// name.
	IdxTinyURL
	// IdxPrefixSuffix is 1 when the authority contains a '-' character.
	IdxPrefixSuffix
)

// shortenerDomains is the closed set of URL-shortener substrings checked by
// the tiny_url feature. Matching is substring-based, not exact-host: the
// signal is deliberately aggressive because shorteners hide the real target.
var shortenerDomains = []string{"tinyurl", "bit.ly"}

// Vector is a fixed-width numeric encoding of a URL's lexical properties.
// Count features are stored as non-negative floats; indicator features are
// exactly 0 or 1.
type Vector [NumFeatures]float64

// Slice returns the vector as a []float64 for matrix assembly.
func (v Vector) Slice() []float64 {
	return v[:]
}

// Result is the outcome of feature extraction.
//
// Degraded distinguishes a URL that genuinely carries no phishing signal
// from one that could not be parsed at all. Both produce a usable vector
// (the degraded one is all zeros), so extraction is total, but callers that
// care can still tell the two apart instead of conflating them forever.
type Result struct {
	// Vector is the extracted feature vector. All zeros when Degraded.
	Vector Vector

	// Degraded reports that the URL failed to parse and the vector is the
	// zero fallback rather than a real measurement.
	Degraded bool
}

// Extract computes the lexical feature vector for a raw URL string.
//
// Extract is total: it never returns an error. If the URL cannot be parsed
// into scheme, host, and path components, the result is degraded and the
// vector is all zeros.
func Extract(raw string) Result {
	parsed, err := url.Parse(raw)
	if err != nil {
		return Result{Degraded: true}
	}

	scheme := parsed.Scheme
	domain := authority(parsed)
	path := parsed.Path

	var v Vector
	v[IdxDomainLength] = float64(len(domain))
	v[IdxHaveIP] = boolFeature(isIPLiteral(domain))
	v[IdxHaveAt] = boolFeature(strings.Contains(raw, "@"))
	v[IdxURLLength] = float64(len(raw))
	v[IdxURLDepth] = float64(pathDepth(path))
	v[IdxRedirection] = boolFeature(strings.Contains(path, "//"))
	v[IdxHTTPSDomain] = boolFeature(strings.Contains(scheme, "https"))
	v[IdxTinyURL] = boolFeature(isShortener(domain))
	v[IdxPrefixSuffix] = boolFeature(strings.Contains(domain, "-"))
	return Result{Vector: v}
}

// authority reconstructs the full authority substring of the URL, userinfo
// included. The authority-based features measure it whole: a phishing URL
// like http://paypal.com@evil.example/ presents "paypal.com@evil.example"
// to the user, and that is the string whose length and shape matter.
func authority(u *url.URL) string {
	if u.User == nil {
		return u.Host
	}
	return u.User.String() + "@" + u.Host
}

// isIPLiteral reports whether the authority is a valid bare IPv4 or IPv6
// address. Strict parsing is intentional: userinfo, a port, or brackets make
// it fail, matching the "authority substring itself is an address"
// heuristic.
func isIPLiteral(host string) bool {
	_, err := netip.ParseAddr(host)
	return err == nil
}

// pathDepth counts non-empty segments of the path component.
func pathDepth(path string) int {
	var depth int
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			depth++
		}
	}
	return depth
}

// isShortener reports whether the authority contains a known shortener name.
func isShortener(host string) bool {
	for _, s := range shortenerDomains {
		if strings.Contains(host, s) {
			return true
		}
	}
	return false
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
