package jsonquery

import (
	"regexp"
	"strings"
)

// schemePrefix matches an RFC 3986 scheme followed by "://".
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)

// NormalizeURL prefixes rawURL with "http://" unless it already starts with a
// scheme. Surrounding whitespace is removed. It performs no I/O.
//
//	NormalizeURL("example.com/api")     // "http://example.com/api"
//	NormalizeURL("https://example.com") // "https://example.com"
//	NormalizeURL("//example.com")       // "http://example.com"
func NormalizeURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)

	if schemePrefix.MatchString(rawURL) {
		return rawURL
	}

	if strings.HasPrefix(rawURL, "//") {
		return "http:" + rawURL
	}

	return "http://" + rawURL
}
