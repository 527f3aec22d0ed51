package bridge

import (
	"net/url"
	"path"
	"strings"
)

// DefaultAllowedOrigins are the editor hosts trusted out of the box.
var DefaultAllowedOrigins = []string{
	"https://pro.easyeda.com",
	"https://*.easyeda.com",
	"https://*.lceda.cn",
	"http://localhost",
	"http://localhost:*",
	"http://127.0.0.1",
	"http://127.0.0.1:*",
}

// originAllowed matches origin against patterns. A pattern containing
// "://" is matched against the whole origin, any other pattern against its
// host. Matching is case-insensitive and uses path.Match syntax. A missing
// origin never matches.
func originAllowed(origin string, patterns []string) bool {
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	for _, p := range patterns {
		target := u.Host
		if strings.Contains(p, "://") {
			target = origin
		}
		if ok, err := path.Match(strings.ToLower(p), strings.ToLower(target)); err == nil && ok {
			return true
		}
	}
	return false
}
