package sanitizer

import (
	"net"
	"net/url"
	"strings"
)

// AnonymizeReferrer reduces a referrer to scheme://host/path. Query string,
// fragment and user info are dropped. Only absolute http(s) URLs with a
// non-IP host survive; everything else yields nil.
func AnonymizeReferrer(raw *string) *string {
	if raw == nil {
		return nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return nil
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil
	}

	host := u.Hostname()
	if net.ParseIP(host) != nil || reIPv4Literal.MatchString(host) {
		return nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	out := scheme + "://" + strings.ToLower(u.Host) + Redact(path)
	out = truncate(MaxReferrerLength)(out)
	return &out
}
