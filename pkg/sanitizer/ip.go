package sanitizer

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

const (
	maskedOctet  = "x"
	maskedGroups = "x:x:x:x:x"

	minIPv6Groups = 3
	maxIPv6Groups = 8
)

var (
	reIPv4      = regexp.MustCompile(`^(\d{1,3})\.(\d{1,3})\.(\d{1,3})\.(\d{1,3})$`)
	reIPv6Group = regexp.MustCompile(`^[0-9a-fA-F]{0,4}$`)

	loopbackAddresses = map[string]struct{}{
		"127.0.0.1": {},
		"::1":       {},
	}

	// Deliberately coarse: "172." also matches public 172.x ranges.
	privatePrefixes = []string{
		"192.168.",
		"10.",
		"172.",
	}
)

// AnonymizeIP truncates an address so the host cannot be recovered.
// IPv4 becomes a.b.x.x, IPv6 keeps its leading groups followed by five x
// groups. Anything that is not clearly one or the other yields nil.
func AnonymizeIP(raw *string) *string {
	if raw == nil {
		return nil
	}
	ip := strings.TrimSpace(*raw)
	if ip == "" {
		return nil
	}

	if out, ok := anonymizeIPv4(ip); ok {
		return &out
	}
	if out, ok := anonymizeIPv6(ip); ok {
		return &out
	}
	return nil
}

func anonymizeIPv4(ip string) (string, bool) {
	m := reIPv4.FindStringSubmatch(ip)
	if m == nil {
		return "", false
	}
	for _, octet := range m[1:] {
		n, err := strconv.Atoi(octet)
		if err != nil || n > 255 {
			return "", false
		}
	}
	return strings.Join([]string{m[1], m[2], maskedOctet, maskedOctet}, "."), true
}

func anonymizeIPv6(ip string) (string, bool) {
	if !strings.Contains(ip, ":") || strings.Contains(ip, ".") {
		return "", false
	}
	// net.ParseIP rejects shapes the group checks allow, like "1::2::3".
	if parsed := net.ParseIP(ip); parsed == nil || parsed.To4() != nil {
		return "", false
	}

	groups := strings.Split(strings.ToLower(ip), ":")
	if len(groups) < minIPv6Groups || len(groups) > maxIPv6Groups {
		return "", false
	}
	for _, g := range groups {
		if !reIPv6Group.MatchString(g) {
			return "", false
		}
	}

	keep := 3
	if len(groups) <= keep {
		keep = 2
	}
	return strings.Join(groups[:keep], ":") + ":" + maskedGroups, true
}

// IsPrivateIP reports whether the raw client address belongs to loopback or a
// private range, using plain string prefixes rather than CIDR arithmetic.
func IsPrivateIP(ip string) bool {
	if _, ok := loopbackAddresses[ip]; ok {
		return true
	}
	for _, prefix := range privatePrefixes {
		if strings.HasPrefix(ip, prefix) {
			return true
		}
	}
	return false
}
