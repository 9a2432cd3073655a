package sanitizer

import (
	"regexp"
	"strings"
)

const (
	UnknownOS      = "Unknown OS"
	UnknownBrowser = "Unknown Browser"
)

// uaRule maps a user-agent pattern to a coarse label. Rules are evaluated
// top to bottom and the first match wins, so more specific signatures must
// precede the ones they contain (Edge before Chrome, Chrome before Safari,
// iOS before macOS, Android before Linux).
type uaRule struct {
	name    string
	pattern *regexp.Regexp
	label   func(match []string) string
}

func (r uaRule) apply(ua string) (string, bool) {
	m := r.pattern.FindStringSubmatch(ua)
	if m == nil {
		return "", false
	}
	return r.label(m), true
}

func fixed(label string) func([]string) string {
	return func([]string) string { return label }
}

// versioned appends the first capture group, normalizing "_" separators to
// dots (Apple platforms report 10_15_7).
func versioned(name string) func([]string) string {
	return func(m []string) string {
		return name + " " + strings.ReplaceAll(m[1], "_", ".")
	}
}

var osRules = []uaRule{
	{name: "windows-10", pattern: regexp.MustCompile(`Windows NT 10\.0`), label: fixed("Windows 10/11")},
	{name: "windows-8.1", pattern: regexp.MustCompile(`Windows NT 6\.3`), label: fixed("Windows 8.1")},
	{name: "windows-8", pattern: regexp.MustCompile(`Windows NT 6\.2`), label: fixed("Windows 8")},
	{name: "windows-7", pattern: regexp.MustCompile(`Windows NT 6\.1`), label: fixed("Windows 7")},
	{name: "windows", pattern: regexp.MustCompile(`Windows`), label: fixed("Windows")},
	{name: "ios", pattern: regexp.MustCompile(`(?:iPhone|CPU) OS (\d+(?:_\d+)*)`), label: versioned("iOS")},
	{name: "android", pattern: regexp.MustCompile(`Android (\d+(?:\.\d+)*)`), label: versioned("Android")},
	{name: "android-bare", pattern: regexp.MustCompile(`Android`), label: fixed("Android")},
	{name: "macos", pattern: regexp.MustCompile(`Mac OS X (\d+(?:[_.]\d+)*)`), label: versioned("macOS")},
	{name: "macos-bare", pattern: regexp.MustCompile(`Macintosh`), label: fixed("macOS")},
	{name: "chromeos", pattern: regexp.MustCompile(`CrOS`), label: fixed("Chrome OS")},
	{name: "linux", pattern: regexp.MustCompile(`Linux`), label: fixed("Linux")},
}

var browserRules = []uaRule{
	{name: "edge", pattern: regexp.MustCompile(`Edg(?:e|A|iOS)?/(\d+(?:\.\d+)*)`), label: versioned("Edge")},
	{name: "opera", pattern: regexp.MustCompile(`(?:OPR|Opera)/(\d+(?:\.\d+)*)`), label: versioned("Opera")},
	{name: "firefox", pattern: regexp.MustCompile(`(?:Firefox|FxiOS)/(\d+(?:\.\d+)*)`), label: versioned("Firefox")},
	{name: "chrome", pattern: regexp.MustCompile(`(?:Chrome|CriOS)/(\d+(?:\.\d+)*)`), label: versioned("Chrome")},
	{name: "safari", pattern: regexp.MustCompile(`Version/(\d+(?:\.\d+)*).*Safari/`), label: versioned("Safari")},
	{name: "safari-bare", pattern: regexp.MustCompile(`Safari/`), label: fixed("Safari")},
}

func classify(rules []uaRule, ua, fallback string) string {
	for _, rule := range rules {
		if label, ok := rule.apply(ua); ok {
			return label
		}
	}
	return fallback
}

func ClassifyOS(ua string) string {
	return classify(osRules, ua, UnknownOS)
}

func ClassifyBrowser(ua string) string {
	return classify(browserRules, ua, UnknownBrowser)
}

// ClassifyUserAgent replaces the high-entropy user-agent string with a
// "<OS>, <Browser>" label. Empty input yields nil.
func ClassifyUserAgent(raw *string) *string {
	if raw == nil {
		return nil
	}
	ua := strings.TrimSpace(*raw)
	if ua == "" {
		return nil
	}

	label := truncate(MaxUserAgentLength)(ClassifyOS(ua) + ", " + ClassifyBrowser(ua))
	return &label
}
