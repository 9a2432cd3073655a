package sanitizer

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"
)

func ptr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input *string
		want  *string
	}{
		{
			name:  "nil input",
			input: nil,
			want:  nil,
		},
		{
			name:  "empty string",
			input: ptr(""),
			want:  nil,
		},
		{
			name:  "only whitespace",
			input: ptr("   "),
			want:  nil,
		},
		{
			name:  "only markup characters",
			input: ptr(`<>"'&`),
			want:  nil,
		},
		{
			name:  "plain project name",
			input: ptr("test-website"),
			want:  ptr("test-website"),
		},
		{
			name:  "script tag",
			input: ptr("<script>alert(1)</script>"),
			want:  ptr("scriptalert(1)/script"),
		},
		{
			name:  "quotes and ampersand",
			input: ptr(`Tom & Jerry's "show"`),
			want:  ptr("Tom  Jerrys show"),
		},
		{
			name:  "embedded ipv4",
			input: ptr("visit from 192.168.0.1 today"),
			want:  ptr("visit from [IP] today"),
		},
		{
			name:  "ipv4 glued to letters",
			input: ptr("host1.2.3.4"),
			want:  ptr("host[IP]"),
		},
		{
			name:  "embedded email",
			input: ptr("contact john.doe@example.com now"),
			want:  ptr("contact [EMAIL] now"),
		},
		{
			name:  "ip and email together",
			input: ptr("10.0.0.7 a@b.io"),
			want:  ptr("[IP] [EMAIL]"),
		},
		{
			name:  "page path is preserved",
			input: ptr("/blog/2024/hello-world"),
			want:  ptr("/blog/2024/hello-world"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeInput(tt.input)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("SanitizeInput(%q) = %q, want %q", deref(tt.input), deref(got), deref(tt.want))
			}
		})
	}
}

func TestSanitizeInput_Truncates(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ascii", strings.Repeat("a", 150)},
		{"multibyte", strings.Repeat("é", 150)},
		{"exactly at limit", strings.Repeat("b", MaxTextLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeString(tt.input)
			if got == nil {
				t.Fatal("expected non-nil result")
			}
			if n := utf8.RuneCountInString(*got); n > MaxTextLength {
				t.Errorf("expected at most %d characters, got %d", MaxTextLength, n)
			}
			if !utf8.ValidString(*got) {
				t.Error("truncation produced invalid UTF-8")
			}
		})
	}
}

func TestSanitizeInput_NoDottedQuadSurvives(t *testing.T) {
	dottedQuad := regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`)

	inputs := []string{
		"1.2.3.4",
		"ip=255.255.255.255;",
		"a8.8.8.8b",
		"12345.6.7.8",
		"1.2.3.4.5.6.7.8",
		"999.999.999.999",
		strings.Repeat("z", 95) + "1.2.3.4",
		"nested 10.1.2.3 and 172.16.5.4 and 8.8.4.4",
	}

	for _, input := range inputs {
		got := SanitizeString(input)
		if got == nil {
			continue
		}
		if dottedQuad.MatchString(*got) {
			t.Errorf("SanitizeInput(%q) = %q still contains a dotted quad", input, *got)
		}
	}
}

func TestSanitizeInput_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"<script>alert(1)</script>",
		"mail me: someone@example.org",
		"from 192.168.1.1",
		`quotes "and" 'apostrophes' & more`,
		strings.Repeat("x", 250),
		strings.Repeat("y ", 46) + "ab@cd.efghijklmnop",
		strings.Repeat("q", 93) + "1.2.3.45678",
		strings.Repeat("w", 96) + "a@b.cdefgh",
		"1.2.3.4.5.6.7.8.9",
		"<a@b.co>",
	}

	for _, input := range inputs {
		once := SanitizeString(input)
		twice := SanitizeInput(once)
		if deref(once) != deref(twice) {
			t.Errorf("not idempotent for %q: once=%q twice=%q", input, deref(once), deref(twice))
		}
	}
}

func TestPipeline_Apply(t *testing.T) {
	p := Pipeline{
		strings.TrimSpace,
		strings.ToUpper,
		truncate(3),
	}

	if got := p.Apply("  abcdef "); got != "ABC" {
		t.Errorf("Pipeline.Apply() = %q, want %q", got, "ABC")
	}

	var empty Pipeline
	if got := empty.Apply("unchanged"); got != "unchanged" {
		t.Errorf("empty Pipeline.Apply() = %q, want input unchanged", got)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"/users/john@example.com/profile", "/users/[EMAIL]/profile"},
		{"/proxy/10.1.1.1/status", "/proxy/[IP]/status"},
		{"/nothing/to/see", "/nothing/to/see"},
	}

	for _, tt := range tests {
		if got := Redact(tt.input); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestContainsPII(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"Windows 10/11, Chrome 91.0.4472.124", false},
		{"from 1.2.3.4", true},
		{"x@y.org", true},
		{"[IP] and [EMAIL]", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := ContainsPII(tt.input); got != tt.want {
			t.Errorf("ContainsPII(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
