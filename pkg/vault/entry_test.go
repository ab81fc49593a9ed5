package vault

import (
	"testing"
	"unicode/utf8"
)

func TestEntryString(t *testing.T) {
	e := NewEntry("example.com", "alice", "s3cr3t!pass@")
	want := "Site/App: example.com\n - Username: alice\n - Password: s3cr3t!pass@"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestEntryMasked(t *testing.T) {
	e := NewEntry("example.com", "alice", "abcdefghijkl")
	want := "Site/App: example.com\n - Username: alice\n - Password: ********ijkl"
	if got := e.Masked(); got != want {
		t.Errorf("Masked() = %q, want %q", got, want)
	}
}

func TestMaskPassword(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "empty value", value: "", expected: ""},
		{name: "1 character", value: "a", expected: "*"},
		{name: "4 characters", value: "abcd", expected: "****"},
		{name: "5 characters", value: "abcde", expected: "***de"},
		{name: "8 characters", value: "abcdefgh", expected: "******gh"},
		{name: "9 characters", value: "abcdefghi", expected: "*****fghi"},
		{name: "generated length", value: "!1aA@#$%^&*(", expected: "********^&*("},
		{name: "non-ASCII 9 runes", value: "p\u00e4ssw\u00f6rd1", expected: "*****\u00f6rd1"},
		{name: "non-ASCII 5 runes", value: "\u00e4\u00f6\u00fc\u00dfx", expected: "***\u00dfx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskPassword(tt.value); got != tt.expected {
				t.Errorf("MaskPassword(%q) = %q, want %q", tt.value, got, tt.expected)
			}
			if got := MaskPassword(tt.value); !utf8.ValidString(got) {
				t.Errorf("MaskPassword(%q) = %q is not valid UTF-8", tt.value, got)
			}
		})
	}
}
