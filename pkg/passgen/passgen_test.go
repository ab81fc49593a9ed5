package passgen

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestAlphabet(t *testing.T) {
	seen := make(map[rune]bool)
	for _, c := range Alphabet {
		if seen[c] {
			t.Errorf("duplicate character %q in alphabet", c)
		}
		seen[c] = true
	}

	for _, want := range []string{"!", charsetDigits, charsetLowercase, charsetUppercase, "@#$%^&*(){}:;"} {
		if !strings.Contains(Alphabet, want) {
			t.Errorf("alphabet missing %q", want)
		}
	}

	if len(Alphabet) != 76 {
		t.Errorf("expected 76 characters, got %d", len(Alphabet))
	}
}

func TestGenerateLength(t *testing.T) {
	for length := MinLength; length <= MaxLength; length++ {
		for i := 0; i < 50; i++ {
			password, err := Generate(length)
			if err != nil {
				t.Fatalf("Generate(%d) failed: %v", length, err)
			}
			if len(password) != length {
				t.Errorf("expected length %d, got %d", length, len(password))
			}
			if !InAlphabet(password) {
				t.Errorf("password %q contains characters outside the alphabet", password)
			}
		}
	}
}

func TestGenerateCoverage(t *testing.T) {
	counts := make(map[byte]int)
	total := 0
	for total < 100000 {
		password, err := Generate(MaxLength)
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		for i := 0; i < len(password); i++ {
			counts[password[i]]++
		}
		total += len(password)
	}

	for i := 0; i < len(Alphabet); i++ {
		if counts[Alphabet[i]] == 0 {
			t.Errorf("character %q never generated in %d samples", Alphabet[i], total)
		}
	}
	if len(counts) != len(Alphabet) {
		t.Errorf("expected %d distinct characters, got %d", len(Alphabet), len(counts))
	}
}

func TestGenerateZeroLength(t *testing.T) {
	password, err := Generate(0)
	if err != nil {
		t.Fatalf("Generate(0) failed: %v", err)
	}
	if password != "" {
		t.Errorf("expected empty password, got %q", password)
	}
}

func TestGenerateNegativeLength(t *testing.T) {
	if _, err := Generate(-1); !errors.Is(err, ErrNegativeLength) {
		t.Errorf("expected ErrNegativeLength, got %v", err)
	}
}

func TestGenerateDeterministicSource(t *testing.T) {
	// A source of zero bytes always selects the first alphabet character.
	g := New(bytes.NewReader(make([]byte, 64)))
	password, err := g.Generate(MinLength)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if password != strings.Repeat("!", MinLength) {
		t.Errorf("expected all '!', got %q", password)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestGenerateSourceError(t *testing.T) {
	g := New(failingReader{})
	_, err := g.Generate(MinLength)
	if err == nil {
		t.Fatal("expected error from failing source")
	}
	if !strings.Contains(err.Error(), "entropy exhausted") {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestValidateLength(t *testing.T) {
	tests := []struct {
		name        string
		length      int
		expectError bool
	}{
		{name: "minimum", length: MinLength},
		{name: "maximum", length: MaxLength},
		{name: "default", length: DefaultLength},
		{name: "too short", length: MinLength - 1, expectError: true},
		{name: "too long", length: MaxLength + 1, expectError: true},
		{name: "zero", length: 0, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLength(tt.length)
			if tt.expectError && !errors.Is(err, ErrLengthOutOfRange) {
				t.Errorf("expected ErrLengthOutOfRange, got %v", err)
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{name: "valid", input: "14", want: 14},
		{name: "surrounding whitespace", input: "  18\n", want: 18},
		{name: "out of range", input: "19", wantErr: ErrLengthOutOfRange},
		{name: "negative", input: "-12", wantErr: ErrLengthOutOfRange},
		{name: "not a number", input: "twelve", wantErr: ErrNotInteger},
		{name: "empty", input: "", wantErr: ErrNotInteger},
		{name: "float", input: "12.5", wantErr: ErrNotInteger},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLength(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestInAlphabet(t *testing.T) {
	if !InAlphabet("aZ9!{}") {
		t.Error("expected alphabet characters to be accepted")
	}
	if InAlphabet("abc_") {
		t.Error("expected '_' to be rejected")
	}
	if InAlphabet("päss") {
		t.Error("expected non-ASCII to be rejected")
	}
}
