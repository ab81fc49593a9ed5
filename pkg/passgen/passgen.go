// Package passgen generates random passwords from a fixed printable alphabet.
package passgen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Character set constants
const (
	charsetBang      = "!"
	charsetDigits    = "1234567890"
	charsetLowercase = "abcdefghijklmnopqrstuvwxyz"
	charsetUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	charsetSymbols   = "@#$%^&*(){}:;"

	// Alphabet is every character a generated password may contain.
	Alphabet = charsetBang + charsetDigits + charsetLowercase + charsetUppercase + charsetSymbols

	MinLength     = 12
	MaxLength     = 18
	DefaultLength = 16
)

// Errors
var (
	ErrNegativeLength   = errors.New("passgen: length must not be negative")
	ErrNotInteger       = errors.New("passgen: length must be an integer")
	ErrLengthOutOfRange = fmt.Errorf("passgen: length must be between %d and %d", MinLength, MaxLength)
)

// Generator draws password characters from a random source.
type Generator struct {
	src io.Reader
}

// New returns a Generator reading randomness from src.
// A nil src selects crypto/rand.
func New(src io.Reader) *Generator {
	if src == nil {
		src = rand.Reader
	}
	return &Generator{src: src}
}

var defaultGenerator = New(nil)

// Generate returns a password of length characters using crypto/rand.
func Generate(length int) (string, error) {
	return defaultGenerator.Generate(length)
}

// Generate returns a password of exactly length characters. Each character
// is drawn independently and uniformly from Alphabet.
//
// Generate does not enforce MinLength/MaxLength; callers collecting a length
// from a user should run ValidateLength first.
func (g *Generator) Generate(length int) (string, error) {
	if length < 0 {
		return "", ErrNegativeLength
	}

	alphabetLen := big.NewInt(int64(len(Alphabet)))
	password := make([]byte, length)

	for i := 0; i < length; i++ {
		idx, err := rand.Int(g.src, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("passgen: failed to generate random number: %w", err)
		}
		password[i] = Alphabet[idx.Int64()]
	}

	return string(password), nil
}

// ValidateLength reports whether n is an accepted password length.
func ValidateLength(n int) error {
	if n < MinLength || n > MaxLength {
		return fmt.Errorf("%w: got %d", ErrLengthOutOfRange, n)
	}
	return nil
}

// ParseLength parses user input into a validated password length.
// Surrounding whitespace is ignored.
func ParseLength(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotInteger, strings.TrimSpace(s))
	}
	if err := ValidateLength(n); err != nil {
		return 0, err
	}
	return n, nil
}

// InAlphabet reports whether every character of s belongs to Alphabet.
func InAlphabet(s string) bool {
	for _, c := range s {
		if !strings.ContainsRune(Alphabet, c) {
			return false
		}
	}
	return true
}
