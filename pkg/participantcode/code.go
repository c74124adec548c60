// Package participantcode generates and validates the AF-NNNN participant identifiers.
package participantcode

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	prefix = "AF-"
	low    = 1000
	high   = 9999
)

var pattern = regexp.MustCompile(`^AF-\d{4}$`)

// Generate returns a random code in the AF-1000..AF-9999 range.
func Generate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(high-low+1))
	if err != nil {
		return "", fmt.Errorf("generate participant code: %w", err)
	}
	return fmt.Sprintf("%s%d", prefix, low+n.Int64()), nil
}

// Valid reports whether code has the AF-NNNN shape.
func Valid(code string) bool {
	return pattern.MatchString(code)
}

// Normalize trims surrounding whitespace and upper-cases the prefix typed on a phone keyboard.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
