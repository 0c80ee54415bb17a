package constraint

import (
	"strconv"
	"strings"

	appErr "github.com/archstudio/engine/pkg/errors"
)

// Length modes for PatternBuilder.
const (
	LengthNone  = "none"
	LengthExact = "exact"
	LengthRange = "range"
)

// PatternBuilder assembles a regex constraint value from selected character
// classes and a length mode. Length bounds arrive as strings because they
// come straight from form input.
type PatternBuilder struct {
	AlphaLowercase bool   `json:"alpha_lowercase"`
	AlphaUppercase bool   `json:"alpha_uppercase"`
	Numeric        bool   `json:"numeric"`
	Hexadecimal    bool   `json:"hexadecimal"`
	Printable      bool   `json:"printable"`
	LengthMode     string `json:"length_mode"`
	LengthExact    string `json:"length_exact"`
	LengthMin      string `json:"length_min"`
	LengthMax      string `json:"length_max"`
}

// Build produces the pattern `^[<merged-classes>]<quantifier>$`.
func (b PatternBuilder) Build() (string, error) {
	var classes strings.Builder
	if b.AlphaLowercase {
		classes.WriteString("a-z")
	}
	if b.AlphaUppercase {
		classes.WriteString("A-Z")
	}
	if b.Numeric {
		classes.WriteString("0-9")
	}
	if b.Hexadecimal {
		classes.WriteString("A-Fa-f0-9")
	}
	if b.Printable {
		classes.WriteString(`\x20-\x7E`)
	}
	if classes.Len() == 0 {
		return "", appErr.Validation("select at least one character class")
	}

	quantifier, err := b.quantifier()
	if err != nil {
		return "", err
	}
	return "^[" + classes.String() + "]" + quantifier + "$", nil
}

func (b PatternBuilder) quantifier() (string, error) {
	switch b.LengthMode {
	case "", LengthNone:
		return "+", nil
	case LengthExact:
		n, err := strconv.Atoi(strings.TrimSpace(b.LengthExact))
		if err != nil || n <= 0 {
			return "", appErr.Validation("exact length must be a positive integer")
		}
		return "{" + strconv.Itoa(n) + "}", nil
	case LengthRange:
		min, err := strconv.Atoi(strings.TrimSpace(b.LengthMin))
		if err != nil || min < 0 {
			return "", appErr.Validation("minimum length must be a non-negative integer")
		}
		if strings.TrimSpace(b.LengthMax) == "" {
			return "{" + strconv.Itoa(min) + ",}", nil
		}
		max, err := strconv.Atoi(strings.TrimSpace(b.LengthMax))
		if err != nil || max < 0 {
			return "", appErr.Validation("maximum length must be a non-negative integer")
		}
		if max < min {
			return "", appErr.Validation("maximum length must not be below minimum length")
		}
		return "{" + strconv.Itoa(min) + "," + strconv.Itoa(max) + "}", nil
	default:
		return "", appErr.Validation("unknown length mode " + strconv.Quote(b.LengthMode))
	}
}
