package stats

import (
	"fmt"
	"strings"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind defines how a modifier's magnitude is folded into a stat
type Kind int

const (
	// Flat adds the magnitude to the base value
	Flat Kind = iota + 1
	// PercentAdd sums with other PercentAdd modifiers and scales the total once
	PercentAdd
	// PercentMultiply compounds: each one scales the running total by (1 + magnitude)
	PercentMultiply
)

var kindNames = map[Kind]string{
	Flat:            "FLAT",
	PercentAdd:      "PERCENT_ADD",
	PercentMultiply: "PERCENT_MULTIPLY",
}

var upper = cases.Upper(language.Und)

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind reads an authored modifier_type. Matching is case-insensitive and
// an empty string means FLAT.
func ParseKind(s string) (Kind, error) {
	normalized := upper.String(strings.TrimSpace(s))
	if normalized == "" {
		return Flat, nil
	}
	for kind, name := range kindNames {
		if name == normalized {
			return kind, nil
		}
	}
	return 0, simerr.Validationf("unknown modifier_type %q", s).
		WithMeta("modifier_type", s)
}

// Modifier is one provenance-tagged adjustment on a stat. Modifiers are never
// changed once added; they are only removed, by Source.
type Modifier struct {
	Kind      Kind
	Magnitude float64
	Source    Source
}

func (m Modifier) String() string {
	switch m.Kind {
	case Flat:
		return fmt.Sprintf("%+g (%s)", m.Magnitude, m.Source)
	default:
		return fmt.Sprintf("%+g%% %s (%s)", m.Magnitude*100, m.Kind, m.Source)
	}
}
