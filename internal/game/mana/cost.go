package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost represents a parsed mana cost.
type Cost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// ParseCost parses a mana cost string such as "{1}{G}" or "{2}{R}{R}".
// Supported symbols: {W} {U} {B} {R} {G} {C} and numbers for generic mana.
func ParseCost(costStr string) (Cost, error) {
	cost := Cost{}
	trimmed := strings.TrimSpace(costStr)
	if trimmed == "" {
		return cost, nil
	}

	matches := symbolPattern.FindAllStringSubmatch(trimmed, -1)
	if len(matches) == 0 {
		return Cost{}, fmt.Errorf("malformed mana cost %q", costStr)
	}

	for _, match := range matches {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "W":
			cost.White++
		case "U":
			cost.Blue++
		case "B":
			cost.Black++
		case "R":
			cost.Red++
		case "G":
			cost.Green++
		case "C":
			cost.Colorless++
		default:
			num, err := strconv.Atoi(symbol)
			if err != nil || num < 0 {
				return Cost{}, fmt.Errorf("unknown mana symbol {%s}", symbol)
			}
			cost.Generic += num
		}
	}

	return cost, nil
}

// MustCost parses a cost string and panics on failure. Intended for static
// card definition tables where the cost is a literal.
func MustCost(costStr string) Cost {
	cost, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return cost
}

// Colored returns the requirement for one colored symbol.
func (c Cost) Colored(s Symbol) int {
	switch s {
	case SymbolWhite:
		return c.White
	case SymbolBlue:
		return c.Blue
	case SymbolBlack:
		return c.Black
	case SymbolRed:
		return c.Red
	case SymbolGreen:
		return c.Green
	default:
		return 0
	}
}

// ConvertedTotal returns the total mana the cost demands.
func (c Cost) ConvertedTotal() int {
	return c.Generic + c.White + c.Blue + c.Black + c.Red + c.Green + c.Colorless
}

// IsZero reports whether the cost demands no mana at all.
func (c Cost) IsZero() bool {
	return c.ConvertedTotal() == 0
}

func (c Cost) String() string {
	var b strings.Builder
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for i := 0; i < c.Colorless; i++ {
		b.WriteString("{C}")
	}
	for i := 0; i < c.White; i++ {
		b.WriteString("{W}")
	}
	for i := 0; i < c.Blue; i++ {
		b.WriteString("{U}")
	}
	for i := 0; i < c.Black; i++ {
		b.WriteString("{B}")
	}
	for i := 0; i < c.Red; i++ {
		b.WriteString("{R}")
	}
	for i := 0; i < c.Green; i++ {
		b.WriteString("{G}")
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
