// Package salary formats hourly rates for display, scaled by experience level
// and labelled in rupees or dollars depending on the country.
package salary

import (
	"fmt"
	"strings"
)

// Level is a candidate experience level.
type Level string

const (
	Fresher  Level = "Fresher"
	MidLevel Level = "Mid-Level"
	Senior   Level = "Senior"
)

// Levels lists the selectable experience levels in display order.
var Levels = []Level{Fresher, MidLevel, Senior}

// DefaultMultipliers scales a rate per level. Mid-Level is deliberately 1.0;
// levels missing from the table also scale by 1.0.
func DefaultMultipliers() map[Level]float64 {
	return map[Level]float64{
		Fresher:  0.8,
		MidLevel: 1.0,
		Senior:   1.5,
	}
}

// ParseLevel matches s against the known levels, ignoring case and surrounding space.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown experience level %q", s)
}

// Formatter renders rates with a configurable multiplier table.
type Formatter struct {
	multipliers map[Level]float64
}

// NewFormatter layers overrides onto DefaultMultipliers; levels not named
// in overrides keep their default factor.
func NewFormatter(overrides map[Level]float64) *Formatter {
	m := DefaultMultipliers()
	for k, v := range overrides {
		m[k] = v
	}
	return &Formatter{multipliers: m}
}

// Multiplier returns the scale factor for level.
func (f *Formatter) Multiplier(level Level) float64 {
	if m, ok := f.multipliers[level]; ok {
		return m
	}
	return 1.0
}

// Format scales rate by the level multiplier and renders it. Countries
// containing "india" use rupees with Lakh/Thousand units; all others use
// dollars, where both the 1e5 and 1e3 scales carry a "K" suffix.
// Fractions round half to even on exact binary halves, so 2.25 renders "2.2".
func (f *Formatter) Format(rate float64, country string, level Level) string {
	adjusted := rate * f.Multiplier(level)

	if strings.Contains(strings.ToLower(country), "india") {
		switch {
		case adjusted >= 100000:
			return fmt.Sprintf("₹%.1f Lakh", adjusted/100000)
		case adjusted >= 1000:
			return fmt.Sprintf("₹%.1f Thousand", adjusted/1000)
		default:
			return fmt.Sprintf("₹%.2f/hr", adjusted)
		}
	}
	switch {
	case adjusted >= 100000:
		return fmt.Sprintf("$%.1fK", adjusted/100000)
	case adjusted >= 1000:
		return fmt.Sprintf("$%.1fK", adjusted/1000)
	default:
		return fmt.Sprintf("$%.2f/hr", adjusted)
	}
}

var defaultFormatter = NewFormatter(nil)

// Format renders rate with DefaultMultipliers.
func Format(rate float64, country string, level Level) string {
	return defaultFormatter.Format(rate, country, level)
}
