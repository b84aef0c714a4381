// Package address defines the structured Nigerian address payload carried by
// submissions, with its normalization, validation, and display formatting.
package address

import (
	"strings"
	"unicode/utf8"
)

// MaxFieldLength bounds every address component.
const MaxFieldLength = 200

// Address is a structured postal address. Every field except PostalCode is required.
type Address struct {
	Street     string  `json:"street"`
	Area       string  `json:"area"`
	City       string  `json:"city"`
	LGA        string  `json:"lga"`
	State      string  `json:"state"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    string  `json:"country"`
}

// Normalize returns a copy with surrounding whitespace removed and inner
// whitespace collapsed. An empty postal code becomes nil.
func (a Address) Normalize() Address {
	out := Address{
		Street:  clean(a.Street),
		Area:    clean(a.Area),
		City:    clean(a.City),
		LGA:     clean(a.LGA),
		State:   clean(a.State),
		Country: clean(a.Country),
	}
	if a.PostalCode != nil {
		if pc := clean(*a.PostalCode); pc != "" {
			out.PostalCode = &pc
		}
	}
	return out
}

// Validate reports field-level problems keyed by JSON field name.
// The result is empty when the address is valid.
func (a Address) Validate() map[string]string {
	problems := make(map[string]string)

	required := []struct {
		field string
		value string
	}{
		{"street", a.Street},
		{"area", a.Area},
		{"city", a.City},
		{"lga", a.LGA},
		{"state", a.State},
		{"country", a.Country},
	}

	for _, r := range required {
		switch {
		case strings.TrimSpace(r.value) == "":
			problems[r.field] = "required"
		case utf8.RuneCountInString(r.value) > MaxFieldLength:
			problems[r.field] = "too long"
		}
	}

	if a.PostalCode != nil && utf8.RuneCountInString(*a.PostalCode) > MaxFieldLength {
		problems["postal_code"] = "too long"
	}

	return problems
}

// String renders the address as a single comma-separated line:
// street, area, city, lga, state[, postal code], country.
func (a Address) String() string {
	parts := []string{a.Street, a.Area, a.City, a.LGA, a.State}
	if a.PostalCode != nil && *a.PostalCode != "" {
		parts = append(parts, *a.PostalCode)
	}
	parts = append(parts, a.Country)
	return strings.Join(parts, ", ")
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
