package card

import (
	"fmt"
	"strings"
)

// Category identifies which schema a card record is validated against
type Category string

const (
	Unknown        Category = ""
	Pokemon        Category = "pokemon"
	TrainerItem    Category = "trainer-item"
	TrainerSupport Category = "trainer-support"
	Energy         Category = "energy"
)

// Categories lists every known category in reporting order
var Categories = []Category{Pokemon, TrainerItem, TrainerSupport, Energy}

// ParseCategory maps a category name to a Category
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == strings.ToLower(strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return Unknown, fmt.Errorf("unknown category: %s", s)
}

// Record is a decoded card data file
type Record map[string]any

// CardType returns the declared cardType and whether it is present as a string
func (r Record) CardType() (string, bool) {
	s, ok := r["cardType"].(string)
	return s, ok
}

// Supertype returns the supertype field, or "" if absent
func (r Record) Supertype() string {
	s, _ := r["supertype"].(string)
	return s
}

// Name returns the card name, or "" if absent
func (r Record) Name() string {
	s, _ := r["name"].(string)
	return s
}

// Subtypes returns the string entries of the subtypes list
func (r Record) Subtypes() []string {
	raw, ok := r["subtypes"].([]any)
	if !ok {
		return nil
	}
	subtypes := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			subtypes = append(subtypes, s)
		}
	}
	return subtypes
}

// DescribeCardType renders the cardType value for error messages
func (r Record) DescribeCardType() string {
	v, ok := r["cardType"]
	if !ok || v == nil {
		return "missing"
	}
	return fmt.Sprint(v)
}

// Classify picks the schema category for a record from its cardType and subtypes.
// Generic trainers without the Supporter subtype are treated as items.
func Classify(r Record) Category {
	cardType, ok := r.CardType()
	if !ok {
		return Unknown
	}

	switch strings.ToLower(cardType) {
	case "pokemon":
		return Pokemon
	case "energy":
		return Energy
	case "trainer", "trainer-item":
		if contains(r.Subtypes(), "Supporter") {
			return TrainerSupport
		}
		return TrainerItem
	default:
		return Unknown
	}
}

// contains checks if a string is in a slice
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
