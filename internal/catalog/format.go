package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var statLabels = map[string]string{ //nolint:gochecknoglobals // Lookup table.
	"hp":              "HP",
	"attack":          "Attack",
	"defense":         "Defense",
	"special-attack":  "Sp. Atk",
	"special-defense": "Sp. Def",
	"speed":           "Speed",
}

// AllTypes lists the eighteen elemental types in catalog order.
var AllTypes = []string{ //nolint:gochecknoglobals // Fixed enumeration.
	"normal", "fighting", "flying", "poison", "ground", "rock",
	"bug", "ghost", "steel", "fire", "water", "grass",
	"electric", "psychic", "ice", "dragon", "dark", "fairy",
}

// IsKnownType reports whether name is one of AllTypes.
func IsKnownType(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range AllTypes {
		if t == name {
			return true
		}
	}
	return false
}

// DisplayName title-cases a hyphenated catalog name: "mr-mime" → "Mr Mime".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// StatLabel returns the short label of a stat name.
func StatLabel(name string) string {
	if label, ok := statLabels[name]; ok {
		return label
	}
	return DisplayName(name)
}

// FormatNumber renders an identifier as "#025".
func FormatNumber(id int) string {
	return fmt.Sprintf("#%03d", id)
}
