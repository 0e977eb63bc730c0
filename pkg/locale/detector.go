package locale

import "strings"

// CanonicalCountry maps whatever a user typed ("usa", "Bharat", "uk") onto
// the canonical country name. Unknown input is returned unchanged so hosts
// can still list in countries the table does not know about.
func CanonicalCountry(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return input
	}

	for _, country := range Countries {
		if strings.ToLower(country.Name) == normalized {
			return country.Name
		}
		for _, alias := range country.Aliases {
			if alias == normalized {
				return country.Name
			}
		}
	}

	return input
}

// CountryCode resolves a country name or alias to its ISO 3166-1 alpha-2
// code, or "" when unknown.
func CountryCode(input string) string {
	canonical := CanonicalCountry(input)
	for code, country := range Countries {
		if country.Name == canonical {
			return code
		}
	}
	return ""
}
