package types

import "strings"

// Address is the shipping destination captured during checkout. Stored as
// jsonb via the gorm JSON serializer.
type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (a Address) Trimmed() Address {
	return Address{
		Address:    strings.TrimSpace(a.Address),
		City:       strings.TrimSpace(a.City),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
}

// MissingFields lists the required fields that are empty post-trim, in a
// stable order so callers can report them all at once.
func (a Address) MissingFields() []string {
	trimmed := a.Trimmed()
	var missing []string
	if trimmed.Address == "" {
		missing = append(missing, "address")
	}
	if trimmed.City == "" {
		missing = append(missing, "city")
	}
	if trimmed.PostalCode == "" {
		missing = append(missing, "postal_code")
	}
	if trimmed.Country == "" {
		missing = append(missing, "country")
	}
	return missing
}
