package types

// ProductDetails holds the blade-specific attributes shown on the product
// page. All fields are optional; length is centimeters, weight grams.
type ProductDetails struct {
	Material string  `json:"material,omitempty"`
	LengthCM float64 `json:"length_cm,omitempty"`
	WeightG  float64 `json:"weight_g,omitempty"`
	Origin   string  `json:"origin,omitempty"`
	Era      string  `json:"era,omitempty"`
	Style    string  `json:"style,omitempty"`
}

// NewsletterPreferences captures per-category opt-ins for a subscriber.
type NewsletterPreferences struct {
	Swords      bool `json:"swords"`
	Knives      bool `json:"knives"`
	Accessories bool `json:"accessories"`
	Promotions  bool `json:"promotions"`
}

// DefaultNewsletterPreferences opts a new subscriber into every category.
func DefaultNewsletterPreferences() NewsletterPreferences {
	return NewsletterPreferences{Swords: true, Knives: true, Accessories: true, Promotions: true}
}
