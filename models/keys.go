package models

// FieldKeys lists, per canonical field, the source key names to try in order.
// The first key present in a raw record wins.
type FieldKeys struct {
	Container []string
	Price     []string
	Beds      []string
	Baths     []string
	Cars      []string
	Address   []string
	URL       []string
	Lat       []string
	Lon       []string
}

// DefaultFieldKeys returns the key table for the common listing API providers.
func DefaultFieldKeys() FieldKeys {
	return FieldKeys{
		Container: []string{"properties", "listings", "results", "data", "items"},
		Price:     []string{"price", "price_display", "price_value", "price_min", "asking_price"},
		Beds:      []string{"bedrooms", "beds", "bed"},
		Baths:     []string{"bathrooms", "baths", "bath"},
		Cars:      []string{"carspaces", "cars", "parking", "car"},
		Address:   []string{"address", "full_address", "displayable_address", "formatted_address"},
		URL:       []string{"url", "ldp_url", "listing_url", "detail_url"},
		Lat:       []string{"lat", "latitude"},
		Lon:       []string{"lon", "lng", "longitude"},
	}
}
