package model

// WineMatch is a label-lookup candidate returned by an external wine
// database. Matches are suggestions only and are never persisted as-is.
type WineMatch struct {
	Name           string   `json:"name"`
	Winery         string   `json:"winery"`
	WineType       string   `json:"wine_type"`
	Vintage        *int     `json:"vintage"`
	Region         *string  `json:"region"`
	Country        *string  `json:"country"`
	ABV            *float64 `json:"abv"`
	ImageURL       string   `json:"image_url"`
	ExternalID     *uint64  `json:"external_id"`
	ExternalRating *float64 `json:"external_rating"`
	ExternalSource *string  `json:"external_source"`
}
