package places

// Wire types of the Google Maps web-service JSON APIs (legacy Places + Geocoding).

// Status values returned in the "status" field.
const (
	StatusOK             = "OK"
	StatusZeroResults    = "ZERO_RESULTS"
	StatusOverQueryLimit = "OVER_QUERY_LIMIT"
	StatusInvalidRequest = "INVALID_REQUEST"
	StatusNotFound       = "NOT_FOUND"
)

// NearbySearchResponse is the response of place/nearbysearch.
type NearbySearchResponse struct {
	Results       []PlaceResult `json:"results"`
	NextPageToken string        `json:"next_page_token"`
	Status        string        `json:"status"`
	ErrorMessage  string        `json:"error_message,omitempty"`
}

// DetailsResponse is the response of place/details.
type DetailsResponse struct {
	Result       PlaceResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

// PlaceResult is a place as returned by nearby search or details.
// Pointer fields distinguish "absent" from zero values.
type PlaceResult struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name"`
	Geometry             *Geometry     `json:"geometry,omitempty"`
	Types                []string      `json:"types"`
	Rating               *float64      `json:"rating,omitempty"`
	UserRatingsTotal     *int          `json:"user_ratings_total,omitempty"`
	PriceLevel           *int          `json:"price_level,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	Reviews              []Review      `json:"reviews,omitempty"`
	Vicinity             string        `json:"vicinity,omitempty"`
}

// Geometry holds a place location.
type Geometry struct {
	Location *LatLng `json:"location,omitempty"`
}

// LatLng is the provider's coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// OpeningHours holds the open-now flag and weekly schedule text.
type OpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Photo is a photo reference.
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

// Review is a user review.
type Review struct {
	AuthorName              string  `json:"author_name"`
	AuthorURL               string  `json:"author_url,omitempty"`
	ProfilePhotoURL         string  `json:"profile_photo_url,omitempty"`
	Rating                  float64 `json:"rating"`
	RelativeTimeDescription string  `json:"relative_time_description,omitempty"`
	Text                    string  `json:"text"`
	Time                    int64   `json:"time,omitempty"`
}

// GeocodeResponse is the response of the Geocoding API.
type GeocodeResponse struct {
	Results      []GeocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// GeocodeResult is one geocoding match.
type GeocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         Geometry `json:"geometry"`
}
