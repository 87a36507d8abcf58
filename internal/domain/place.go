package domain

// Opening-status labels shown to the client.
const (
	HoursOpen    = "營業中"
	HoursClosed  = "休息中"
	HoursUnknown = "資訊不足"
)

// WebsiteUnknown is the website value used when the provider has none.
const WebsiteUnknown = "#"

// MaxPhotos caps the number of photo URLs attached to a detail record.
const MaxPhotos = 2

// PlaceCandidate is a minimally described place returned by a search query.
type PlaceCandidate struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Types   []string `json:"types"`
	IsOpen  bool     `json:"is_open"`
}

// Position implements Positioned.
func (p PlaceCandidate) Position() Coordinate { return Coordinate{Lat: p.Lat, Lon: p.Lon} }

// PlaceDetail is a fully enriched venue record.
type PlaceDetail struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
	Rating     float64  `json:"rating"`
	PriceLevel int      `json:"price_level"`
	Hours      string   `json:"hours"`
	Types      []string `json:"types"`
	Details    Details  `json:"details"`
}

// Position implements Positioned.
func (p PlaceDetail) Position() Coordinate { return Coordinate{Lat: p.Lat, Lon: p.Lon} }

// Details is the presentation sub-record of a PlaceDetail.
type Details struct {
	Photos       []string     `json:"photos"`
	Reviews      []Review     `json:"reviews"`
	OpeningHours OpeningHours `json:"opening_hours"`
	Phone        string       `json:"formatted_phone_number"`
	Website      string       `json:"website"`
}

// OpeningHours holds the provider's human-readable weekly schedule.
type OpeningHours struct {
	WeekdayText []string `json:"weekday_text"`
}

// Review is a single user review.
type Review struct {
	AuthorName              string  `json:"author_name"`
	AuthorURL               string  `json:"author_url,omitempty"`
	ProfilePhotoURL         string  `json:"profile_photo_url,omitempty"`
	Rating                  float64 `json:"rating"`
	RelativeTimeDescription string  `json:"relative_time_description,omitempty"`
	Text                    string  `json:"text"`
	Time                    int64   `json:"time,omitempty"`
}

// GeocodeHit is one geocoding match.
type GeocodeHit struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
