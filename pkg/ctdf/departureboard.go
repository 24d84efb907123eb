package ctdf

// Arrival is an upcoming train at a station as shown on the station's live board
type Arrival struct {
	Line        string `json:"line"`
	Destination string `json:"destination"`
	Minutes     string `json:"minutes"`
}

type StationArrivals struct {
	Station  Station   `json:"station"`
	Arrivals []Arrival `json:"arrivals"`
	Error    string    `json:"error,omitempty"`
}
