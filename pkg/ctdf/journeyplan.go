package ctdf

// InterchangeLabel names the implicit transfer point joining the two legs of a transfer itinerary
const InterchangeLabel = "Empalme"

type JourneyPlanResults struct {
	OriginName      string `json:"originName"`
	DestinationName string `json:"destinationName"`

	Itineraries      []Itinerary `json:"itineraries"`
	TransferRequired bool        `json:"transferRequired"`
	Count            int         `json:"count"`

	// Skipped counts candidate departures dropped because their train was missing from the timetable
	Skipped int `json:"-"`
}

type Itinerary struct {
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`

	Legs []JourneyLeg `json:"legs"`
}

type JourneyLeg struct {
	TrainID     string `json:"trainId"`
	Line        string `json:"line"`
	Destination string `json:"destination"`

	From string `json:"from"`
	To   string `json:"to"`

	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	DurationSeconds int    `json:"durationSeconds"`
}
