package ctdf

// Departure is a single timetabled departure within a RouteSegment
type Departure struct {
	Time    string `json:"time"`
	Seconds int    `json:"-"`
	TrainID string `json:"trainId"`
}

type Train struct {
	ID          string `json:"id"`
	Line        string `json:"line"`
	Destination string `json:"destination"`
}

// RouteSegment is one continuous timetabled leg, either origin to destination
// or one side of an interchange. Departures are ordered by ascending time.
type RouteSegment struct {
	Departures      []Departure      `json:"departures"`
	Trains          map[string]Train `json:"trains"`
	DurationSeconds int              `json:"durationSeconds"`
}

func (r *RouteSegment) Train(id string) (Train, bool) {
	train, ok := r.Trains[id]

	return train, ok
}
