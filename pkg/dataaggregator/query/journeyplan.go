package query

type JourneyPlan struct {
	OriginID      int
	DestinationID int

	// Date as YYYY-MM-DD, empty for today
	Date string
	// Time as HH:MM or HH:MM:SS, empty for the start of the day
	Time string

	Count                   int
	ConnectionWindowMinutes int
}
