package query

type RouteTimetable struct {
	OriginID      int
	DestinationID int
	Date          string
}
