package query

type StationArrivals struct {
	StationID int
}
