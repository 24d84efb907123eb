package query

type Station struct {
	ID   int
	Name string
}

type StationsByLine struct {
	Line string
}

type StationsGroupedByLine struct{}
