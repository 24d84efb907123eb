package ctdf

type Station struct {
	ID    int      `json:"id" groups:"basic,detailed"`
	Name  string   `json:"name" groups:"basic,detailed"`
	Lines []string `json:"lines" groups:"detailed"`
}

func (s *Station) ServesLine(line string) bool {
	for _, stationLine := range s.Lines {
		if stationLine == line {
			return true
		}
	}

	return false
}
