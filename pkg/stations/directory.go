package stations

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/util"
	"golang.org/x/exp/slices"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Directory is a read-only table of stations, safe for concurrent use once built
type Directory struct {
	stations []ctdf.Station

	byID   map[int]int
	byName map[string]int
}

type jsonStation struct {
	ID     int                   `json:"id"`
	Nombre string                `json:"nombre"`
	Lineas []util.FlexibleString `json:"lineas"`
}

type csvStation struct {
	ID     int    `csv:"id"`
	Nombre string `csv:"nombre"`
	Lineas string `csv:"lineas"`
}

func New(stations []ctdf.Station) *Directory {
	directory := &Directory{
		byID:   map[int]int{},
		byName: map[string]int{},
	}

	for _, station := range stations {
		if _, exists := directory.byID[station.ID]; exists {
			log.Warn().Int("id", station.ID).Str("name", station.Name).Msg("Ignoring duplicate station")
			continue
		}

		station.Lines = util.DeduplicateStrings(station.Lines)

		directory.stations = append(directory.stations, station)
		index := len(directory.stations) - 1

		directory.byID[station.ID] = index

		foldedName := foldName(station.Name)
		if _, exists := directory.byName[foldedName]; !exists {
			directory.byName[foldedName] = index
		}
	}

	return directory
}

// Load reads a station file, picking the format from the extension (.json or .csv)
func Load(path string) (*Directory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var directory *Directory

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		directory, err = LoadCSV(file)
	case ".json":
		directory, err = LoadJSON(file)
	default:
		return nil, fmt.Errorf("unsupported station file format %q", filepath.Ext(path))
	}

	if err != nil {
		return nil, fmt.Errorf("loading stations from %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("stations", len(directory.stations)).Msg("Loaded station directory")

	return directory, nil
}

func LoadJSON(reader io.Reader) (*Directory, error) {
	var records []jsonStation
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, err
	}

	var stations []ctdf.Station
	for _, record := range records {
		lines := []string{}
		for _, line := range record.Lineas {
			lines = append(lines, string(line))
		}

		stations = append(stations, ctdf.Station{
			ID:    record.ID,
			Name:  record.Nombre,
			Lines: lines,
		})
	}

	return New(stations), nil
}

func LoadCSV(reader io.Reader) (*Directory, error) {
	var records []*csvStation
	if err := gocsv.Unmarshal(reader, &records); err != nil {
		return nil, err
	}

	var stations []ctdf.Station
	for _, record := range records {
		lines := []string{}
		for _, line := range strings.Split(record.Lineas, "|") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}

		stations = append(stations, ctdf.Station{
			ID:    record.ID,
			Name:  record.Nombre,
			Lines: lines,
		})
	}

	return New(stations), nil
}

func (d *Directory) Name(id int) (string, bool) {
	station, ok := d.ByID(id)

	return station.Name, ok
}

func (d *Directory) ByID(id int) (ctdf.Station, bool) {
	index, ok := d.byID[id]
	if !ok {
		return ctdf.Station{}, false
	}

	return d.stations[index], true
}

// FindByName matches ignoring case and accents, so "valencia sud" finds "València Sud"
func (d *Directory) FindByName(name string) (ctdf.Station, bool) {
	index, ok := d.byName[foldName(name)]
	if !ok {
		return ctdf.Station{}, false
	}

	return d.stations[index], true
}

func (d *Directory) ByLine(line string) []ctdf.Station {
	stations := []ctdf.Station{}

	for _, station := range d.stations {
		if station.ServesLine(line) {
			stations = append(stations, station)
		}
	}

	return stations
}

func (d *Directory) GroupedByLine() map[string][]ctdf.Station {
	grouped := map[string][]ctdf.Station{}

	for _, station := range d.stations {
		for _, line := range station.Lines {
			alreadyListed := slices.ContainsFunc(grouped[line], func(listed ctdf.Station) bool {
				return listed.ID == station.ID
			})

			if !alreadyListed {
				grouped[line] = append(grouped[line], station)
			}
		}
	}

	return grouped
}

func (d *Directory) All() []ctdf.Station {
	return slices.Clone(d.stations)
}

func foldName(name string) string {
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	folded, _, err := transform.String(folder, strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(name))
	}

	return folded
}
