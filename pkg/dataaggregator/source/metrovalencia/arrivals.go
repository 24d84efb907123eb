package metrovalencia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/planner"
)

const (
	unknownLine        = "Desconocida"
	unknownDestination = "Desconocido"
	unknownMinutes     = "¿?"
)

type arrivalsResponse struct {
	HTML string `json:"html"`
}

// FetchStationArrivals scrapes the live board for a station
func (c *Client) FetchStationArrivals(ctx context.Context, stationID int) ([]ctdf.Arrival, error) {
	form := url.Values{}
	form.Set("action", "formularios_ajax")
	form.Set("data", fmt.Sprintf("action=info-estacion&id=%d", stationID))

	body, err := c.post(ctx, "arrivals", c.Config.ArrivalsURL, c.Config.ArrivalsReferer, form)
	if err != nil {
		return nil, err
	}

	var response arrivalsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: decoding arrivals: %w", planner.ErrUpstreamMalformed, err)
	}

	return parseArrivals(response.HTML)
}

func parseArrivals(html string) ([]ctdf.Arrival, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing arrivals board: %w", planner.ErrUpstreamMalformed, err)
	}

	arrivals := []ctdf.Arrival{}

	doc.Find(".info-estacion").Each(func(_ int, block *goquery.Selection) {
		line, _ := block.Find(".linea img").Attr("alt")
		line = strings.TrimSpace(line)
		if line == "" {
			line = unknownLine
		}

		minutes := strings.TrimSpace(block.Find(".minutos").Text())
		if minutes == "" {
			minutes = unknownMinutes
		}

		// The destination cell sometimes carries the wait time as a trailing number
		destinationFields := strings.Fields(block.Find(".nombre-estacion").Text())
		if len(destinationFields) > 1 {
			if _, err := strconv.Atoi(destinationFields[len(destinationFields)-1]); err == nil {
				minutes = destinationFields[len(destinationFields)-1] + " min"
				destinationFields = destinationFields[:len(destinationFields)-1]
			}
		}

		destination := strings.Join(destinationFields, " ")
		if destination == "" {
			destination = unknownDestination
		}

		arrivals = append(arrivals, ctdf.Arrival{
			Line:        line,
			Destination: destination,
			Minutes:     minutes,
		})
	})

	return arrivals, nil
}
