package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/metroplanner/pkg/config"
	"github.com/travigo/metroplanner/pkg/ctdf"
	"github.com/travigo/metroplanner/pkg/dataaggregator/global"
	"github.com/travigo/metroplanner/pkg/metrics"
	"github.com/travigo/metroplanner/pkg/stations"
)

const (
	directTimetable = `{"horarios": [{
		"horas": [["07:00:00", 1], ["08:00:00", 2], ["09:00:00", 3]],
		"trenes": [{"id": 1, "linea": 1, "destino": "Castelló"}, {"id": 2, "linea": 1, "destino": "Castelló"}, {"id": 3, "linea": 1, "destino": "Castelló"}],
		"duracion": 900
	}]}`

	transferTimetable = `{"horarios": [
		{"horas": [["08:00:00", "A"]], "trenes": [{"id": "A", "linea": "1", "destino": "Bétera"}], "duracion": 300},
		{"horas": [["08:06:00", "B"], ["08:12:00", "C"]], "trenes": [{"id": "B", "linea": "4", "destino": "Dr. Lluch"}, {"id": "C", "linea": "4", "destino": "Dr. Lluch"}], "duracion": 600}
	]}`

	empalmeBoard = `<div class="info-estacion"><div class="linea"><img alt="Línea 4"></div><div class="nombre-estacion">Dr. Lluch</div><div class="minutos">3 min</div></div>`
)

func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		data, err := url.ParseQuery(r.PostForm.Get("data"))
		require.NoError(t, err)

		switch r.URL.Path {
		case "/timetable":
			switch data.Get("origen") + "-" + data.Get("destino") {
			case "20-112":
				w.Write([]byte(directTimetable))
			case "20-200":
				w.Write([]byte(transferTimetable))
			case "1-112":
				w.Write([]byte(`{"horarios": []}`))
			default:
				w.WriteHeader(http.StatusInternalServerError)
			}
		case "/arrivals":
			switch data.Get("id") {
			case "13":
				json.NewEncoder(w).Encode(map[string]string{"html": empalmeBoard})
			case "200":
				w.WriteHeader(http.StatusInternalServerError)
			default:
				w.Write([]byte(`{"html": ""}`))
			}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestApp(t *testing.T) (*fiber.App, *metrics.Collector) {
	t.Helper()

	upstream := fakeUpstream(t)

	cfg := config.Default()
	cfg.Upstream.TimetableURL = upstream.URL + "/timetable"
	cfg.Upstream.ArrivalsURL = upstream.URL + "/arrivals"
	cfg.Upstream.MaxRetries = 0

	directory, err := stations.Load("../stations/testdata/stations.json")
	require.NoError(t, err)

	collector := metrics.NewCollector()

	return NewApp(ServerOptions{
		Aggregator:        global.Setup(cfg, directory, nil, collector),
		Metrics:           collector,
		HeartbeatInterval: time.Second,
	}), collector
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func get(t *testing.T, app *fiber.App, target string) (*http.Response, []byte) {
	t.Helper()
	return doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
}

func postJSONRPC(t *testing.T, app *fiber.App, body string) (*http.Response, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, raw := doRequest(t, app, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp, decoded
}

func TestVersionAndHeaders(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	req.Header.Set("Origin", "https://example.org")

	resp, body := doRequest(t, app, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("MCP"))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.JSONEq(t, `{"name": "metroplanner", "version": "v0.1"}`, string(body))
}

func TestUnknownEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := get(t, app, "/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error": "Endpoint not found"}`, string(body))
	assert.Equal(t, "1", resp.Header.Get("MCP"))
}

func TestRoute(t *testing.T) {
	app, collector := newTestApp(t)

	resp, body := get(t, app, "/route?from=20&to=112&date=2025-05-04&time=07:30")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var results ctdf.JourneyPlanResults
	require.NoError(t, json.Unmarshal(body, &results))

	assert.Equal(t, "Àngel Guimerà", results.OriginName)
	assert.Equal(t, "València Sud", results.DestinationName)
	assert.False(t, results.TransferRequired)
	assert.Equal(t, 2, results.Count)
	assert.Equal(t, "08:00:00", results.Itineraries[0].DepartureTime)
	assert.Equal(t, "08:15:00", results.Itineraries[0].ArrivalTime)
	assert.Equal(t, "Castelló", results.Itineraries[0].Legs[0].Destination)

	resp, body = get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `metroplanner_journey_plans_total{result="found"} 1`)
	assert.NotNil(t, collector)
}

func TestRouteWithTransferAndWindow(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := get(t, app, "/route?from=20&to=200&date=2025-05-04")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var results ctdf.JourneyPlanResults
	require.NoError(t, json.Unmarshal(body, &results))
	assert.True(t, results.TransferRequired)
	require.Equal(t, 1, results.Count)
	assert.Equal(t, ctdf.InterchangeLabel, results.Itineraries[0].Legs[0].To)
	assert.Equal(t, "B", results.Itineraries[0].Legs[1].TrainID)

	_, body = get(t, app, "/route?from=20&to=200&date=2025-05-04&connection_window=10")
	require.NoError(t, json.Unmarshal(body, &results))
	assert.Equal(t, 2, results.Count)
}

func TestRouteErrors(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name   string
		target string
		status int
	}{
		{"missing stations", "/route?from=20", http.StatusBadRequest},
		{"non numeric station", "/route?from=abc&to=112", http.StatusBadRequest},
		{"bad count", "/route?from=20&to=112&count=many", http.StatusBadRequest},
		{"bad window", "/route?from=20&to=112&connection_window=soon", http.StatusBadRequest},
		{"bad date", "/route?from=20&to=112&date=04-05-2025", http.StatusBadRequest},
		{"bad time", "/route?from=20&to=112&date=2025-05-04&time=late", http.StatusBadRequest},
		{"no service", "/route?from=1&to=112&date=2025-05-04", http.StatusNotFound},
		{"upstream failure", "/route?from=13&to=112&date=2025-05-04", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, app, tt.target)
			assert.Equal(t, tt.status, resp.StatusCode, string(body))

			var decoded map[string]any
			require.NoError(t, json.Unmarshal(body, &decoded))
			assert.NotEmpty(t, decoded["error"])
		})
	}

	_, body := get(t, app, "/route?from=13&to=112&date=2025-05-04")
	assert.Contains(t, string(body), `"detail"`)
}

func TestStation(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := get(t, app, "/station?name="+url.QueryEscape("valencia sud"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": 112, "name": "València Sud", "lines": ["1", "2"]}`, string(body))

	resp, _ = get(t, app, "/station")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, app, "/station?name=Xativa")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = get(t, app, "/station/112")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id": 112, "name": "València Sud"}`, string(body))

	resp, _ = get(t, app, "/station/abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, app, "/station/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLines(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := get(t, app, "/lines")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grouped map[string][]map[string]any
	require.NoError(t, json.Unmarshal(body, &grouped))

	require.Len(t, grouped["9"], 1)
	assert.Equal(t, map[string]any{"id": float64(20), "name": "Àngel Guimerà"}, grouped["9"][0])
	assert.Len(t, grouped["1"], 4)
}

func TestLineArrivals(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := get(t, app, "/lines/4/arrivals")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var decoded struct {
		Line     string                 `json:"line"`
		Stations []ctdf.StationArrivals `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(body, &decoded))

	assert.Equal(t, "4", decoded.Line)
	require.Len(t, decoded.Stations, 2)

	assert.Equal(t, 13, decoded.Stations[0].Station.ID)
	assert.Equal(t, []ctdf.Arrival{{Line: "Línea 4", Destination: "Dr. Lluch", Minutes: "3 min"}}, decoded.Stations[0].Arrivals)
	assert.Empty(t, decoded.Stations[0].Error)

	assert.Equal(t, 200, decoded.Stations[1].Station.ID)
	assert.Empty(t, decoded.Stations[1].Arrivals)
	assert.NotEmpty(t, decoded.Stations[1].Error)

	resp, _ = get(t, app, "/lines/42/arrivals")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestArrival(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/arrival?stationId=13", "/arrival?name=empalme"} {
		resp, body := get(t, app, target)
		require.Equal(t, http.StatusOK, resp.StatusCode, target)

		var arrivals ctdf.StationArrivals
		require.NoError(t, json.Unmarshal(body, &arrivals))
		assert.Equal(t, "Empalme", arrivals.Station.Name)
		assert.Len(t, arrivals.Arrivals, 1)
	}

	resp, body := get(t, app, "/arrival?stationId=77")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"station": {"id": 77, "name": "", "lines": null}, "arrivals": []}`, string(body))

	resp, _ = get(t, app, "/arrival")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = get(t, app, "/arrival?name=Xativa")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, app, "/arrival?stationId=200")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestJSONRPC(t *testing.T) {
	app, _ := newTestApp(t)

	resp, decoded := postJSONRPC(t, app, `{"jsonrpc": "2.0", "id": 1, "method": "initialize"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), decoded["id"])
	result := decoded["result"].(map[string]any)
	assert.Equal(t, "metroplanner", result["serverInfo"].(map[string]any)["name"])
	assert.Contains(t, result["methods"], "getNextTrains")

	resp, decoded = postJSONRPC(t, app, `{"jsonrpc": "2.0", "id": "abc", "method": "getNextTrains", "params": {"station": "Empalme"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", decoded["id"])
	trains := decoded["result"].(map[string]any)["trains"].([]any)
	require.Len(t, trains, 1)
	assert.Equal(t, "3 min", trains[0].(map[string]any)["minutes"])
}

func TestJSONRPCErrors(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   float64
	}{
		{"invalid json", `{"method":`, http.StatusBadRequest, -32700},
		{"missing station", `{"id": 2, "method": "getNextTrains", "params": {}}`, http.StatusBadRequest, -32602},
		{"unknown station", `{"id": 3, "method": "getNextTrains", "params": {"station": "Xàtiva"}}`, http.StatusNotFound, -32000},
		{"upstream failure", `{"id": 4, "method": "getNextTrains", "params": {"station": "Maritim"}}`, http.StatusBadGateway, -32001},
		{"unknown method", `{"id": 5, "method": "tools/list"}`, http.StatusNotFound, -32601},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, decoded := postJSONRPC(t, app, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, "2.0", decoded["jsonrpc"])
			assert.Nil(t, decoded["result"])
			assert.Equal(t, tt.code, decoded["error"].(map[string]any)["code"])
		})
	}
}
