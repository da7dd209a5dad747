package restserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/polarviz/icesheet/pkg/config"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats/scalar"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()

	provider := config.NewYAMLProvider("unused.yaml")
	ctrl, err := NewController(context.Background(), &sync.WaitGroup{}, provider,
		config.RESTServerData{
			Port:       8080,
			ListenAddr: "127.0.0.1",
			Site: config.SiteData{
				PageTitle: "Test Melt Monitor",
				AboutHTML: "<p>test about</p>",
			},
		}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctrl
}

func doRequest(t *testing.T, ctrl *Controller, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	recorder := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response body %q: %v", recorder.Body.String(), err)
	}
	return body
}

func TestGetDetails(t *testing.T) {
	ctrl := newTestController(t)

	tests := []struct {
		name            string
		path            string
		wantSize        float64
		wantTemperature float64
		wantRate        float64
	}{
		{"greenland", "/api/icesheet/GREENLAND/details", 4380000.0, -29.45, -4.364067},
		{"antarctica", "/api/icesheet/ANTARCTICA/details", 14000000.0, -57.0, -26.9982036},
		{"lower case", "/api/icesheet/greenland/details", 4380000.0, -29.45, -4.364067},
		{"mixed case", "/api/icesheet/AnTaRcTiCa/details", 14000000.0, -57.0, -26.9982036},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, ctrl, tt.path)
			if recorder.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", recorder.Code, recorder.Body.String())
			}

			body := decodeBody(t, recorder)
			if got := body["currentSize"].(float64); got != tt.wantSize {
				t.Errorf("currentSize = %v, want %v", got, tt.wantSize)
			}
			if got := body["ambientTemperature"].(float64); got != tt.wantTemperature {
				t.Errorf("ambientTemperature = %v, want %v", got, tt.wantTemperature)
			}
			if got := body["meltingRate"].(float64); got != tt.wantRate {
				t.Errorf("meltingRate = %v, want %v", got, tt.wantRate)
			}
		})
	}
}

func TestGetDetailsInvalidSheet(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/api/icesheet/ATLANTIS/details")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["error"] != "INVALID_ICE_SHEET" {
		t.Errorf("error code = %v, want INVALID_ICE_SHEET", body["error"])
	}
	if !strings.Contains(body["message"].(string), "'ATLANTIS'") {
		t.Errorf("message %q should quote the rejected selector", body["message"])
	}
	if body["path"] != "/api/icesheet/ATLANTIS/details" {
		t.Errorf("path = %v, want the request path", body["path"])
	}

	// Timestamp is in milliseconds since the epoch.
	timestamp := int64(body["timestamp"].(float64))
	now := time.Now().UnixMilli()
	if timestamp < now-60_000 || timestamp > now+60_000 {
		t.Errorf("timestamp %d not near current time %d", timestamp, now)
	}
}

func TestGetDetailsBlankSheet(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/api/icesheet/%20%20/details")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["error"] != "INVALID_INPUT" {
		t.Errorf("error code = %v, want INVALID_INPUT", body["error"])
	}
}

func TestGetVisualization(t *testing.T) {
	ctrl := newTestController(t)

	tests := []struct {
		name         string
		path         string
		wantName     string
		wantPeriod   string
		wantMassLoss float64
	}{
		{"antarctica annual", "/api/icesheet/ANTARCTICA/visualization?period=ANNUAL", "Antarctica", "ANNUAL", 851_415_349.0},
		{"greenland decade", "/api/icesheet/GREENLAND/visualization?period=DECADE", "Greenland", "DECADE", 1_376_252_169.0},
		{"lower case period", "/api/icesheet/greenland/visualization?period=annual", "Greenland", "ANNUAL", 137_625_216.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, ctrl, tt.path)
			if recorder.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (body %s)", recorder.Code, recorder.Body.String())
			}

			body := decodeBody(t, recorder)
			if body["iceSheetName"] != tt.wantName {
				t.Errorf("iceSheetName = %v, want %v", body["iceSheetName"], tt.wantName)
			}
			if body["period"] != tt.wantPeriod {
				t.Errorf("period = %v, want %v", body["period"], tt.wantPeriod)
			}

			massLoss := body["massLoss"].(float64)
			if !scalar.EqualWithinRel(massLoss, tt.wantMassLoss, 0.005) {
				t.Errorf("massLoss = %v, want about %v", massLoss, tt.wantMassLoss)
			}

			initialSize := body["initialSize"].(float64)
			finalSize := body["finalSize"].(float64)
			if !scalar.EqualWithinRel(initialSize-massLoss, finalSize, 1e-9) {
				t.Errorf("finalSize = %v, want initialSize - massLoss = %v", finalSize, initialSize-massLoss)
			}
		})
	}
}

func TestGetVisualizationErrors(t *testing.T) {
	ctrl := newTestController(t)

	tests := []struct {
		name     string
		path     string
		wantCode string
	}{
		{"missing period", "/api/icesheet/GREENLAND/visualization", "INVALID_INPUT"},
		{"blank period", "/api/icesheet/GREENLAND/visualization?period=%20", "INVALID_INPUT"},
		{"blank sheet", "/api/icesheet/%20/visualization?period=ANNUAL", "INVALID_INPUT"},
		{"invalid sheet", "/api/icesheet/INVALID/visualization?period=ANNUAL", "INVALID_PARAMETER"},
		{"invalid period", "/api/icesheet/GREENLAND/visualization?period=MILLENNIUM", "INVALID_PARAMETER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := doRequest(t, ctrl, tt.path)
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", recorder.Code, recorder.Body.String())
			}

			body := decodeBody(t, recorder)
			if body["error"] != tt.wantCode {
				t.Errorf("error code = %v, want %v", body["error"], tt.wantCode)
			}
		})
	}
}

func TestGetHealth(t *testing.T) {
	ctrl := newTestController(t)

	// Serve a few requests so the counters move.
	doRequest(t, ctrl, "/api/icesheet/GREENLAND/details")
	doRequest(t, ctrl, "/api/icesheet/ANTARCTICA/visualization?period=ANNUAL")
	doRequest(t, ctrl, "/api/icesheet/ANTARCTICA/visualization?period=DECADE")
	doRequest(t, ctrl, "/api/icesheet/BOGUS/visualization?period=ANNUAL")

	recorder := doRequest(t, ctrl, "/api/icesheet/health")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["status"] != "UP" {
		t.Errorf("status = %v, want UP", body["status"])
	}
	if got := body["totalCalculatorRequests"].(float64); got != 2 {
		t.Errorf("totalCalculatorRequests = %v, want 2", got)
	}
	if got := body["currentConcurrentRequests"].(float64); got != 0 {
		t.Errorf("currentConcurrentRequests = %v, want 0", got)
	}
	// Data service requests cover both calculations and detail lookups.
	if got := body["totalDataServiceRequests"].(float64); got != 3 {
		t.Errorf("totalDataServiceRequests = %v, want 3", got)
	}
}

func TestGetAPIInfo(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/api/icesheet")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}

	body := decodeBody(t, recorder)
	if body["message"] != "Ice Sheet Visualization API" {
		t.Errorf("message = %v", body["message"])
	}
	if body["status"] != "running" {
		t.Errorf("status = %v, want running", body["status"])
	}

	endpoints, ok := body["endpoints"].([]interface{})
	if !ok || len(endpoints) != 3 {
		t.Errorf("endpoints = %v, want 3 entries", body["endpoints"])
	}
}

func TestServeIndexTemplate(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); !strings.Contains(contentType, "text/html") {
		t.Errorf("content type = %q, want text/html", contentType)
	}

	html := recorder.Body.String()
	if !strings.Contains(html, "Test Melt Monitor") {
		t.Error("rendered page should contain the configured page title")
	}
	if !strings.Contains(html, "<p>test about</p>") {
		t.Error("rendered page should contain the configured about HTML unescaped")
	}
}

func TestStaticAssets(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/js/app.js")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if !strings.Contains(recorder.Body.String(), "api/icesheet") {
		t.Error("app.js should reference the API endpoints")
	}

	recorder = doRequest(t, ctrl, "/css/style.css")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/api/icesheet/GREENLAND/details")
	if origin := recorder.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", origin)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/icesheet/GREENLAND/details", nil)
	optionsRecorder := httptest.NewRecorder()
	ctrl.Server.Handler.ServeHTTP(optionsRecorder, req)
	if optionsRecorder.Code != http.StatusOK {
		t.Errorf("OPTIONS status = %d, want 200", optionsRecorder.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/api/icesheet/GREENLAND/details")
	if recorder.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header to be set")
	}
}

func TestMsgpackFormat(t *testing.T) {
	ctrl := newTestController(t)

	recorder := doRequest(t, ctrl, "/api/icesheet/GREENLAND/details?format=msgpack")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", recorder.Code)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "application/x-msgpack" {
		t.Errorf("content type = %q, want application/x-msgpack", contentType)
	}
}
