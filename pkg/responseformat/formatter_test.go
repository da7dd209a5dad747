package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type payload struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

func TestWriteResponseJSONDefault(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteResponse(rec, req, payload{Name: "greenland", Value: 4.5}); err != nil {
		t.Fatalf("WriteResponse unexpected error: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, expected application/json", ct)
	}
	if origin := rec.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, expected *", origin)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, expected %d", rec.Code, http.StatusOK)
	}

	var got payload
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if got.Name != "greenland" || got.Value != 4.5 {
		t.Errorf("decoded %+v, expected {greenland 4.5}", got)
	}
}

func TestWriteResponseMsgPack(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodGet, "/api/thing?format=msgpack", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteResponse(rec, req, payload{Name: "antarctica", Value: 14}); err != nil {
		t.Fatalf("WriteResponse unexpected error: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/x-msgpack" {
		t.Errorf("Content-Type = %q, expected application/x-msgpack", ct)
	}

	// json tags drive the msgpack field names
	var got map[string]any
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not valid msgpack: %v", err)
	}
	if got["name"] != "antarctica" {
		t.Errorf("name = %v, expected antarctica", got["name"])
	}
}

func TestWriteResponseWithStatus(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodGet, "/api/thing", nil)
	rec := httptest.NewRecorder()

	err := f.WriteResponseWithStatus(rec, req, http.StatusBadRequest, map[string]string{"error": "INVALID_INPUT"})
	if err != nil {
		t.Fatalf("WriteResponseWithStatus unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWriteResponseUnknownFormatFallsBackToJSON(t *testing.T) {
	f := NewFormatter()
	req := httptest.NewRequest(http.MethodGet, "/api/thing?format=xml", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteResponse(rec, req, payload{Name: "x"}); err != nil {
		t.Fatalf("WriteResponse unexpected error: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, expected application/json", ct)
	}
}
