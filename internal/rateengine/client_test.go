package rateengine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

func zone(z int) *int { return &z }

func testBatch() []core.NormalizedShipment {
	return []core.NormalizedShipment{
		{RowIndex: 1, WeightLbs: 3, CarrierRate: 20, Zone: zone(5), DestZip: "10001"},
		{RowIndex: 2, WeightLbs: 0.5, CarrierRate: 9.99, OrigZip: "60601"},
	}
}

func TestClient_SendsWireFormat(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/calculate-rates" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"results": []map[string]any{{"base_rate": 1.5, "final_rate": 2}, {"base_rate": 3, "final_rate": 4}},
			"summary": map[string]any{"count": 2, "avg_final": 3, "min_final": 2, "max_final": 4},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL+"/", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	settings := core.DefaultSettings()
	settings.FuelSurchargePct = 0.1
	settings.MarkupPct = 0.15
	settings.DiscountPercent = 12

	results, summary, err := c.CalculateRates(context.Background(), testBatch(), settings)
	if err != nil {
		t.Fatalf("CalculateRates: %v", err)
	}
	if len(results) != 2 || results[1].FinalRate != 4 || summary.AvgFinal != 3 {
		t.Errorf("results = %+v, summary = %+v", results, summary)
	}

	checks := map[string]float64{
		"markup_percent":         15,
		"fuel_surcharge_percent": 10,
		"discount_percent":       12,
		"das_surcharge":          1.98,
		"edas_surcharge":         3.92,
		"remote_surcharge":       14.15,
		"dim_divisor":            139,
	}
	for key, want := range checks {
		if v, _ := got[key].(float64); v < want-1e-9 || v > want+1e-9 {
			t.Errorf("%s = %v, want %v", key, got[key], want)
		}
	}
	if got["origin_zip"] != "46307" {
		t.Errorf("origin_zip = %v", got["origin_zip"])
	}

	shipments, _ := got["shipments"].([]any)
	if len(shipments) != 2 {
		t.Fatalf("shipments = %v", got["shipments"])
	}
	first := shipments[0].(map[string]any)
	if first["weight"] != 3.0 || first["zone"] != 5.0 || first["destination_zip"] != "10001" ||
		first["package_type"] != "box" || first["service_level"] != "standard" {
		t.Errorf("shipment 1 = %v", first)
	}
	if _, ok := first["origin_zip"]; ok {
		t.Errorf("blank origin_zip should be omitted: %v", first)
	}
	second := shipments[1].(map[string]any)
	if second["zone"] != nil {
		t.Errorf("missing zone should be null, got %v", second["zone"])
	}
	if second["origin_zip"] != "60601" {
		t.Errorf("origin_zip = %v", second["origin_zip"])
	}
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantMsg string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "engine exploded", http.StatusInternalServerError)
			},
			wantMsg: "status 500: engine exploded",
		},
		{
			name: "success false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":false,"message":"zone table missing"}`))
			},
			wantMsg: "zone table missing",
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`<html>`))
			},
			wantMsg: "decode response",
		},
		{
			name: "result count mismatch",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"success":true,"results":[{}],"summary":{}}`))
			},
			wantMsg: "1 results for 2 shipments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c, err := NewClient(srv.URL, time.Second)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			_, _, err = c.CalculateRates(context.Background(), testBatch(), core.DefaultSettings())

			if !errors.Is(err, core.ErrRateEngineUnavailable) {
				t.Fatalf("error %v does not match ErrRateEngineUnavailable", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := NewClient(srv.URL, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	start := time.Now()
	_, _, err = c.CalculateRates(context.Background(), testBatch(), core.DefaultSettings())
	if !errors.Is(err, core.ErrRateEngineUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("call took %v, want bounded by timeout", elapsed)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(addr, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, _, err = c.CalculateRates(context.Background(), testBatch(), core.DefaultSettings())

	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Status != 0 || ue.Err == nil {
		t.Errorf("error = %#v, want transport UnavailableError", err)
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantEndpoint string
		wantErr      bool
	}{
		{"default", "", "http://localhost:8001/api/calculate-rates", false},
		{"trailing slash", "https://rates.internal/", "https://rates.internal/api/calculate-rates", false},
		{"bad scheme", "ftp://rates.internal", "", true},
		{"unparsable", "http://[::1", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.url, 0)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			if c.Endpoint() != tt.wantEndpoint {
				t.Errorf("Endpoint() = %q, want %q", c.Endpoint(), tt.wantEndpoint)
			}
		})
	}
}

func TestClientWithGateway_FallsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	gw := core.NewGateway(c, time.Second)

	results, _, fallback := gw.ComputeRates(context.Background(), testBatch(), core.DefaultSettings())
	if !fallback {
		t.Fatal("expected fallback")
	}
	if results[0].BaseRate != 18.25 {
		t.Errorf("base_rate = %v, want 18.25", results[0].BaseRate)
	}
}
