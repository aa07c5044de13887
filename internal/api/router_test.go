package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"geo-calculator-service/internal/platform/obs"
	"geo-calculator-service/internal/services"

	"github.com/prometheus/client_golang/prometheus"
)

type fakeCalculator struct {
	got services.Request
}

func (f *fakeCalculator) Calculate(ctx context.Context, req services.Request) (any, error) {
	f.got = req
	return map[string]int64{"venueId": req.VenueID1}, nil
}

func TestCalculateRoute(t *testing.T) {
	calc := &fakeCalculator{}
	srv := httptest.NewServer(NewRouter(calc, nil, nil))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/calculate", strings.NewReader(`{"body":"{\"type\":\"venue\",\"venueId1\":5}"}`))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Request-Id", "abc-123")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-Id"); got != "abc-123" {
		t.Fatalf("X-Request-Id = %q, want abc-123", got)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"result":{"venueId":5}`) {
		t.Fatalf("body = %s", body)
	}
	if calc.got.Type != "venue" || calc.got.VenueID1 != 5 {
		t.Fatalf("calculator got %+v", calc.got)
	}
}

func TestCalculateRouteRejectsGet(t *testing.T) {
	srv := httptest.NewServer(NewRouter(&fakeCalculator{}, nil, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/calculate")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}

func TestHealthReportsCheckFailure(t *testing.T) {
	check := func(ctx context.Context) error { return errors.New("db down") }
	srv := httptest.NewServer(NewRouter(&fakeCalculator{}, nil, check))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("expected generated X-Request-Id")
	}
}

func TestMetricsRoute(t *testing.T) {
	m, err := obs.NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	srv := httptest.NewServer(NewRouter(&fakeCalculator{}, m, nil))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/calculate", "application/json", strings.NewReader(`{"type":"venue","venueId1":1}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `geo_calculations_total{outcome="ok",type="venue"} 1`) {
		t.Fatalf("metrics body missing counter:\n%s", body)
	}
}

func TestMetricsRouteAbsentWithoutMetrics(t *testing.T) {
	srv := httptest.NewServer(NewRouter(&fakeCalculator{}, nil, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
