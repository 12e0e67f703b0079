package analytics

import (
	"context"
	"os"
	"testing"
)

// TestE2E_AnalyticsService runs against a live analytics service.
// Skipped unless RUN_E2E_TESTS=true and ENVIROCHECK_ANALYTICS_URL are set.
func TestE2E_AnalyticsService(t *testing.T) {
	if os.Getenv("RUN_E2E_TESTS") != "true" {
		t.Skip("E2E test skipped - set RUN_E2E_TESTS=true to run")
	}

	baseURL := os.Getenv("ENVIROCHECK_ANALYTICS_URL")
	if baseURL == "" {
		t.Fatal("ENVIROCHECK_ANALYTICS_URL not set")
	}

	client, err := NewClient(&Config{BaseURL: baseURL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	ctx := context.Background()

	t.Run("Health", func(t *testing.T) {
		status, err := client.Health(ctx)
		if err != nil {
			t.Fatalf("Health check failed: %v", err)
		}
		t.Logf("Service status: %s (version %s)", status.Status, status.Version)
	})

	t.Run("Forecast through flow", func(t *testing.T) {
		flows := NewFlows(ctx, client)
		result, err := flows.Forecast(ctx, ForecastInput{
			Values:     []float64{12.1, 13.4, 12.9, 14.2, 15.0, 14.6, 15.8, 16.1},
			Periods:    3,
			Parameter:  "cod",
			Confidence: 0.95,
		})
		if err != nil {
			t.Fatalf("Forecast failed: %v", err)
		}

		if len(result.Forecast.Mean) != 3 {
			t.Errorf("Expected 3 forecast periods, got %d", len(result.Forecast.Mean))
		}
		if len(result.Forecast.Lower) != len(result.Forecast.Mean) || len(result.Forecast.Upper) != len(result.Forecast.Mean) {
			t.Error("Expected confidence bands for every period")
		}
		t.Logf("Model %s, MAPE %.2f", result.Model, result.Accuracy.MAPE)
	})

	t.Run("Interpolate", func(t *testing.T) {
		result, err := client.Interpolate(ctx, KrigingInput{
			Points: []KrigingPoint{
				{Lat: 21.02, Lng: 105.83, Value: 42},
				{Lat: 21.05, Lng: 105.80, Value: 55},
				{Lat: 21.00, Lng: 105.87, Value: 38},
				{Lat: 21.04, Lng: 105.86, Value: 47},
			},
			GridSize:  10,
			Parameter: "pm25",
		})
		if err != nil {
			t.Fatalf("Interpolation failed: %v", err)
		}

		if len(result.Grid) == 0 {
			t.Error("Expected a non-empty grid")
		}
		t.Logf("Grid of %d cells, variogram %s", len(result.Grid), result.Variogram.Model)
	})
}
