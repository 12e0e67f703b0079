package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&Config{BaseURL: server.URL + "/", Timeout: 2 * time.Second})
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient(&Config{BaseURL: "http://localhost:8787"})
		require.NoError(t, err)
		assert.Equal(t, 60*time.Second, client.config.Timeout)
		assert.Equal(t, 2, client.config.MaxAttempts)
	})

	t.Run("invalid config", func(t *testing.T) {
		for _, baseURL := range []string{"", "localhost:8787", "ftp://host", "http://"} {
			_, err := NewClient(&Config{BaseURL: baseURL})
			assert.Error(t, err, baseURL)
		}
	})
}

func TestClient_Forecast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/forecast/arima", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var input ForecastInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, []float64{7.46, 2.53, 6.48}, input.Values)
		assert.Equal(t, 2, input.Periods)
		assert.Equal(t, "pH", input.Parameter)

		_, _ = io.WriteString(w, `{
			"success": true,
			"parameter": "pH",
			"model": "ARIMA(0,0,0)",
			"forecast": {"periods": 2, "mean": [5.49, 5.49], "lower": [1.1, 1.1], "upper": [9.9, 9.9]},
			"accuracy": {"mae": 1.9, "rmse": 2.1, "mape": 40.2}
		}`)
	})

	result, err := client.Forecast(context.Background(), ForecastInput{
		Values:    []float64{7.46, 2.53, 6.48},
		Periods:   2,
		Parameter: "pH",
	})
	require.NoError(t, err)
	assert.Equal(t, "ARIMA(0,0,0)", result.Model)
	assert.Equal(t, []float64{5.49, 5.49}, result.Forecast.Mean)
	assert.Equal(t, 2.1, result.Accuracy.RMSE)
}

func TestClient_ForecastValidation(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := client.Forecast(context.Background(), ForecastInput{Periods: 3})
	assertErrorType(t, err, ErrorTypeValidation)

	_, err = client.Forecast(context.Background(), ForecastInput{Values: []float64{1}})
	assertErrorType(t, err, ErrorTypeValidation)

	_, err = client.Interpolate(context.Background(), KrigingInput{Points: []KrigingPoint{{}, {}}})
	assertErrorType(t, err, ErrorTypeValidation)

	assert.Zero(t, calls.Load())
}

func TestClient_Interpolate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/interpolate/kriging", r.URL.Path)
		_, _ = io.WriteString(w, `{"success": true, "parameter": "tss", "grid_size": 2,
			"variogram": {"model": "Sph", "nugget": 0.1, "sill": 2, "range": 500},
			"sample_points": 3, "grid_points": 4,
			"grid": [{"lat": 21.0, "lng": 105.8, "value": 12.5, "variance": 0.4}]}`)
	})

	result, err := client.Interpolate(context.Background(), KrigingInput{
		Points:    []KrigingPoint{{21, 105.8, 10}, {21.1, 105.9, 15}, {21.2, 105.7, 12}},
		GridSize:  2,
		Parameter: "tss",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sph", result.Variogram.Model)
	require.Len(t, result.Grid, 1)
	assert.Equal(t, 12.5, result.Grid[0].Value)
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		_, _ = io.WriteString(w, `{"status": "ok", "r_version": "4.3.1", "message": "ready"}`)
	})

	status, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "4.3.1", status.Version)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType string
		wantCode int
	}{
		{"remote failure", http.StatusOK, `{"success": false, "error": "series too short"}`, ErrorTypeRemote, 0},
		{"remote failure on error status", http.StatusUnprocessableEntity, `{"success": false, "error": "singular matrix"}`, ErrorTypeRemote, 0},
		{"http error", http.StatusInternalServerError, `boom`, ErrorTypeAPI, http.StatusInternalServerError},
		{"not json", http.StatusOK, `<html>`, ErrorTypeParse, 0},
		{"wrong shape", http.StatusOK, `{"forecast": "soon"}`, ErrorTypeParse, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := client.Forecast(context.Background(), ForecastInput{Values: []float64{1}, Periods: 1})
			aErr := assertErrorType(t, err, tt.wantType)
			if aErr != nil {
				assert.Equal(t, tt.wantCode, aErr.Code)
			}
		})
	}

	t.Run("remote message kept", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"success": false, "error": "series too short"}`)
		})
		_, err := client.Forecast(context.Background(), ForecastInput{Values: []float64{1}, Periods: 1})
		assert.ErrorContains(t, err, "series too short")
	})
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client, err := NewClient(&Config{BaseURL: server.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.Health(context.Background())
	assertErrorType(t, err, ErrorTypeTimeout)
}

func TestClient_NetworkErrorRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewClient(&Config{BaseURL: url, MaxAttempts: 3})
	require.NoError(t, err)

	_, err = client.Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assertErrorType(t, err, ErrorTypeNetwork)
}

func TestError_Format(t *testing.T) {
	assert.Equal(t, "analytics api error (code 503): unavailable", NewAPIError(503, "unavailable").Error())
	assert.Equal(t, "analytics remote error: analysis failed", NewRemoteError("").Error())

	cause := errors.New("dial tcp: refused")
	assert.ErrorIs(t, NewNetworkError(cause), cause)
	assert.True(t, NewNetworkError(cause).Retryable())
	assert.False(t, NewTimeoutError(cause).Retryable())
}

func assertErrorType(t *testing.T, err error, want string) *Error {
	t.Helper()
	var aErr *Error
	if !assert.ErrorAs(t, err, &aErr) {
		return nil
	}
	assert.Equal(t, want, aErr.Type)
	return aErr
}
