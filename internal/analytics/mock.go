package analytics

import (
	"context"
	"sync"
)

// MockService is a canned Service for tests.
type MockService struct {
	ForecastResult *ForecastResult
	KrigingResult  *KrigingResult
	HealthStatus   *HealthStatus
	Error          error // Returned by every call when set

	mu             sync.Mutex
	ForecastInputs []ForecastInput
	KrigingInputs  []KrigingInput
}

var _ Service = (*MockService)(nil)

// Forecast records input and returns the canned result.
func (m *MockService) Forecast(ctx context.Context, input ForecastInput) (*ForecastResult, error) {
	m.mu.Lock()
	m.ForecastInputs = append(m.ForecastInputs, input)
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	return m.ForecastResult, nil
}

// Interpolate records input and returns the canned result.
func (m *MockService) Interpolate(ctx context.Context, input KrigingInput) (*KrigingResult, error) {
	m.mu.Lock()
	m.KrigingInputs = append(m.KrigingInputs, input)
	m.mu.Unlock()

	if m.Error != nil {
		return nil, m.Error
	}
	return m.KrigingResult, nil
}

// Health returns the canned status.
func (m *MockService) Health(ctx context.Context) (*HealthStatus, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.HealthStatus, nil
}
