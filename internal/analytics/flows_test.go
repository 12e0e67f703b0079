package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlows_Forecast(t *testing.T) {
	ctx := context.Background()
	mock := &MockService{ForecastResult: &ForecastResult{Model: "ARIMA(1,0,0)"}}
	flows := NewFlows(ctx, mock)

	input := ForecastInput{Values: []float64{1, 2, 3}, Periods: 4, Parameter: "bod5"}
	result, err := flows.Forecast(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "ARIMA(1,0,0)", result.Model)
	assert.Equal(t, []ForecastInput{input}, mock.ForecastInputs)
}

func TestFlows_Interpolate(t *testing.T) {
	ctx := context.Background()
	mock := &MockService{KrigingResult: &KrigingResult{GridPoints: 9}}
	flows := NewFlows(ctx, mock)

	result, err := flows.Interpolate(ctx, KrigingInput{Parameter: "tss"})
	require.NoError(t, err)
	assert.Equal(t, 9, result.GridPoints)
	assert.Len(t, mock.KrigingInputs, 1)
}

func TestFlows_ErrorsKeepType(t *testing.T) {
	ctx := context.Background()
	flows := NewFlows(ctx, &MockService{Error: NewRemoteError("series too short")})

	_, err := flows.Forecast(ctx, ForecastInput{Parameter: "cod"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cod")

	var aErr *Error
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, ErrorTypeRemote, aErr.Type)
}
