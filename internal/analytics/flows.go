package analytics

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
)

// Flow names registered with genkit.
const (
	ForecastFlowName    = "forecast"
	InterpolateFlowName = "interpolate"
)

// Flows exposes the analyses as genkit flows so runs are traced and can be
// inspected with the genkit developer tooling.
type Flows struct {
	forecast    func(context.Context, ForecastInput) (*ForecastResult, error)
	interpolate func(context.Context, KrigingInput) (*KrigingResult, error)
}

// NewFlows initialises a genkit instance and registers the flows on it.
func NewFlows(ctx context.Context, svc Service) *Flows {
	return DefineFlows(genkit.Init(ctx), svc)
}

// DefineFlows registers the analytics flows on g, backed by svc.
func DefineFlows(g *genkit.Genkit, svc Service) *Flows {
	forecast := genkit.DefineFlow(g, ForecastFlowName,
		func(ctx context.Context, input ForecastInput) (*ForecastResult, error) {
			result, err := svc.Forecast(ctx, input)
			if err != nil {
				return nil, fmt.Errorf("forecast %s: %w", input.Parameter, err)
			}
			return result, nil
		})

	interpolate := genkit.DefineFlow(g, InterpolateFlowName,
		func(ctx context.Context, input KrigingInput) (*KrigingResult, error) {
			result, err := svc.Interpolate(ctx, input)
			if err != nil {
				return nil, fmt.Errorf("interpolate %s: %w", input.Parameter, err)
			}
			return result, nil
		})

	return &Flows{
		forecast:    forecast.Run,
		interpolate: interpolate.Run,
	}
}

// Forecast runs the forecast flow.
func (f *Flows) Forecast(ctx context.Context, input ForecastInput) (*ForecastResult, error) {
	return f.forecast(ctx, input)
}

// Interpolate runs the interpolation flow.
func (f *Flows) Interpolate(ctx context.Context, input KrigingInput) (*KrigingResult, error) {
	return f.interpolate(ctx, input)
}
