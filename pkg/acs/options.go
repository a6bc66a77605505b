package acs

type EngineOption func(*Engine)

// WithVarianceTolerance sets the relative threshold, against mean squared, under which the
// variance is considered zero.
func WithVarianceTolerance(eps float64) EngineOption {
	return func(e *Engine) {
		if eps >= 0 {
			e.varianceTolerance = eps
		}
	}
}
