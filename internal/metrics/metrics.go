// Quality metrics comparing a run's output against the original
package metrics

import (
	"log/slog"

	"gocv.io/x/gocv"
)

// Metric computes one quality figure from the original and processed buffers.
// Both buffers are borrowed, never released.
type Metric interface {
	Name() string
	Calculate(original, processed gocv.Mat) (float64, error)
}

// Evaluator runs a fixed set of metrics after each successful pipeline run.
type Evaluator struct {
	metrics []Metric
	logger  *slog.Logger
}

func NewEvaluator(logger *slog.Logger) *Evaluator {
	return &Evaluator{
		metrics: []Metric{NewPSNR(), NewSSIM()},
		logger:  logger,
	}
}

// Evaluate computes every metric, skipping any that fails.
func (e *Evaluator) Evaluate(original, processed gocv.Mat) map[string]float64 {
	results := make(map[string]float64, len(e.metrics))
	for _, metric := range e.metrics {
		value, err := metric.Calculate(original, processed)
		if err != nil {
			e.logger.Debug("metric skipped", "metric", metric.Name(), "error", err)
			continue
		}
		results[metric.Name()] = value
	}
	return results
}
