// internal/api/handler/api/metrics.go
package api

// Metrics receives handler-level measurements. metrics.Registry implements it.
type Metrics interface {
	RecordEngineRequest(operation, status string, duration float64)
}

type nopMetrics struct{}

func (nopMetrics) RecordEngineRequest(string, string, float64) {}

func orNop(m Metrics) Metrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}
