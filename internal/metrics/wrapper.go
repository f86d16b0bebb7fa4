package metrics

// MetricsWrapper provides the narrow interfaces the predict and model
// packages consume, avoiding a direct Prometheus dependency there.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

// predict.MetricsInterface

func (w *MetricsWrapper) PredictionsInc(kind string) {
	w.m.PredictionsTotal.WithLabelValues(kind).Inc()
}

func (w *MetricsWrapper) PredictionFailuresInc(kind string) {
	w.m.PredictionFailures.WithLabelValues(kind).Inc()
	w.m.ErrorsTotal.Inc()
}

func (w *MetricsWrapper) PredictionLatencyObserve(seconds float64) {
	w.m.PredictionLatency.Observe(seconds)
}

func (w *MetricsWrapper) ConfidenceObserve(score float64) {
	w.m.ConfidenceScores.Observe(score)
}

func (w *MetricsWrapper) BatchRequestsInc(kind string) {
	w.m.BatchRequests.WithLabelValues(kind).Inc()
}

func (w *MetricsWrapper) BatchItemsAdd(n float64) {
	w.m.BatchItems.Add(n)
}

// model.MetricsInterface

func (w *MetricsWrapper) ModelLoadsInc() {
	w.m.ModelLoads.Inc()
}

func (w *MetricsWrapper) ModelLoadFailuresInc() {
	w.m.ModelLoadFailures.Inc()
	w.m.ErrorsTotal.Inc()
}

func (w *MetricsWrapper) ModelLoadDurationObserve(seconds float64) {
	w.m.ModelLoadDuration.Observe(seconds)
}

func (w *MetricsWrapper) ModelAvailableSet(family string, available bool) {
	v := 0.0
	if available {
		v = 1.0
	}
	w.m.ModelAvailable.WithLabelValues(family).Set(v)
}
