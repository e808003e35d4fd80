package service

import (
	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics of the form service
type Metrics struct {
	Submissions    *prometheus.CounterVec
	FileSelections *prometheus.CounterVec
	OpenSessions   prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_form_submissions_total",
			Help: "Submission attempts by outcome",
		}, []string{"outcome"}),
		FileSelections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "candidate_form_file_selections_total",
			Help: "File selections by result",
		}, []string{"result"}),
		OpenSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "candidate_form_sessions_open",
			Help: "Candidate forms currently open",
		}),
	}
}

func (m *Metrics) observeSubmission(outcome dto.SubmitOutcome) {
	m.Submissions.WithLabelValues(string(outcome)).Inc()
}

func (m *Metrics) observeFileSelection(result string) {
	m.FileSelections.WithLabelValues(result).Inc()
}
