package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "findtern"

// Metrics - набор коллекторов приложения на собственном реестре
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	InterviewsCreated   prometheus.Counter
	SlotsSelected       prometheus.Counter
	MeetingsCreated     *prometheus.CounterVec
	ProposalTransitions *prometheus.CounterVec
	MediaEvicted        prometheus.Counter
	WorkerRuns          *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		Registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InterviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interviews_created_total",
			Help:      "Interviews proposed by employers.",
		}),
		SlotsSelected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interview_slots_selected_total",
			Help:      "Interview slots picked by interns.",
		}),
		MeetingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_total",
			Help:      "Calendar meeting attempts by result.",
		}, []string{"result"}),
		ProposalTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_transitions_total",
			Help:      "Proposal status changes by target status.",
		}, []string{"status"}),
		MediaEvicted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "media_evicted_total",
			Help:      "Staged onboarding files removed by the eviction worker.",
		}),
		WorkerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_runs_total",
			Help:      "Background worker ticks by worker and result.",
		}, []string{"worker", "result"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.InterviewsCreated,
		m.SlotsSelected,
		m.MeetingsCreated,
		m.ProposalTransitions,
		m.MediaEvicted,
		m.WorkerRuns,
	)
	return m
}

// Handler - /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveMeeting считает попытку создания встречи
func (m *Metrics) ObserveMeeting(created bool) {
	if m == nil {
		return
	}
	result := "skipped"
	if created {
		result = "created"
	}
	m.MeetingsCreated.WithLabelValues(result).Inc()
}

// ObserveWorker считает тик воркера
func (m *Metrics) ObserveWorker(worker string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.WorkerRuns.WithLabelValues(worker, result).Inc()
}
