package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the bot.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	commandsTotal *prometheus.CounterVec
	filesStaged   *prometheus.CounterVec
	filesSaved    prometheus.Counter
	filesReplayed *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
}

// NewMetricsService registers the bot's Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	commandsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_commands_total",
		Help: "Total bot commands handled, by verb and outcome",
	}, []string{"verb", "outcome"})

	filesStaged := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_files_staged_total",
		Help: "Total files staged, by modality",
	}, []string{"modality"})

	filesSaved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_files_saved_total",
		Help: "Total files committed under a share code",
	})

	filesReplayed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_files_replayed_total",
		Help: "Total files replayed to requesters, by modality",
	}, []string{"modality"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_resolve_cache_hits_total",
		Help: "Total resolve cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_resolve_cache_misses_total",
		Help: "Total resolve cache misses",
	})

	registry.MustRegister(commandsTotal, filesStaged, filesSaved, filesReplayed, cacheHits, cacheMisses)

	return &MetricsService{
		registry:      registry,
		handler:       promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		commandsTotal: commandsTotal,
		filesStaged:   filesStaged,
		filesSaved:    filesSaved,
		filesReplayed: filesReplayed,
		cacheHits:     cacheHits,
		cacheMisses:   cacheMisses,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveCommand records one handled command.
func (m *MetricsService) ObserveCommand(verb, outcome string) {
	if m == nil {
		return
	}
	m.commandsTotal.WithLabelValues(verb, outcome).Inc()
}

// ObserveStaged records one staged file.
func (m *MetricsService) ObserveStaged(modality string) {
	if m == nil {
		return
	}
	m.filesStaged.WithLabelValues(modality).Inc()
}

// ObserveSaved records n files committed in one save.
func (m *MetricsService) ObserveSaved(n int) {
	if m == nil {
		return
	}
	m.filesSaved.Add(float64(n))
}

// ObserveReplay records one replayed file.
func (m *MetricsService) ObserveReplay(modality string) {
	if m == nil {
		return
	}
	m.filesReplayed.WithLabelValues(modality).Inc()
}

// RecordCacheLookup records a resolve cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}
