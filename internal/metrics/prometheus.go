package metrics

import (
	"net/http"

	"cozinha-magica/internal/llm"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors holds the Prometheus metrics of the application on a private registry.
type Collectors struct {
	registry *prometheus.Registry

	AgentCalls   *prometheus.CounterVec
	Tokens       *prometheus.CounterVec
	AgentLatency *prometheus.HistogramVec
	Updates      *prometheus.CounterVec
}

// NewCollectors registers the application metrics plus the Go and process collectors.
func NewCollectors() *Collectors {
	reg := prometheus.NewRegistry()
	c := &Collectors{
		registry: reg,
		AgentCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozinha_agent_calls_total",
			Help: "Successful generative backend calls by agent",
		}, []string{"agent"}),
		Tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozinha_tokens_total",
			Help: "Tokens consumed by agent and kind (prompt, completion)",
		}, []string{"agent", "kind"}),
		AgentLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cozinha_agent_latency_seconds",
			Help:    "Latency of generative backend calls",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"agent"}),
		Updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cozinha_chat_updates_total",
			Help: "Chat updates handled by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
	reg.MustRegister(
		c.AgentCalls, c.Tokens, c.AgentLatency, c.Updates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Observe counts one backend call.
func (c *Collectors) Observe(meta llm.AgentMeta) {
	c.AgentCalls.WithLabelValues(meta.AgentName).Inc()
	c.Tokens.WithLabelValues(meta.AgentName, "prompt").Add(float64(meta.Usage.PromptTokens))
	c.Tokens.WithLabelValues(meta.AgentName, "completion").Add(float64(meta.Usage.CompletionTokens))
	c.AgentLatency.WithLabelValues(meta.AgentName).Observe(meta.Latency.Seconds())
}

// RegisterGaugeFunc exposes a value computed at scrape time.
func (c *Collectors) RegisterGaugeFunc(name, help string, fn func() float64) error {
	return c.registry.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}

// Handler serves the registry for the /metrics endpoint.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
