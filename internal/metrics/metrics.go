// Package metrics collects Prometheus metrics for fetches, model calls,
// tool calls, chat turns and HTTP requests on a private registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"website-assistant/internal/llm"
)

const Namespace = "website_assistant"

type Collector struct {
	registry *prometheus.Registry

	PagesFetched  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	LLMRequests   *prometheus.CounterVec
	LLMDuration   *prometheus.HistogramVec
	LLMTokens     *prometheus.CounterVec
	ToolCalls     *prometheus.CounterVec
	ToolDuration  *prometheus.HistogramVec
	ChatTurns     *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		PagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "pages_fetched_total",
			Help:      "Pages fetched, by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Page fetch duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		LLMRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_requests_total",
			Help:      "Chat completion requests, by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		LLMDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Chat completion latency in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"purpose"}),
		LLMTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_tokens_total",
			Help:      "Tokens consumed, by direction.",
		}, []string{"direction"}),
		ToolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tool_calls_total",
			Help:      "Tool calls, by tool and outcome.",
		}, []string{"tool", "outcome"}),
		ToolDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "tool_duration_seconds",
			Help:      "Tool execution time in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"tool"}),
		ChatTurns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "chat_turns_total",
			Help:      "Chat turns, by variant and outcome.",
		}, []string{"variant", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	c.registry.MustRegister(
		c.PagesFetched, c.FetchDuration,
		c.LLMRequests, c.LLMDuration, c.LLMTokens,
		c.ToolCalls, c.ToolDuration,
		c.ChatTurns,
		c.HTTPRequests, c.HTTPDuration,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveFetch matches crawler.Observer.
func (c *Collector) ObserveFetch(_ string, _ int, elapsed time.Duration, err error) {
	o := outcome(err)
	c.PagesFetched.WithLabelValues(o).Inc()
	c.FetchDuration.WithLabelValues(o).Observe(elapsed.Seconds())
}

// ObserveTool matches tools.Hook.
func (c *Collector) ObserveTool(tool string, elapsed time.Duration, err error) {
	c.ToolCalls.WithLabelValues(tool, outcome(err)).Inc()
	c.ToolDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

func (c *Collector) ObserveTurn(variant string, err error) {
	c.ChatTurns.WithLabelValues(variant, outcome(err)).Inc()
}

func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Provider wraps p and records every chat request.
func (c *Collector) Provider(p llm.Provider) llm.Provider {
	return &observedProvider{next: p, c: c}
}

type observedProvider struct {
	next llm.Provider
	c    *Collector
}

func (o *observedProvider) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	purpose := req.Purpose
	if purpose == "" {
		purpose = "unknown"
	}
	start := time.Now()
	resp, err := o.next.Chat(ctx, req)
	o.c.LLMDuration.WithLabelValues(purpose).Observe(time.Since(start).Seconds())
	o.c.LLMRequests.WithLabelValues(purpose, outcome(err)).Inc()
	if err == nil {
		o.c.LLMTokens.WithLabelValues("input").Add(float64(resp.InputTokens))
		o.c.LLMTokens.WithLabelValues("output").Add(float64(resp.OutputTokens))
	}
	return resp, err
}
