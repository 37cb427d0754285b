// Package metrics collects and exposes Prometheus metrics for the
// session gateway.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the usecases record through.
type Recorder interface {
	RecordResolution(class string, outcome string)
	RecordResolutionLatency(class string, d time.Duration)
	RecordRefresh(class string, ok bool)
	RecordLogin(class string, ok bool)
	RecordOTPVerification(class string, ok bool)
}

// Collector implements Recorder on Prometheus instruments.
type Collector struct {
	resolutions       *prometheus.CounterVec
	resolutionLatency *prometheus.HistogramVec
	refreshes         *prometheus.CounterVec
	logins            *prometheus.CounterVec
	otpVerifications  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its instruments on the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "momskitchen_session_resolutions_total",
			Help: "Session resolutions by identity class and outcome",
		}, []string{"class", "outcome"}),
		resolutionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "momskitchen_session_resolution_seconds",
			Help:    "Session resolution latency by identity class",
			Buckets: prometheus.DefBuckets,
		}, []string{"class"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "momskitchen_token_refreshes_total",
			Help: "Token refresh attempts by identity class and result",
		}, []string{"class", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "momskitchen_logins_total",
			Help: "Phone login submissions by identity class and result",
		}, []string{"class", "result"}),
		otpVerifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "momskitchen_otp_verifications_total",
			Help: "OTP verification attempts by identity class and result",
		}, []string{"class", "result"}),
	}

	reg.MustRegister(c.resolutions, c.resolutionLatency, c.refreshes, c.logins, c.otpVerifications)
	return c
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "fail"
}

func (c *Collector) RecordResolution(class, outcome string) {
	c.resolutions.WithLabelValues(class, outcome).Inc()
}

func (c *Collector) RecordResolutionLatency(class string, d time.Duration) {
	c.resolutionLatency.WithLabelValues(class).Observe(d.Seconds())
}

func (c *Collector) RecordRefresh(class string, ok bool) {
	c.refreshes.WithLabelValues(class, result(ok)).Inc()
}

func (c *Collector) RecordLogin(class string, ok bool) {
	c.logins.WithLabelValues(class, result(ok)).Inc()
}

func (c *Collector) RecordOTPVerification(class string, ok bool) {
	c.otpVerifications.WithLabelValues(class, result(ok)).Inc()
}

// Handler returns the scrape endpoint handler for the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything. Used in tests.
type Nop struct{}

func (Nop) RecordResolution(string, string)               {}
func (Nop) RecordResolutionLatency(string, time.Duration) {}
func (Nop) RecordRefresh(string, bool)                    {}
func (Nop) RecordLogin(string, bool)                      {}
func (Nop) RecordOTPVerification(string, bool)            {}
