// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
)

// Results recorded by the counters.
const (
	ResultOK       = "ok"
	ResultReplay   = "replay"
	ResultInvalid  = "invalid"
	ResultError    = "error"
	ResultExceeded = "quota_exceeded"
)

// Recorder is safe to use as a nil pointer; every method is then a no-op.
type Recorder struct {
	requestDuration      *prometheus.HistogramVec
	receiptVerifications *prometheus.CounterVec
	nearbySearches       *prometheus.CounterVec
	tradeTransitions     *prometheus.CounterVec
	chatMessages         prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "A histogram of request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "code"},
		),
		receiptVerifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "receipt_verifications_total",
				Help: "Google Play receipt verifications by result.",
			},
			[]string{"result"},
		),
		nearbySearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nearby_searches_total",
				Help: "Nearby searches by result.",
			},
			[]string{"result"},
		),
		tradeTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trades_transitions_total",
				Help: "Trade status transitions by target status.",
			},
			[]string{"to"},
		),
		chatMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Chat messages stored.",
		}),
	}

	reg.MustRegister(
		r.requestDuration,
		r.receiptVerifications,
		r.nearbySearches,
		r.tradeTransitions,
		r.chatMessages,
	)
	return r
}

func (r *Recorder) ReceiptVerification(result string) {
	if r == nil {
		return
	}
	r.receiptVerifications.WithLabelValues(result).Inc()
}

func (r *Recorder) NearbySearch(result string) {
	if r == nil {
		return
	}
	r.nearbySearches.WithLabelValues(result).Inc()
}

func (r *Recorder) TradeTransition(to string) {
	if r == nil {
		return
	}
	r.tradeTransitions.WithLabelValues(to).Inc()
}

func (r *Recorder) ChatMessage() {
	if r == nil {
		return
	}
	r.chatMessages.Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades pass through the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

// Instrument observes request latency labelled by the matched route template,
// so path parameters do not explode label cardinality.
func (r *Recorder) Instrument(next http.Handler) http.Handler {
	if r == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)

		route := "unmatched"
		if current := mux.CurrentRoute(req); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		r.requestDuration.
			WithLabelValues(req.Method, route, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
