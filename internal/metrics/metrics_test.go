package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue metrics
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestRecorder_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.ReceiptVerification(ResultOK)
	rec.ReceiptVerification(ResultReplay)
	rec.ReceiptVerification(ResultReplay)
	rec.NearbySearch(ResultExceeded)
	rec.TradeTransition("accepted")
	rec.ChatMessage()
	rec.ChatMessage()

	assert.Equal(t, 1.0, counterValue(t, reg, "receipt_verifications_total", map[string]string{"result": "ok"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "receipt_verifications_total", map[string]string{"result": "replay"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "nearby_searches_total", map[string]string{"result": "quota_exceeded"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "trades_transitions_total", map[string]string{"to": "accepted"}))
	assert.Equal(t, 2.0, counterValue(t, reg, "chat_messages_total", nil))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.ReceiptVerification(ResultOK)
		rec.NearbySearch(ResultOK)
		rec.TradeTransition("completed")
		rec.ChatMessage()
	})

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	assert.NotNil(t, rec.Instrument(handler))
}

func TestRecorder_InstrumentUsesRouteTemplate(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	router := mux.NewRouter()
	router.Use(rec.Instrument)
	router.HandleFunc("/api/v1/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts/"+id, nil))
		assert.Equal(t, http.StatusTeapot, w.Code)
	}

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, family := range families {
		if family.GetName() != "http_request_duration_seconds" {
			continue
		}
		require.Len(t, family.GetMetric(), 1)
		metric := family.GetMetric()[0]
		assert.Equal(t, uint64(3), metric.GetHistogram().GetSampleCount())
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		assert.Equal(t, "/api/v1/posts/{id}", labels["route"])
		assert.Equal(t, "418", labels["code"])
		found = true
	}
	assert.True(t, found)
}
