package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReplaysTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_replays_total",
		Help: "completed replay passes",
	})
	ReplayFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_replay_failures_total",
		Help: "replay passes that ended in an error",
	})
	RecordsIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orderbook_records_ingested_total",
		Help: "raw log records fed into replay passes",
	})
)

// Handler builds the registry for the /metrics route.
func Handler() http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(ReplaysTotal, ReplayFailuresTotal, RecordsIngestedTotal)
	reg.MustRegister(collectors.NewGoCollector())
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
