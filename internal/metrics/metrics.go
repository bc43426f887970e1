package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retiros", Name: "http_requests_total", Help: "HTTP requests by method and status",
	}, []string{"method", "status"})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retiros", Name: "handler_errors_total", Help: "Handler errors",
	})
	PickupsRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "retiros", Name: "pickups_registered_total", Help: "Pickup registrations",
	})
	SyncBroadcasts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "retiros", Name: "sync_broadcasts_total", Help: "Collection broadcasts",
	}, []string{"collection"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "retiros", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HandlerErrors, PickupsRegistered, SyncBroadcasts, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
