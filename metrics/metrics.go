package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	reportsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flood_reports_dispatched_total",
			Help: "Reports forwarded to the government endpoint, by outcome and severity",
		},
		[]string{"outcome", "severity"},
	)

	geocodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geocode_lookups_total",
			Help: "Forward and reverse geocode lookups, by backend and result",
		},
		[]string{"backend", "kind", "result"},
	)

	exifExtractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exif_gps_extractions_total",
			Help: "EXIF GPS extraction attempts on uploaded photos",
		},
		[]string{"outcome"},
	)

	locationResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flood_location_resolutions_total",
			Help: "Location resolution outcomes, by winning source",
		},
		[]string{"source"},
	)
)

// Middleware records request counts and latency per route. The template
// path keeps label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func ObserveDispatch(outcome, severity string) {
	reportsDispatched.WithLabelValues(outcome, severity).Inc()
}

func ObserveGeocode(backend, kind, result string) {
	geocodeLookups.WithLabelValues(backend, kind, result).Inc()
}

func ObserveExif(outcome string) {
	exifExtractions.WithLabelValues(outcome).Inc()
}

func ObserveResolve(source string) {
	locationResolutions.WithLabelValues(source).Inc()
}
