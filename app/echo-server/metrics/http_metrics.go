package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latency of API requests by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	RequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "API requests by route and status",
	}, []string{"method", "route", "status"})

	// Open server sent event streams
	OpenStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_open_streams",
		Help: "Cart streams currently connected",
	})
)

func Init() {
	prometheus.MustRegister(RequestDuration, RequestTotal, OpenStreams)
}

// Middleware records every request under its route pattern, so path
// parameters do not blow up label cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAccept) == "text/event-stream" {
				OpenStreams.Inc()
				defer OpenStreams.Dec()
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			RequestDuration.WithLabelValues(c.Request().Method, c.Path(), status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(c.Request().Method, c.Path(), status).Inc()
			return nil
		}
	}
}
