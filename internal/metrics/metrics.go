package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// EmailsSent counts delivered emails by kind (new_post, digest).
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_emails_sent_total",
		Help: "Total number of emails handed to the mail transport",
	}, []string{"kind"})

	// EmailFailures counts failed sends by kind.
	EmailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_email_failures_total",
		Help: "Total number of failed email sends",
	}, []string{"kind"})

	// PostsCreated counts created posts by post type.
	PostsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_posts_created_total",
		Help: "Total number of created posts",
	}, []string{"type"})

	// HTTPRequests counts handled requests.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "news_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration records request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "news_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// RecordEmail counts one send attempt of kind.
func RecordEmail(kind string, err error) {
	if err != nil {
		EmailFailures.WithLabelValues(kind).Inc()
		return
	}
	EmailsSent.WithLabelValues(kind).Inc()
}

// RecordPostCreated counts a new post.
func RecordPostCreated(postType string) {
	PostsCreated.WithLabelValues(postType).Inc()
}

// Middleware records request count and latency per matched route.
// Unmatched requests are grouped under "unmatched" to bound label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
