// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HolesSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryder_holes_saved_total",
			Help: "Total number of hole scores saved",
		},
		[]string{"day"},
	)

	ChallengesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ryder_challenges_total",
			Help: "Challenge activation attempts by outcome",
		},
		[]string{"day", "result"},
	)

	MatchResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ryder_match_resets_total",
			Help: "Number of administrative match clears",
		},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

// Day formats a day number as a label value.
func Day(day int) string {
	return strconv.Itoa(day)
}

// RequestDuration is fiber middleware recording APIRequestDuration. The route
// pattern is used as the path label so label cardinality stays bounded.
func RequestDuration() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		APIRequestDuration.WithLabelValues(
			c.Route().Path,
			c.Method(),
			strconv.Itoa(status),
		).Observe(time.Since(start).Seconds())
		return err
	}
}
