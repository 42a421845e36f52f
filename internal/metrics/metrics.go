package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SongsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radio_songs_submitted_total",
			Help: "Songs accepted by the registry",
		},
	)
	SubmissionsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radio_submissions_rejected_total",
			Help: "Submissions refused, by rejection kind",
		},
		[]string{"kind"},
	)
	VotesCast = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radio_votes_cast_total",
			Help: "Votes recorded",
		},
	)
	SongsPlayed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radio_songs_played_total",
			Help: "Songs marked played",
		},
	)
	SchedulesAssigned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radio_schedules_assigned_total",
			Help: "Schedule rows created by slot assignment",
		},
	)
	ScheduleConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radio_schedule_conflicts_total",
			Help: "Slot assignments that hit a sequence conflict and were retried",
		},
	)
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radio_notifications_sent_total",
			Help: "Notification rows written, by type",
		},
		[]string{"type"},
	)
	EventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "radio_events_dropped_total",
			Help: "Lifecycle events dropped because the dispatcher queue was full",
		},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "radio_http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "radio_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		SongsSubmitted,
		SubmissionsRejected,
		VotesCast,
		SongsPlayed,
		SchedulesAssigned,
		ScheduleConflicts,
		NotificationsSent,
		EventsDropped,
		HTTPRequests,
		HTTPDuration,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
