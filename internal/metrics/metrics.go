package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rescue_users_registered_total",
		Help: "Number of user accounts created.",
	})

	DonationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rescue_donations_created_total",
		Help: "Number of donations listed.",
	})

	DonationsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rescue_donations_deleted_total",
		Help: "Number of donations removed by moderation.",
	})

	RequestsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rescue_requests_created_total",
		Help: "Number of recipient requests created.",
	})

	RequestsResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "food_rescue_requests_resolved_total",
		Help: "Number of requests resolved, by outcome.",
	}, []string{"outcome"})

	AdminOverrides = promauto.NewCounter(prometheus.CounterOpts{
		Name: "food_rescue_admin_status_overrides_total",
		Help: "Number of admin donation status overrides.",
	})
)
