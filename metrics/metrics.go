package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SessionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sanad", Name: "sessions_created_total", Help: "Sessions and session requests created",
	})
	ConflictsRejected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sanad", Name: "conflicts_rejected_total", Help: "Writes rejected by the conflict checker",
	})
	RegistrationRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "sanad", Name: "registration_requests_total", Help: "Child registration requests filed",
	})
	DecisionsProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sanad", Name: "decisions_processed_total", Help: "Approval workflow decisions",
	}, []string{"workflow", "decision"})
)

func init() {
	prometheus.MustRegister(SessionsCreated, ConflictsRejected, RegistrationRequests, DecisionsProcessed)
}

func Handler() http.Handler { return promhttp.Handler() }
