package attendance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	claimsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classtrack_claims_accepted_total",
		Help: "Attendance claims that passed validation and were recorded.",
	})
	claimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_claims_rejected_total",
		Help: "Attendance claims rejected by the validation pipeline.",
	}, []string{"reason"})
)
