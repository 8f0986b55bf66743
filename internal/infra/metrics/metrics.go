package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "activos_assignments_total",
		Help: "Custody operations by action and outcome.",
	}, []string{"action", "outcome"})

	MovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "activos_consumable_movements_total",
		Help: "Consumable stock movements by type and outcome.",
	}, []string{"type", "outcome"})

	ValidationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "activos_asset_validation_failures_total",
		Help: "Asset writes rejected by the validation rules.",
	})
)
