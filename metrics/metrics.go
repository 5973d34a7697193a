package metrics

import (
	"net/http"

	"notes-server/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	noteOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "operations_total",
		Help:      "Note operations by kind and tagged outcome.",
	}, []string{"op", "outcome"})

	mirrorRepairs = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "mirror_repairs_total",
		Help:      "Mirror files fixed by the reconciler, by action.",
	}, []string{"action"})

	reconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "notes",
		Name:      "reconcile_runs_total",
		Help:      "Reconciler sweeps by result.",
	}, []string{"result"})
)

// ObserveOperation counts one note operation under the outcome its error maps to
func ObserveOperation(op string, err error) {
	noteOperations.WithLabelValues(op, string(models.OutcomeOf(err))).Inc()
}

// ObserveReconcile counts one sweep and the repairs it made
func ObserveReconcile(report *models.ReconcileReport, err error) {
	if err != nil {
		reconcileRuns.WithLabelValues("error").Inc()
		return
	}
	reconcileRuns.WithLabelValues("ok").Inc()
	if report == nil || report.DryRun {
		return
	}
	mirrorRepairs.WithLabelValues("restored").Add(float64(len(report.Restored)))
	mirrorRepairs.WithLabelValues("rewritten").Add(float64(len(report.Rewritten)))
	mirrorRepairs.WithLabelValues("removed").Add(float64(len(report.Removed)))
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
