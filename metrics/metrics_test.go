package metrics

import (
	"errors"
	"testing"

	"notes-server/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	before := testutil.ToFloat64(noteOperations.WithLabelValues("delete", "not_found"))

	ObserveOperation("delete", models.ErrNoteNotFound)
	ObserveOperation("delete", errors.Join(models.ErrNoteNotFound))

	after := testutil.ToFloat64(noteOperations.WithLabelValues("delete", "not_found"))
	assert.Equal(t, before+2, after)
}

func TestObserveReconcile(t *testing.T) {
	restored := testutil.ToFloat64(mirrorRepairs.WithLabelValues("restored"))
	removed := testutil.ToFloat64(mirrorRepairs.WithLabelValues("removed"))
	failedRuns := testutil.ToFloat64(reconcileRuns.WithLabelValues("error"))

	ObserveReconcile(&models.ReconcileReport{
		Restored: []int64{1, 2},
		Removed:  []int64{9},
	}, nil)
	ObserveReconcile(&models.ReconcileReport{Restored: []int64{3}, DryRun: true}, nil)
	ObserveReconcile(nil, errors.New("boom"))

	assert.Equal(t, restored+2, testutil.ToFloat64(mirrorRepairs.WithLabelValues("restored")))
	assert.Equal(t, removed+1, testutil.ToFloat64(mirrorRepairs.WithLabelValues("removed")))
	assert.Equal(t, failedRuns+1, testutil.ToFloat64(reconcileRuns.WithLabelValues("error")))
}
