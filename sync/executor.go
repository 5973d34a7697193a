package sync

import (
	"context"
	"errors"
	"os"
	"sort"
	"time"

	"notes-server/metrics"
	"notes-server/models"
)

// ==================== SWEEP EXECUTION ====================

type repairAction int

const (
	actionNone repairAction = iota
	actionRestore
	actionRewrite
	actionRemove
)

// Reconcile runs one sweep. Candidates are found from a snapshot of rows and
// files, then each is re-checked and repaired while holding its id's lock so a
// concurrent edit is never overwritten with stale data. Only one sweep runs at a time.
func (w *Worker) Reconcile(ctx context.Context, dryRun bool) (report *models.ReconcileReport, err error) {
	w.sweepMu.Lock()
	defer w.sweepMu.Unlock()

	defer func() { metrics.ObserveReconcile(report, err) }()

	started := time.Now()
	report = &models.ReconcileReport{
		Restored:  []int64{},
		Rewritten: []int64{},
		Removed:   []int64{},
		Failed:    []int64{},
		DryRun:    dryRun,
		StartedAt: started.UTC(),
	}

	notes, err := w.repo.ListNotes(ctx, "")
	if err != nil {
		return nil, err
	}
	fileIDs, err := w.mirror.List(ctx)
	if err != nil {
		return nil, err
	}

	rows := make(map[int64]*models.Note, len(notes))
	for i := range notes {
		rows[notes[i].ID] = &notes[i]
	}
	files := make(map[int64]bool, len(fileIDs))
	for _, id := range fileIDs {
		files[id] = true
	}

	ids := make([]int64, 0, len(rows)+len(files))
	for id := range rows {
		ids = append(ids, id)
	}
	for id := range files {
		if _, ok := rows[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		action, err := w.inspect(ctx, rows[id], files[id], id)
		if err != nil {
			w.logger.Warn("failed to inspect mirror file", "note_id", id, "error", err)
			report.Failed = append(report.Failed, id)
			continue
		}
		if action == actionNone {
			continue
		}

		if dryRun {
			record(report, action, id)
			continue
		}

		action, err = w.repair(ctx, id)
		if err != nil {
			w.logger.Warn("failed to repair mirror file", "note_id", id, "error", err)
			report.Failed = append(report.Failed, id)
			continue
		}
		record(report, action, id)
	}

	report.Duration = time.Since(started).String()
	return report, nil
}

// inspect decides from the snapshot whether id needs repair
func (w *Worker) inspect(ctx context.Context, note *models.Note, hasFile bool, id int64) (repairAction, error) {
	switch {
	case note == nil && hasFile:
		return actionRemove, nil
	case note != nil && !hasFile:
		return actionRestore, nil
	case note == nil:
		return actionNone, nil
	}

	body, err := w.mirror.Read(ctx, id)
	if errors.Is(err, os.ErrNotExist) {
		return actionRestore, nil
	}
	if err != nil {
		return actionNone, err
	}
	if body != note.Body {
		return actionRewrite, nil
	}
	return actionNone, nil
}

// repair re-reads the row under the id's lock and brings the mirror file in line with it
func (w *Worker) repair(ctx context.Context, id int64) (repairAction, error) {
	unlock, err := w.locks.Lock(ctx, id)
	if err != nil {
		return actionNone, err
	}
	defer unlock()

	note, err := w.repo.GetNote(ctx, id)
	if err != nil {
		return actionNone, err
	}

	if note == nil {
		err := w.mirror.Remove(ctx, id)
		if errors.Is(err, os.ErrNotExist) {
			return actionNone, nil
		}
		if err != nil {
			return actionNone, err
		}
		return actionRemove, nil
	}

	body, err := w.mirror.Read(ctx, id)
	action := actionRewrite
	switch {
	case errors.Is(err, os.ErrNotExist):
		action = actionRestore
	case err != nil:
		return actionNone, err
	case body == note.Body:
		return actionNone, nil
	}

	if err := w.mirror.Write(ctx, id, note.Body); err != nil {
		return actionNone, err
	}
	return action, nil
}

func record(report *models.ReconcileReport, action repairAction, id int64) {
	switch action {
	case actionRestore:
		report.Restored = append(report.Restored, id)
	case actionRewrite:
		report.Rewritten = append(report.Rewritten, id)
	case actionRemove:
		report.Removed = append(report.Removed, id)
	}
}
