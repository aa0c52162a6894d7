package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/taskpane/internal/model"
)

// maxErrorText caps the error text kept per activity entry.
const maxErrorText = 200

// ActivityRecorder writes finished operations to the activity log.
// Failures to write are logged and otherwise ignored.
type ActivityRecorder struct {
	store  Store
	hostID func() string
	logger *log.Logger
}

// NewActivityRecorder creates a recorder. hostID reports the active host
// profile at the time of recording and may be nil.
func NewActivityRecorder(s Store, hostID func() string, logger *log.Logger) *ActivityRecorder {
	if logger == nil {
		logger = log.Default()
	}
	return &ActivityRecorder{store: s, hostID: hostID, logger: logger}
}

// Record implements taskpane.Recorder.
func (r *ActivityRecorder) Record(kind model.OperationKind, took time.Duration, err error) {
	a := model.Activity{
		Kind:       kind,
		Outcome:    model.OutcomeSuccess,
		DurationMS: took.Milliseconds(),
	}
	if err != nil {
		a.Outcome = model.OutcomeFailure
		a.Error = truncate(err.Error(), maxErrorText)
	}
	if r.hostID != nil {
		a.HostID = r.hostID()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if werr := r.store.RecordActivity(ctx, a); werr != nil {
		r.logger.Warn("recording activity", "kind", kind, "error", werr)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
