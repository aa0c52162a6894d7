package taskpane

import (
	"context"
	"sync"
	"time"

	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/model"
)

type fakeService struct {
	mu sync.Mutex

	rewordCalls  []RewordRequest
	composeCalls []string
	analyzeCalls [][2]string

	rewordResult  string
	composeResult string
	analyzeResult *model.AnalysisResult
	err           error

	// during runs inside the call, while the caller is in flight.
	during func()
}

func (f *fakeService) Reword(_ context.Context, text, instructions string) (string, error) {
	f.mu.Lock()
	f.rewordCalls = append(f.rewordCalls, RewordRequest{Text: text, ToneInstructions: instructions})
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	return f.rewordResult, f.err
}

func (f *fakeService) Compose(_ context.Context, composeContext string) (string, error) {
	f.mu.Lock()
	f.composeCalls = append(f.composeCalls, composeContext)
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	return f.composeResult, f.err
}

func (f *fakeService) AnalyzeEmail(_ context.Context, content, id string) (*model.AnalysisResult, error) {
	f.mu.Lock()
	f.analyzeCalls = append(f.analyzeCalls, [2]string{content, id})
	f.mu.Unlock()
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.analyzeResult, nil
}

type fakeMailbox struct {
	id       string
	body     string
	readErr  error
	writeErr error
	written  []string
}

func (m *fakeMailbox) CurrentMessageID(context.Context) (string, bool, error) {
	if m.id == "" {
		return "", false, nil
	}
	return m.id, true, nil
}

func (m *fakeMailbox) ReadBody(context.Context) (string, error) {
	if m.id == "" {
		return "", host.ErrNoMessage
	}
	return m.body, m.readErr
}

func (m *fakeMailbox) WriteBody(_ context.Context, text string) error {
	if m.id == "" {
		return host.ErrNoMessage
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, text)
	m.body = text
	return nil
}

type recorded struct {
	kind model.OperationKind
	err  error
}

type fakeRecorder struct {
	entries []recorded
}

func (r *fakeRecorder) Record(kind model.OperationKind, _ time.Duration, err error) {
	r.entries = append(r.entries, recorded{kind: kind, err: err})
}
