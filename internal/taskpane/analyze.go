package taskpane

import (
	"context"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/sections"
)

// Analyze drives the analyze screen. State.Result holds the raw analysis
// text; Analysis holds the full result.
type Analyze struct {
	State

	Analysis *model.AnalysisResult

	shared  *ai.AnalysisContext
	svc     ai.Service
	mailbox host.Mailbox
	rec     Recorder
}

// NewAnalyze creates an analyze orchestrator writing to shared.
func NewAnalyze(svc ai.Service, mailbox host.Mailbox, shared *ai.AnalysisContext, rec Recorder) *Analyze {
	if shared == nil {
		shared = ai.NewAnalysisContext()
	}
	return &Analyze{
		svc:     svc,
		mailbox: mailbox,
		shared:  shared,
		rec:     recorderOrNop(rec),
	}
}

// SetMailbox swaps the host that is analyzed.
func (a *Analyze) SetMailbox(mb host.Mailbox) {
	a.mailbox = mb
}

// Prepare starts an analysis.
func (a *Analyze) Prepare() error {
	if err := a.begin(); err != nil {
		return err
	}
	a.Analysis = nil
	return nil
}

// Call reads the open message and analyzes it. It does not touch a's state.
func (a *Analyze) Call(ctx context.Context) (*model.AnalysisResult, error) {
	return AnalyzeOpenMessage(ctx, a.mailbox, a.svc)
}

// Complete records the outcome of Call and publishes a success to the
// shared store with the compose toggle off.
func (a *Analyze) Complete(result *model.AnalysisResult, err error) error {
	a.rec.Record(model.OperationAnalyze, a.elapsed(), err)
	if err != nil {
		return a.finish("", normalize(err, KindNetwork, MsgAnalyzeFailed))
	}
	if result == nil {
		result = &model.AnalysisResult{}
	}
	a.Analysis = result
	a.shared.Set(result, ai.SourceAnalyzeScreen)
	return a.finish(result.RawAnalysis, nil)
}

// Run prepares, calls and completes in one blocking step.
func (a *Analyze) Run(ctx context.Context) (result *model.AnalysisResult, err error) {
	if err := a.Prepare(); err != nil {
		return nil, err
	}
	defer func() {
		err = a.Complete(result, err)
		if err != nil {
			result = nil
		}
	}()
	return a.Call(ctx)
}

// Sections parses the current raw analysis for display. It is cheap and
// re-run on every render.
func (a *Analyze) Sections() []model.DisplaySection {
	if a.Analysis == nil {
		return nil
	}
	return sections.Parse(a.Analysis.RawAnalysis)
}

// GenerateResponse hands the current analysis to compose: the shared
// store keeps the result and its toggle is switched on. It reports false
// when there is nothing to hand over.
func (a *Analyze) GenerateResponse() bool {
	if a.Analysis == nil {
		return false
	}
	if a.shared.Get() != a.Analysis {
		a.shared.Set(a.Analysis, ai.SourceAnalyzeScreen)
	}
	a.shared.SetUseForCompose(true)
	return true
}

// AnalyzeOpenMessage reads the open message from mb and sends it to svc.
// Host failures come back as *Error; service failures are returned as is.
func AnalyzeOpenMessage(ctx context.Context, mb host.Mailbox, svc ai.Service) (*model.AnalysisResult, error) {
	if mb == nil {
		return nil, newError(KindHostUnavailable, MsgNoEmail, nil)
	}

	id, ok, err := mb.CurrentMessageID(ctx)
	if err != nil && !host.IsNoMessage(err) {
		return nil, newError(KindHostUnavailable, MsgReadFailed, err)
	}
	if !ok || host.IsNoMessage(err) {
		return nil, newError(KindHostUnavailable, MsgNoEmail, err)
	}

	body, err := ReadOpenBody(ctx, mb)
	if err != nil {
		return nil, err
	}

	return svc.AnalyzeEmail(ctx, body, id)
}

// ReadOpenBody reads the open message's body. A missing host or message
// and read failures come back as KindHostUnavailable errors.
func ReadOpenBody(ctx context.Context, mb host.Mailbox) (string, error) {
	if mb == nil {
		return "", newError(KindHostUnavailable, MsgNoEmail, nil)
	}
	body, err := mb.ReadBody(ctx)
	if err != nil {
		if host.IsNoMessage(err) {
			return "", newError(KindHostUnavailable, MsgNoEmail, err)
		}
		return "", newError(KindHostUnavailable, MsgReadFailed, err)
	}
	return body, nil
}
