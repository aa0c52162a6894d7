package taskpane

import (
	"context"
	"strings"
	"time"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/host"
	"github.com/nhle/taskpane/internal/model"
)

// autoIncludePhrases switch analysis context on when they appear in a
// compose request.
var autoIncludePhrases = []string{"this email", "reply"}

// Compose drives the compose screen. Its State tracks the compose call;
// Analyzing tracks the separate "analyze current email" call. Both share
// State.Err, so the screen shows one message.
type Compose struct {
	State

	Request   string
	Analyzing bool

	include        bool
	analyzeStarted time.Time
	local          *model.AnalysisResult
	shared         *ai.AnalysisContext
	svc            ai.Service
	mailbox        host.Mailbox
	rec            Recorder
}

// NewCompose creates a compose orchestrator reading from shared.
func NewCompose(svc ai.Service, mailbox host.Mailbox, shared *ai.AnalysisContext, rec Recorder) *Compose {
	if shared == nil {
		shared = ai.NewAnalysisContext()
	}
	return &Compose{
		svc:     svc,
		mailbox: mailbox,
		shared:  shared,
		rec:     recorderOrNop(rec),
	}
}

// SetMailbox swaps the host used by AnalyzeCurrent.
func (c *Compose) SetMailbox(mb host.Mailbox) {
	c.mailbox = mb
}

// SetRequest sets the request text. Mentioning the open email turns
// analysis context on; it never turns it off.
func (c *Compose) SetRequest(request string) {
	c.Request = request
	lower := strings.ToLower(request)
	for _, phrase := range autoIncludePhrases {
		if strings.Contains(lower, phrase) {
			c.SetIncludeAnalysis(true)
			return
		}
	}
}

// IncludeAnalysis reports whether the next compose folds in the analysis.
func (c *Compose) IncludeAnalysis() bool {
	return c.include
}

// SetIncludeAnalysis sets the include toggle and mirrors it to the
// shared store.
func (c *Compose) SetIncludeAnalysis(include bool) {
	c.include = include
	c.shared.SetUseForCompose(include)
}

// Sync picks up a toggle turned on elsewhere, e.g. by the Analyze
// screen's generate-response hand-off. Call it when the screen gains focus.
func (c *Compose) Sync() {
	if c.shared.UseForCompose() {
		c.include = true
	}
}

// Adopt makes result the analysis for the next compose and turns the
// analysis context on, replacing one made on this screen.
func (c *Compose) Adopt(result *model.AnalysisResult) {
	if result == nil {
		return
	}
	c.local = result
	c.SetIncludeAnalysis(true)
}

// ResetAnalysis forgets every analysis, local and shared, and turns the
// include toggle off.
func (c *Compose) ResetAnalysis() {
	c.local = nil
	c.include = false
	c.shared.Reset()
}

// Analysis returns the analysis the next compose would use: the one
// produced on this screen, else the shared one, else nil.
func (c *Compose) Analysis() *model.AnalysisResult {
	if c.local != nil {
		return c.local
	}
	return c.shared.Get()
}

// HasAnalysis reports whether any analysis is available.
func (c *Compose) HasAnalysis() bool {
	return c.Analysis() != nil
}

// RequestContext builds the context for the current input.
func (c *Compose) RequestContext() model.ComposeRequestContext {
	return model.ComposeRequestContext{
		UserRequest:     c.Request,
		IncludeAnalysis: c.include,
		AnalysisSource:  c.Analysis(),
	}
}

// Prepare validates the request and starts a compose call. It returns
// the context string to send.
func (c *Compose) Prepare() (string, error) {
	if c.InFlight {
		return "", ErrInFlight
	}
	if strings.TrimSpace(c.Request) == "" {
		return "", c.reject(MsgEmptyRequest)
	}
	if err := c.begin(); err != nil {
		return "", err
	}
	return c.RequestContext().Text(), nil
}

// Call sends the compose context. It does not touch c's state.
func (c *Compose) Call(ctx context.Context, composeContext string) (string, error) {
	return c.svc.Compose(ctx, composeContext)
}

// Complete records the outcome of Call.
func (c *Compose) Complete(result string, err error) error {
	c.rec.Record(model.OperationCompose, c.elapsed(), err)
	if err != nil {
		return c.finish("", normalize(err, KindNetwork, MsgComposeFailed))
	}
	return c.finish(result, nil)
}

// Run prepares, calls and completes in one blocking step.
func (c *Compose) Run(ctx context.Context) (result string, err error) {
	composeContext, err := c.Prepare()
	if err != nil {
		return "", err
	}
	defer func() {
		err = c.Complete(result, err)
		if err != nil {
			result = ""
		}
	}()
	return c.Call(ctx, composeContext)
}

// PrepareAnalyze starts "analyze current email".
func (c *Compose) PrepareAnalyze() error {
	if c.Analyzing {
		return ErrInFlight
	}
	c.Err = nil
	c.Analyzing = true
	c.analyzeStarted = time.Now()
	return nil
}

// CallAnalyze reads the open message and analyzes it. It does not touch
// c's state.
func (c *Compose) CallAnalyze(ctx context.Context) (*model.AnalysisResult, error) {
	return AnalyzeOpenMessage(ctx, c.mailbox, c.svc)
}

// CompleteAnalyze stores a successful analysis locally and in the shared
// store, and switches analysis context on.
func (c *Compose) CompleteAnalyze(result *model.AnalysisResult, err error) error {
	c.Analyzing = false
	c.rec.Record(model.OperationAnalyze, time.Since(c.analyzeStarted), err)
	if err != nil {
		c.Err = normalize(err, KindNetwork, MsgAnalyzeFailed)
		return c.Err
	}
	c.local = result
	c.shared.Set(result, ai.SourceComposeScreen)
	c.include = true
	return nil
}

// RunAnalyze runs "analyze current email" in one blocking step.
func (c *Compose) RunAnalyze(ctx context.Context) (result *model.AnalysisResult, err error) {
	if err := c.PrepareAnalyze(); err != nil {
		return nil, err
	}
	defer func() {
		err = c.CompleteAnalyze(result, err)
		if err != nil {
			result = nil
		}
	}()
	return c.CallAnalyze(ctx)
}
