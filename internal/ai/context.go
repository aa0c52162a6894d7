package ai

import "github.com/nhle/taskpane/internal/model"

// AnalysisSource identifies which screen produced an analysis.
type AnalysisSource int

const (
	// SourceAnalyzeScreen is the dedicated Analyze tab.
	SourceAnalyzeScreen AnalysisSource = iota
	// SourceComposeScreen is Compose's "analyze current email" action.
	SourceComposeScreen
)

// AnalysisContext holds the most recent analysis and whether the next
// compose request should use it. The root model owns the only instance
// and hands it to the screens that read it; all access happens on the
// UI goroutine, so it carries no lock.
type AnalysisContext struct {
	result        *model.AnalysisResult
	source        AnalysisSource
	useForCompose bool
}

// NewAnalysisContext creates an empty analysis context.
func NewAnalysisContext() *AnalysisContext {
	return &AnalysisContext{}
}

// Set replaces the held analysis. The compose toggle defaults to off for
// results from the Analyze screen and on for results from Compose.
func (c *AnalysisContext) Set(result *model.AnalysisResult, src AnalysisSource) {
	c.result = result
	c.source = src
	c.useForCompose = src == SourceComposeScreen
}

// Get returns the held analysis, or nil.
func (c *AnalysisContext) Get() *model.AnalysisResult {
	return c.result
}

// Source reports which screen produced the held analysis.
func (c *AnalysisContext) Source() AnalysisSource {
	return c.source
}

// UseForCompose reports whether the analysis should be folded into the
// next compose request.
func (c *AnalysisContext) UseForCompose() bool {
	return c.result != nil && c.useForCompose
}

// SetUseForCompose flips the compose toggle.
func (c *AnalysisContext) SetUseForCompose(use bool) {
	c.useForCompose = use
}

// Reset drops the held analysis.
func (c *AnalysisContext) Reset() {
	c.result = nil
	c.useForCompose = false
	c.source = SourceAnalyzeScreen
}
