package model

import "strings"

// Compose context framing. The order analysis block, user request,
// instruction is relied upon by the compose endpoint's prompt.
const (
	ComposeAnalysisHeader = "Email Analysis Context:\n"
	ComposeRequestHeader  = "\n\nUser Request: "
	ComposeInstruction    = "\n\nPlease compose an email that addresses the user's request " +
		"while considering the context and content of the original email. " +
		"Make the response relevant and contextual to the analyzed email."
)

// ComposeRequestContext collects what goes into a single compose call.
// It is built right before the request and dropped afterwards.
type ComposeRequestContext struct {
	UserRequest     string
	IncludeAnalysis bool
	AnalysisSource  *AnalysisResult
}

// Text returns the context string sent to the compose endpoint. Without
// an analysis (or with IncludeAnalysis off) it is the user request as typed.
func (c ComposeRequestContext) Text() string {
	if !c.IncludeAnalysis || c.AnalysisSource == nil {
		return c.UserRequest
	}

	var sb strings.Builder
	sb.WriteString(ComposeAnalysisHeader)
	sb.WriteString(c.AnalysisSource.ContextText())
	sb.WriteString(ComposeRequestHeader)
	sb.WriteString(c.UserRequest)
	sb.WriteString(ComposeInstruction)
	return sb.String()
}
