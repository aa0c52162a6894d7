package model

// Priority is the urgency the analysis service assigns to an email.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Sentiment is the overall tone the analysis service detected in an email.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// AnalysisResult is the response of the analyze-email endpoint. Values are
// never mutated after decoding; a newer analysis replaces the whole value.
type AnalysisResult struct {
	// Summary is a short prose summary of the email.
	Summary string `json:"summary"`

	// ActionItems lists follow-ups extracted from the email, in order.
	ActionItems []string `json:"actionItems"`

	// Priority is one of the Priority* constants.
	Priority Priority `json:"priority"`

	// Sentiment is one of the Sentiment* constants.
	Sentiment Sentiment `json:"sentiment"`

	// Category is a free-form label such as "Meeting" or "Invoice".
	Category string `json:"category"`

	// RawAnalysis is the formatted analysis text. It is the only field
	// shown to the user and the only input of the section parser.
	RawAnalysis string `json:"rawAnalysis"`
}

// noSummaryPlaceholder stands in for an analysis that carries neither raw
// text nor a summary.
const noSummaryPlaceholder = "Email analyzed but no summary available"

// ContextText returns the text used when folding this analysis into a
// compose request: the raw analysis, then the summary, then a placeholder.
func (a *AnalysisResult) ContextText() string {
	if a == nil {
		return noSummaryPlaceholder
	}
	if a.RawAnalysis != "" {
		return a.RawAnalysis
	}
	if a.Summary != "" {
		return a.Summary
	}
	return noSummaryPlaceholder
}
