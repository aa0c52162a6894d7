// Package taskpane holds the orchestration behind the three screens:
// validation, the one-request-at-a-time loading state, error
// normalization, and the shared analysis hand-off.
//
// Each operation has a two-phase API. Prepare runs on the UI goroutine
// and returns the request to send; Complete takes the outcome back on
// the same goroutine. Run chains both around the service call for
// callers that can block.
package taskpane

import (
	"context"
	"strings"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/model"
)

// Tones are the preset reword tones.
var Tones = []string{"professional", "warm", "concise", "formal", "casual", "friendly"}

// ToneInstruction is the instruction sent for a preset tone.
func ToneInstruction(tone string) string {
	return "Make this text more " + tone
}

// RewordRequest is what a reword submission sends.
type RewordRequest struct {
	Text             string
	ToneInstructions string
}

// Reword drives the reword screen.
type Reword struct {
	State

	Text               string
	Tone               string
	CustomInstructions string

	svc ai.Service
	rec Recorder
}

// NewReword creates a reword orchestrator.
func NewReword(svc ai.Service, rec Recorder) *Reword {
	return &Reword{svc: svc, rec: recorderOrNop(rec)}
}

// SetText sets the text to reword.
func (r *Reword) SetText(text string) {
	r.Text = text
}

// SelectTone picks a preset tone and clears custom instructions.
func (r *Reword) SelectTone(tone string) {
	r.Tone = tone
	r.CustomInstructions = ""
}

// ClearTone drops the preset tone and keeps any custom instructions.
func (r *Reword) ClearTone() {
	r.Tone = ""
}

// SetCustomInstructions sets free-form instructions and clears the tone.
func (r *Reword) SetCustomInstructions(instructions string) {
	r.CustomInstructions = instructions
	r.Tone = ""
}

// ToneInstructions returns what will be sent as toneInstructions, or ""
// when neither a tone nor instructions are set.
func (r *Reword) ToneInstructions() string {
	if r.Tone != "" {
		return ToneInstruction(r.Tone)
	}
	return strings.TrimSpace(r.CustomInstructions)
}

// Prepare validates the input and starts a request.
func (r *Reword) Prepare() (RewordRequest, error) {
	if r.InFlight {
		return RewordRequest{}, ErrInFlight
	}
	if strings.TrimSpace(r.Text) == "" {
		return RewordRequest{}, r.reject(MsgEmptyRewordText)
	}
	instructions := r.ToneInstructions()
	if instructions == "" {
		return RewordRequest{}, r.reject(MsgNoTone)
	}
	if err := r.begin(); err != nil {
		return RewordRequest{}, err
	}
	return RewordRequest{Text: r.Text, ToneInstructions: instructions}, nil
}

// Call sends req. It blocks and does not touch r's state, so it is safe
// to run inside a tea.Cmd.
func (r *Reword) Call(ctx context.Context, req RewordRequest) (string, error) {
	return r.svc.Reword(ctx, req.Text, req.ToneInstructions)
}

// Complete records the outcome of Call.
func (r *Reword) Complete(result string, err error) error {
	r.rec.Record(model.OperationReword, r.elapsed(), err)
	if err != nil {
		return r.finish("", normalize(err, KindNetwork, MsgRewordFailed))
	}
	return r.finish(result, nil)
}

// Run prepares, calls and completes in one blocking step.
func (r *Reword) Run(ctx context.Context) (result string, err error) {
	req, err := r.Prepare()
	if err != nil {
		return "", err
	}
	defer func() {
		err = r.Complete(result, err)
		if err != nil {
			result = ""
		}
	}()
	return r.Call(ctx, req)
}
