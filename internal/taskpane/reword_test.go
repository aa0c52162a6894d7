package taskpane

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/clipboard"
	"github.com/nhle/taskpane/internal/model"
)

func TestRewordEmptyTextNeverCallsService(t *testing.T) {
	svc := &fakeService{}
	r := NewReword(svc, nil)
	r.SetText("   \n")
	r.SelectTone("professional")

	_, err := r.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	require.NotNil(t, r.Err)
	assert.Equal(t, MsgEmptyRewordText, r.Err.Message)
	assert.False(t, r.InFlight)
	assert.Empty(t, svc.rewordCalls)
}

func TestRewordRequiresToneOrInstructions(t *testing.T) {
	svc := &fakeService{}
	r := NewReword(svc, nil)
	r.SetText("hello")
	r.SetCustomInstructions("   ")

	_, err := r.Prepare()
	require.Error(t, err)
	assert.Equal(t, MsgNoTone, r.Err.Message)
	assert.Empty(t, svc.rewordCalls)
}

func TestRewordToneInstruction(t *testing.T) {
	svc := &fakeService{rewordResult: "Dear team"}
	r := NewReword(svc, nil)
	r.SetText("hey all")
	r.SelectTone("professional")

	got, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Dear team", got)
	require.Len(t, svc.rewordCalls, 1)
	assert.Equal(t, "Make this text more professional", svc.rewordCalls[0].ToneInstructions)
	assert.Equal(t, "hey all", svc.rewordCalls[0].Text)
	assert.Equal(t, "Dear team", r.Result)
	assert.Nil(t, r.Err)
}

func TestRewordToneAndInstructionsAreExclusive(t *testing.T) {
	r := NewReword(&fakeService{}, nil)

	r.SetCustomInstructions("  shorter please ")
	assert.Equal(t, "shorter please", r.ToneInstructions())

	r.SelectTone("warm")
	assert.Empty(t, r.CustomInstructions)
	assert.Equal(t, "Make this text more warm", r.ToneInstructions())

	r.SetCustomInstructions("pirate voice")
	assert.Empty(t, r.Tone)
	assert.Equal(t, "pirate voice", r.ToneInstructions())
}

func TestRewordClearToneKeepsInstructions(t *testing.T) {
	r := NewReword(&fakeService{rewordResult: "ok"}, nil)
	r.SetText("hi")
	r.SetCustomInstructions("shorter please")

	r.ClearTone()

	assert.Equal(t, "shorter please", r.CustomInstructions)
	req, err := r.Prepare()
	require.NoError(t, err)
	assert.Equal(t, "shorter please", req.ToneInstructions)

	r.SelectTone("warm")
	r.ClearTone()
	assert.Empty(t, r.Tone)
	assert.Empty(t, r.ToneInstructions())
}

func TestRewordSecondSubmissionWhileInFlightIsNoop(t *testing.T) {
	svc := &fakeService{rewordResult: "ok"}
	r := NewReword(svc, nil)
	r.SetText("hi")
	r.SelectTone("concise")

	var nested error
	svc.during = func() {
		_, nested = r.Run(context.Background())
	}

	_, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, nested, ErrInFlight)
	assert.Len(t, svc.rewordCalls, 1)
	assert.False(t, r.InFlight)
}

func TestRewordPrepareClearsPreviousOutcome(t *testing.T) {
	r := NewReword(&fakeService{}, nil)
	r.Result = "old"
	r.Err = &Error{Kind: KindNetwork, Message: MsgRewordFailed}
	r.SetText("hi")
	r.SelectTone("casual")

	_, err := r.Prepare()
	require.NoError(t, err)
	assert.True(t, r.InFlight)
	assert.Empty(t, r.Result)
	assert.Nil(t, r.Err)

	_, err = r.Prepare()
	assert.ErrorIs(t, err, ErrInFlight)
}

func TestRewordServiceFailure(t *testing.T) {
	cause := &ai.RequestError{Op: model.OperationReword, StatusCode: 500, Err: errors.New("boom")}
	svc := &fakeService{err: cause}
	rec := &fakeRecorder{}
	r := NewReword(svc, rec)
	r.SetText("hi")
	r.SelectTone("formal")

	got, err := r.Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, got)
	assert.False(t, r.InFlight)
	require.NotNil(t, r.Err)
	assert.Equal(t, KindNetwork, r.Err.Kind)
	assert.Equal(t, MsgRewordFailed, r.Err.Message)
	assert.True(t, ai.IsRequestError(err))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, model.OperationReword, rec.entries[0].kind)
	assert.Error(t, rec.entries[0].err)
}

func TestCopyResult(t *testing.T) {
	r := NewReword(&fakeService{}, nil)
	r.Result = "copy me"
	r.Err = &Error{Kind: KindHostWrite, Message: MsgReplaceFailed}

	var got string
	require.NoError(t, r.Copy(clipboard.Func(func(s string) error { got = s; return nil })))
	assert.Equal(t, "copy me", got)
	assert.Nil(t, r.Err)

	err := r.Copy(clipboard.Func(func(string) error { return errors.New("denied") }))
	require.Error(t, err)
	assert.Equal(t, KindClipboard, r.Err.Kind)
	assert.Equal(t, MsgCopyFailed, r.Err.Message)
}

func TestReplaceBody(t *testing.T) {
	ctx := context.Background()

	mb := &fakeMailbox{id: "m1", body: "old"}
	require.NoError(t, ReplaceBody(ctx, mb, "new"))
	assert.Equal(t, []string{"new"}, mb.written)

	err := ReplaceBody(ctx, &fakeMailbox{}, "new")
	assert.True(t, IsKind(err, KindHostUnavailable))

	err = ReplaceBody(ctx, &fakeMailbox{id: "m1", writeErr: errors.New("readonly")}, "new")
	assert.True(t, IsKind(err, KindHostWrite))

	var s State
	s.CompleteReplace(err)
	require.NotNil(t, s.Err)
	assert.Equal(t, MsgReplaceFailed, s.Err.Message)
}
