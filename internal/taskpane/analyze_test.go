package taskpane

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/ai"
	"github.com/nhle/taskpane/internal/model"
)

func TestAnalyzeNoEmail(t *testing.T) {
	svc := &fakeService{}
	a := NewAnalyze(svc, &fakeMailbox{}, nil, nil)

	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindHostUnavailable, a.Err.Kind)
	assert.Equal(t, "No email selected", a.Err.Message)
	assert.Empty(t, svc.analyzeCalls)
	assert.False(t, a.InFlight)
}

func TestAnalyzeNilMailbox(t *testing.T) {
	a := NewAnalyze(&fakeService{}, nil, nil, nil)
	_, err := a.Run(context.Background())
	assert.True(t, IsKind(err, KindHostUnavailable))
}

func TestAnalyzeStoresSharedResult(t *testing.T) {
	raw := "**Context**\nQuarterly numbers\n**Actions**\n• Reply by Friday\n• Book room"
	shared := ai.NewAnalysisContext()
	svc := &fakeService{analyzeResult: &model.AnalysisResult{RawAnalysis: raw, Priority: model.PriorityHigh}}
	rec := &fakeRecorder{}
	a := NewAnalyze(svc, &fakeMailbox{id: "42", body: "numbers attached"}, shared, rec)

	got, err := a.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, raw, got.RawAnalysis)
	assert.Equal(t, raw, a.Result)
	assert.Equal(t, [][2]string{{"numbers attached", "42"}}, svc.analyzeCalls)

	assert.Same(t, got, shared.Get())
	assert.Equal(t, ai.SourceAnalyzeScreen, shared.Source())
	assert.False(t, shared.UseForCompose())

	secs := a.Sections()
	require.Len(t, secs, 2)
	assert.Equal(t, "Context", secs[0].Title)
	assert.Equal(t, []string{"Reply by Friday", "Book room"}, secs[1].Items)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, model.OperationAnalyze, rec.entries[0].kind)
	assert.NoError(t, rec.entries[0].err)
}

func TestAnalyzeReadFailure(t *testing.T) {
	a := NewAnalyze(&fakeService{}, &fakeMailbox{id: "1", readErr: errors.New("io")}, nil, nil)

	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgReadFailed, a.Err.Message)
}

func TestReadOpenBody(t *testing.T) {
	ctx := context.Background()

	body, err := ReadOpenBody(ctx, &fakeMailbox{id: "1", body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", body)

	var perr *Error
	_, err = ReadOpenBody(ctx, nil)
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindHostUnavailable, perr.Kind)
	assert.Equal(t, MsgNoEmail, perr.Message)

	_, err = ReadOpenBody(ctx, &fakeMailbox{})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, MsgNoEmail, perr.Message)

	_, err = ReadOpenBody(ctx, &fakeMailbox{id: "1", readErr: errors.New("io")})
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, KindHostUnavailable, perr.Kind)
	assert.Equal(t, MsgReadFailed, perr.Message)
}

func TestAnalyzeServiceFailureKeepsPreviousShared(t *testing.T) {
	shared := ai.NewAnalysisContext()
	prev := &model.AnalysisResult{RawAnalysis: "prev"}
	shared.Set(prev, ai.SourceAnalyzeScreen)

	a := NewAnalyze(&fakeService{err: errors.New("502")}, &fakeMailbox{id: "1"}, shared, nil)
	_, err := a.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgAnalyzeFailed, a.Err.Message)
	assert.Same(t, prev, shared.Get())
}

func TestGenerateResponse(t *testing.T) {
	shared := ai.NewAnalysisContext()
	a := NewAnalyze(&fakeService{}, nil, shared, nil)
	assert.False(t, a.GenerateResponse())

	a.Analysis = &model.AnalysisResult{RawAnalysis: "r"}
	require.True(t, a.GenerateResponse())
	assert.Same(t, a.Analysis, shared.Get())
	assert.True(t, shared.UseForCompose())

	c := NewCompose(&fakeService{}, nil, shared, nil)
	c.Sync()
	assert.True(t, c.IncludeAnalysis())
}
