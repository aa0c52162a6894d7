package store_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/model"
	"github.com/nhle/taskpane/internal/store"
	"github.com/nhle/taskpane/tests/testutil"
)

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestHostLifecycle(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	created, err := s.UpsertHost(ctx, model.HostConfig{
		Type:     model.HostTypeIMAP,
		Name:     "Work",
		Settings: map[string]string{"host": "imap.example.com", "port": "993"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "imap.example.com", created.Setting("host", ""))
	assert.False(t, created.CreatedAt.IsZero())

	_, err = s.UpsertHost(ctx, model.HostConfig{
		Type:     model.HostTypeFile,
		Name:     "Draft file",
		Settings: map[string]string{"path": "/tmp/draft.eml"},
	})
	require.NoError(t, err)

	created.Name = "Work mail"
	created.Settings["mailbox"] = "Drafts"
	updated, err := s.UpsertHost(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Drafts", updated.Setting("mailbox", "INBOX"))

	hosts, err := s.GetHosts(ctx)
	require.NoError(t, err)
	require.Len(t, hosts, 2)
	assert.Equal(t, "Draft file", hosts[0].Name)
	assert.Equal(t, "Work mail", hosts[1].Name)

	require.NoError(t, s.DeleteHost(ctx, created.ID))
	_, err = s.GetHostByID(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteHost(ctx, created.ID), store.ErrNotFound)
}

func TestHostTypeIsChecked(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.UpsertHost(context.Background(), model.HostConfig{Type: "pop3", Name: "x"})
	assert.Error(t, err)
}

func TestActivityNewestFirstAndFiltered(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	entries := []model.Activity{
		{Kind: model.OperationReword, Outcome: model.OutcomeSuccess, CreatedAt: base},
		{Kind: model.OperationAnalyze, Outcome: model.OutcomeFailure, Error: "502", CreatedAt: base.Add(time.Minute)},
		{Kind: model.OperationCompose, Outcome: model.OutcomeSuccess, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, a := range entries {
		require.NoError(t, s.RecordActivity(ctx, a))
	}

	all, err := s.GetActivity(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.OperationCompose, all[0].Kind)
	assert.Equal(t, model.OperationReword, all[2].Kind)

	failure := model.OutcomeFailure
	failed, err := s.GetActivity(ctx, store.ActivityFilter{Outcome: &failure})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "502", failed[0].Error)

	kind := model.OperationReword
	rewords, err := s.GetActivity(ctx, store.ActivityFilter{Kind: &kind, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, rewords, 1)

	removed, err := s.PruneActivity(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	left, err := s.GetActivity(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, model.OperationCompose, left[0].Kind)
}

func TestActivityRecorder(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	rec := store.NewActivityRecorder(s, func() string { return "host-1" }, log.New(io.Discard))
	rec.Record(model.OperationAnalyze, 1500*time.Millisecond, nil)
	rec.Record(model.OperationReword, 0, errors.New("Failed to reword text"))

	got, err := s.GetActivity(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	byKind := map[model.OperationKind]model.Activity{}
	for _, a := range got {
		byKind[a.Kind] = a
	}
	assert.Equal(t, model.OutcomeSuccess, byKind[model.OperationAnalyze].Outcome)
	assert.EqualValues(t, 1500, byKind[model.OperationAnalyze].DurationMS)
	assert.Equal(t, "host-1", byKind[model.OperationAnalyze].HostID)
	assert.Equal(t, model.OutcomeFailure, byKind[model.OperationReword].Outcome)
	assert.Equal(t, "Failed to reword text", byKind[model.OperationReword].Error)
}
