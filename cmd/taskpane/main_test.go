package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskpane/internal/model"
)

func TestActivityFilter(t *testing.T) {
	f, err := activityFilter("", false, 5)
	require.NoError(t, err)
	assert.Nil(t, f.Kind)
	assert.Nil(t, f.Outcome)
	assert.Equal(t, 5, f.Limit)

	f, err = activityFilter("Compose", true, 0)
	require.NoError(t, err)
	require.NotNil(t, f.Kind)
	assert.Equal(t, model.OperationCompose, *f.Kind)
	require.NotNil(t, f.Outcome)
	assert.Equal(t, model.OutcomeFailure, *f.Outcome)

	_, err = activityFilter("translate", false, 0)
	assert.Error(t, err)
}

func TestFormatActivity(t *testing.T) {
	line := formatActivity(model.Activity{
		Kind:       model.OperationAnalyze,
		Outcome:    model.OutcomeFailure,
		Error:      "service unreachable",
		DurationMS: 42,
		CreatedAt:  time.Now(),
	})
	assert.Contains(t, line, "analyze")
	assert.Contains(t, line, "42ms")
	assert.Contains(t, line, "service unreachable")
}

func TestInputText(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader("from stdin"))

	fallback := func() (string, error) { return "from host", nil }

	got, err := inputText(cmd, nil, fallback)
	require.NoError(t, err)
	assert.Equal(t, "from host", got)

	got, err = inputText(cmd, []string{"-"}, fallback)
	require.NoError(t, err)
	assert.Equal(t, "from stdin", got)

	got, err = inputText(cmd, []string{"literal"}, fallback)
	require.NoError(t, err)
	assert.Equal(t, "literal", got)

	_, err = inputText(cmd, nil, func() (string, error) { return "", errors.New("no email") })
	assert.Error(t, err)
}

func TestAnalyzeHelpNamesResultFields(t *testing.T) {
	path := ""
	long := newAnalyzeCmd(&path).Long
	assert.Contains(t, long, "jq .actionItems")
	assert.NotContains(t, long, "keyPoints")
}

func TestValidTone(t *testing.T) {
	assert.True(t, validTone("professional"))
	assert.False(t, validTone("sarcastic"))
}
