package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		input  string
		want   CommandMsg
		wantOK bool
	}{
		{input: "analyze", want: CommandMsg{Name: CmdAnalyze}, wantOK: true},
		{input: "an", want: CommandMsg{Name: CmdAnalyze}, wantOK: true},
		{input: "  Compose  ", want: CommandMsg{Name: CmdCompose}, wantOK: true},
		{input: "use Work mail", want: CommandMsg{Name: CmdUse, Arg: "Work mail"}, wantOK: true},
		{input: "re", wantOK: false},
		{input: "ref", want: CommandMsg{Name: CmdRefresh}, wantOK: true},
		{input: "bogus", wantOK: false},
		{input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := Resolve(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestEnterEmitsCommand(t *testing.T) {
	m := New(80, 24)
	m.input.SetValue("hosts")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CommandMsg{Name: CmdHosts}, cmd())
	assert.Empty(t, m.input.Value())

	m.input.SetValue("nope")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, UnknownCommandMsg("nope"), cmd())
}
