package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"route", "best", "plan", "risk", "weather"})
}

func TestRootCmd_RequiredFlags(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"best", "--from", "Indiranagar"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"to"`)
}

func TestWindowFlags(t *testing.T) {
	tests := []struct {
		name    string
		flags   windowFlags
		wantErr string
	}{
		{"defaults", windowFlags{start: 8, end: 18}, ""},
		{"wrapped", windowFlags{start: 20, end: 6}, ""},
		{"dated", windowFlags{start: 8, end: 10, date: "2026-10-20"}, ""},
		{"bad start", windowFlags{start: 24, end: 18}, "--start must be between 0 and 23"},
		{"bad end", windowFlags{start: 8, end: -1}, "--end must be between 0 and 23"},
		{"bad date", windowFlags{start: 8, end: 18, date: "tomorrow"}, "--date must be a date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := tt.flags.window()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.flags.start, w.StartHour)
			assert.Equal(t, tt.flags.end, w.EndHour)
			assert.Equal(t, tt.flags.date != "", w.TargetDate != nil)
		})
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"best_hour": 9}))
	assert.Equal(t, "{\n  \"best_hour\": 9\n}\n", buf.String())
}
