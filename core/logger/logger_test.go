package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJsonLinesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	session := NewJsonLinesLogRecorder(&buf).NewSession()
	assert.NotEmpty(t, session.SessionID())

	require.NoError(t, session.Record(&LineExecuted{
		Line:          "echo hi | wc",
		Clauses:       [][]string{{"echo", "hi"}, {"wc"}},
		ResolvedPaths: []string{"/bin/echo", "/usr/bin/wc"},
		Pids:          []int{10, 11},
		ExitCodes:     []int{0, 0},
	}))
	require.NoError(t, session.Record(&CommandNotFound{Line: "frob", Command: "frob"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &raw))
	assert.Equal(t, "command_not_found", raw["type"])
	assert.Equal(t, session.SessionID(), raw["session_id"])

	var entries []*LogEntry
	require.NoError(t, ReadJSONLinesLog(&buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))
	require.Len(t, entries, 2)

	executed, ok := entries[0].GetLogType().(*LineExecuted)
	require.True(t, ok)
	assert.Equal(t, []string{"/bin/echo", "/usr/bin/wc"}, executed.ResolvedPaths)
	assert.NotZero(t, entries[0].TimestampMicros)
	assert.Equal(t, EventCommandNotFound, entries[1].Type)
}

func TestSessionless(t *testing.T) {
	var got *LogEntry
	logger := &Logger{Record: func(le *LogEntry) error {
		got = le
		return nil
	}}

	require.NoError(t, logger.Sessionless().Record(&Builtin{Command: []string{"cd", "/"}}))
	require.NotNil(t, got)
	assert.Empty(t, got.SessionID)
	assert.Equal(t, EventBuiltin, got.Type)
}

func TestDiscardLogger(t *testing.T) {
	assert.NoError(t, NewDiscardLogger().NewSession().Record(&Builtin{}))
}

func TestReadJSONLinesLogInvalid(t *testing.T) {
	err := ReadJSONLinesLog(strings.NewReader("{not json"), func(*LogEntry) {})
	assert.Error(t, err)
}
