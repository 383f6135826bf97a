package logger

// EventType names the kind of event held by a LogEntry.
type EventType string

const (
	EventLineExecuted    EventType = "line_executed"
	EventSyntaxError     EventType = "syntax_error"
	EventCommandNotFound EventType = "command_not_found"
	EventAccessDenied    EventType = "access_denied"
	EventSpawnFailed     EventType = "spawn_failed"
	EventBuiltin         EventType = "builtin"
)

// LogEntry is a single line of the event log. Exactly one of the event
// fields is set, matching Type.
type LogEntry struct {
	TimestampMicros int64     `json:"timestamp_micros"`
	SessionID       string    `json:"session_id,omitempty"`
	Type            EventType `json:"type"`

	LineExecuted    *LineExecuted    `json:"line_executed,omitempty"`
	SyntaxError     *SyntaxError     `json:"syntax_error,omitempty"`
	CommandNotFound *CommandNotFound `json:"command_not_found,omitempty"`
	AccessDenied    *AccessDenied    `json:"access_denied,omitempty"`
	SpawnFailed     *SpawnFailed     `json:"spawn_failed,omitempty"`
	Builtin         *Builtin         `json:"builtin,omitempty"`
}

// LogType is implemented by every event that can be recorded.
type LogType interface {
	attach(le *LogEntry)
}

// GetLogType returns the event held by the entry, or nil if it has none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.LineExecuted != nil:
		return le.LineExecuted
	case le.SyntaxError != nil:
		return le.SyntaxError
	case le.CommandNotFound != nil:
		return le.CommandNotFound
	case le.AccessDenied != nil:
		return le.AccessDenied
	case le.SpawnFailed != nil:
		return le.SpawnFailed
	case le.Builtin != nil:
		return le.Builtin
	default:
		return nil
	}
}

// LineExecuted is logged once every process of a line has started, and for
// foreground lines, exited.
type LineExecuted struct {
	Line           string     `json:"line"`
	Clauses        [][]string `json:"clauses"`
	ResolvedPaths  []string   `json:"resolved_paths"`
	Background     bool       `json:"background,omitempty"`
	Pids           []int      `json:"pids"`
	ExitCodes      []int      `json:"exit_codes,omitempty"`
	DurationMicros int64      `json:"duration_micros"`
}

func (e *LineExecuted) attach(le *LogEntry) {
	le.Type = EventLineExecuted
	le.LineExecuted = e
}

type SyntaxError struct {
	Line  string `json:"line"`
	Token string `json:"token,omitempty"`
	Pos   int    `json:"pos"`
	Error string `json:"error"`
}

func (e *SyntaxError) attach(le *LogEntry) {
	le.Type = EventSyntaxError
	le.SyntaxError = e
}

type CommandNotFound struct {
	Line    string `json:"line"`
	Command string `json:"command"`
}

func (e *CommandNotFound) attach(le *LogEntry) {
	le.Type = EventCommandNotFound
	le.CommandNotFound = e
}

type AccessDenied struct {
	Line  string `json:"line"`
	Op    string `json:"op"`
	Path  string `json:"path"`
	Error string `json:"error"`
}

func (e *AccessDenied) attach(le *LogEntry) {
	le.Type = EventAccessDenied
	le.AccessDenied = e
}

type SpawnFailed struct {
	Line   string `json:"line"`
	Clause int    `json:"clause"`
	Path   string `json:"path"`
	Error  string `json:"error"`
}

func (e *SpawnFailed) attach(le *LogEntry) {
	le.Type = EventSpawnFailed
	le.SpawnFailed = e
}

// Builtin is logged when a line is handled by the shell itself.
type Builtin struct {
	Command []string `json:"command"`
	Status  int      `json:"status"`
}

func (e *Builtin) attach(le *LogEntry) {
	le.Type = EventBuiltin
	le.Builtin = e
}
