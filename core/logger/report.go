package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{
		AccessDenied:  NewPathCounter("op", "path"),
		SpawnFailures: NewPathCounter("path", "error"),
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       int        `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`
	EventTypes     StrCounter `json:"event_types"`

	LineExecuted LineExecutedReport `json:"line_executed_report"`
	Builtins     StrCounter         `json:"builtins"`
	NotFound     StrCounter         `json:"command_not_found"`
	SyntaxErrors StrCounter         `json:"syntax_errors"`

	AccessDenied  *PathCounter `json:"access_denied"`
	SpawnFailures *PathCounter `json:"spawn_failures"`

	sessions map[string]bool
}

func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	r.countSession(le.SessionID)

	switch event := le.GetLogType().(type) {
	case *LineExecuted:
		r.LineExecuted.update(event)
	case *Builtin:
		if len(event.Command) > 0 {
			r.Builtins.Increment(event.Command[0])
		}
	case *CommandNotFound:
		r.NotFound.Increment(event.Command)
	case *SyntaxError:
		r.SyntaxErrors.Increment(event.Error)
	case *AccessDenied:
		r.AccessDenied.Increment(event.Op, event.Path)
	case *SpawnFailed:
		r.SpawnFailures.Increment(event.Path, event.Error)
	default:
		r.InvalidEntries.Increment(fmt.Sprintf("%q", le.Type))
		return
	}

	r.EventTypes.Increment(string(le.Type))
}

func (r *Report) countSession(id string) {
	if id == "" {
		return
	}
	if r.sessions == nil {
		r.sessions = make(map[string]bool)
	}
	if !r.sessions[id] {
		r.sessions[id] = true
		r.Sessions++
	}
}

type LineExecutedReport struct {
	Count      int `json:"count"`
	Background int `json:"background"`
	// Pipeline lengths and their counts.
	Stages StrCounter `json:"stages"`
	// Names of the commands as typed.
	CommandNames StrCounter `json:"command_names"`
	// Paths the commands resolved to.
	ResolvedCommandPaths StrCounter `json:"resolved_command_paths"`
	// Exit codes of foreground commands.
	ExitCodes StrCounter `json:"exit_codes"`
}

func (r *LineExecutedReport) update(le *LineExecuted) {
	r.Count++
	if le.Background {
		r.Background++
	}
	r.Stages.Increment(fmt.Sprintf("%d", len(le.Clauses)))
	for _, clause := range le.Clauses {
		if len(clause) > 0 {
			r.CommandNames.Increment(clause[0])
		}
	}
	for _, path := range le.ResolvedPaths {
		r.ResolvedCommandPaths.Increment(path)
	}
	for _, code := range le.ExitCodes {
		r.ExitCodes.Increment(fmt.Sprintf("%d", code))
	}
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the number of times key was seen.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implements a custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the number of times the tuple was seen.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implements a custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	out := []Count{}
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
