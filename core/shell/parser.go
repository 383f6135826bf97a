package shell

import (
	"fmt"
	"strings"
)

// Clause is one program invocation: the program name followed by its
// arguments.
type Clause []string

// Line is the parsed form of one input line.
type Line struct {
	Clauses    []Clause `json:"clauses"`
	InputFile  string   `json:"input_file,omitempty"`
	OutputFile string   `json:"output_file,omitempty"`
	Background bool     `json:"background"`
}

// String renders the line one field per row; it's stable and used for
// debugging output and golden tests.
func (l *Line) String() string {
	var sb strings.Builder
	for i, c := range l.Clauses {
		fmt.Fprintf(&sb, "clause %d: %q\n", i, []string(c))
	}
	fmt.Fprintf(&sb, "input: %s\n", orDash(l.InputFile))
	fmt.Fprintf(&sb, "output: %s\n", orDash(l.OutputFile))
	fmt.Fprintf(&sb, "background: %t\n", l.Background)
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Limits bounds the size of a parsed line.
type Limits struct {
	MaxClauses int `json:"max_clauses" validate:"gte=1"`
	MaxArgs    int `json:"max_args" validate:"gte=1"`
}

// DefaultLimits holds the historical hard caps.
var DefaultLimits = Limits{MaxClauses: 10, MaxArgs: 10}

func (l Limits) orDefault() Limits {
	if l.MaxClauses <= 0 {
		l.MaxClauses = DefaultLimits.MaxClauses
	}
	if l.MaxArgs <= 0 {
		l.MaxArgs = DefaultLimits.MaxArgs
	}
	return l
}

// Parser builds Lines from token sequences.
type Parser struct {
	limits Limits
}

// NewParser creates a parser, zero limits fall back to DefaultLimits.
func NewParser(limits Limits) *Parser {
	return &Parser{limits: limits.orDefault()}
}

// Parse parses tokens using DefaultLimits.
func Parse(tokens []Token) (*Line, error) {
	return NewParser(DefaultLimits).Parse(tokens)
}

// ParseLine tokenizes and parses s.
func (p *Parser) ParseLine(s string) (*Line, error) {
	tokens, err := Tokenize(s)
	if err != nil {
		return nil, err
	}
	return p.Parse(tokens)
}

// Parse groups tokens into clauses split at pipes, records redirection
// targets and detects the trailing background marker.
//
// A redirection target is the only word allowed after a redirection operator
// until the next pipe. A final bare "&" always marks the line as background.
// A "&" glued to the end of a word only counts when that word is an argument
// of the last clause: in "sort > out&" the output file is "out&" and the
// line runs in the foreground.
func (p *Parser) Parse(tokens []Token) (*Line, error) {
	if len(tokens) == 0 {
		return nil, syntaxError(ErrEmptyLine, "", 0)
	}
	if first := tokens[0]; first.Op != OpNone {
		return nil, syntaxError(ErrLeadingOperator, first.String(), first.Pos)
	}

	line := &Line{}
	clause := Clause{}
	redirected := false
	last := len(tokens) - 1

	for i, tok := range tokens {
		switch tok.Op {
		case OpNone:
			if i == last && tok.Text == backgroundMark {
				line.Background = true
				continue
			}
			if redirected {
				return nil, syntaxError(ErrRedirectAfterTarget, tok.Text, tok.Pos)
			}
			if len(clause) >= p.limits.MaxArgs {
				return nil, syntaxError(ErrTooManyArguments, tok.Text, tok.Pos)
			}
			clause = append(clause, tok.Text)

		case OpPipe:
			if len(clause) == 0 {
				return nil, syntaxError(ErrLeadingOperator, tok.String(), tok.Pos)
			}
			if len(line.Clauses)+1 >= p.limits.MaxClauses {
				return nil, syntaxError(ErrTooManyClauses, tok.String(), tok.Pos)
			}
			line.Clauses = append(line.Clauses, clause)
			clause = Clause{tok.Text}
			redirected = false

		case OpRedirectIn:
			if line.InputFile != "" {
				return nil, syntaxError(ErrDuplicateRedirect, tok.String(), tok.Pos)
			}
			line.InputFile = tok.Text
			redirected = true

		case OpRedirectOut:
			if line.OutputFile != "" {
				return nil, syntaxError(ErrDuplicateRedirect, tok.String(), tok.Pos)
			}
			line.OutputFile = tok.Text
			redirected = true

		default:
			return nil, syntaxError(fmt.Errorf("unknown operator %v", tok.Op), tok.String(), tok.Pos)
		}
	}

	if !line.Background && len(clause) > 0 {
		clause = stripBackground(line, clause)
	}
	if len(clause) == 0 {
		return nil, syntaxError(ErrEmptyBackgroundClause, backgroundMark, tokens[last].Pos)
	}

	line.Clauses = append(line.Clauses, clause)
	return line, nil
}

// stripBackground removes a "&" suffix from the last argument of clause and
// drops the argument if nothing else remains of it.
func stripBackground(line *Line, clause Clause) Clause {
	n := len(clause)
	arg := clause[n-1]
	if !strings.HasSuffix(arg, backgroundMark) {
		return clause
	}

	line.Background = true
	if arg = strings.TrimSuffix(arg, backgroundMark); arg == "" {
		return clause[:n-1]
	}
	clause[n-1] = arg
	return clause
}
