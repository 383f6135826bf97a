package shell

import "fmt"

// Operator is the operator that introduced a token.
type Operator byte

const (
	OpNone        Operator = 0
	OpPipe        Operator = '|'
	OpRedirectIn  Operator = '<'
	OpRedirectOut Operator = '>'
)

// backgroundMark at the end of a line runs the pipeline in the background.
const backgroundMark = "&"

func (o Operator) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpPipe:
		return "pipe"
	case OpRedirectIn:
		return "input-redirect"
	case OpRedirectOut:
		return "output-redirect"
	default:
		return fmt.Sprintf("operator(%q)", byte(o))
	}
}

// MarshalText encodes the operator by name.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func isOperator(c byte) bool {
	return c == byte(OpPipe) || c == byte(OpRedirectIn) || c == byte(OpRedirectOut)
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// Token is a single word of an input line tagged with the operator that
// preceded it. Text is a substring of the line, not a copy.
type Token struct {
	Op   Operator `json:"op"`
	Pos  int      `json:"pos"`
	Text string   `json:"text"`
}

func (t Token) String() string {
	if t.Op == OpNone {
		return t.Text
	}
	return string(rune(t.Op)) + t.Text
}

// Tokenize splits line into words. Each word records the operator that
// precedes it; the first word never has one. A line with no words yields an
// empty, non-nil slice.
func Tokenize(line string) ([]Token, error) {
	tokens := []Token{}
	inWord := false
	inOperator := false
	pending := OpNone
	opPos := 0

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case isOperator(c):
			if len(tokens) == 0 {
				return nil, syntaxError(ErrLeadingOperator, string(c), i)
			}
			if inOperator {
				return nil, syntaxError(ErrDoubleOperator, string(c), i)
			}
			inOperator = true
			pending = Operator(c)
			opPos = i
			inWord = false

		case isBlank(c):
			inWord = false

		default:
			if !inWord {
				tokens = append(tokens, Token{Op: pending, Pos: i, Text: line[i:wordEnd(line, i)]})
			}
			inWord = true
			inOperator = false
			pending = OpNone
		}
	}

	if inOperator {
		return nil, syntaxError(ErrTrailingOperator, string(rune(pending)), opPos)
	}
	return tokens, nil
}

// wordEnd returns the index one past the last byte of the word starting at i.
func wordEnd(line string, i int) int {
	for i < len(line) && !isOperator(line[i]) && !isBlank(line[i]) {
		i++
	}
	return i
}
