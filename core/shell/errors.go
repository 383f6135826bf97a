package shell

import (
	"errors"
	"fmt"
)

// ErrSyntax matches every error returned by Tokenize and Parse.
var ErrSyntax = errors.New("syntax error")

var (
	ErrEmptyLine             = errors.New("empty line")
	ErrLeadingOperator       = errors.New("operator before the first word")
	ErrDoubleOperator        = errors.New("two operators without a word between them")
	ErrTrailingOperator      = errors.New("operator without a following word")
	ErrTooManyArguments      = errors.New("too many arguments in clause")
	ErrTooManyClauses        = errors.New("too many clauses in line")
	ErrRedirectAfterTarget   = errors.New("word after redirection target")
	ErrDuplicateRedirect     = errors.New("duplicate redirection")
	ErrEmptyBackgroundClause = errors.New("background marker with no command")
)

// SyntaxError describes a malformed line. Token and Pos locate the
// offending input where one exists.
type SyntaxError struct {
	Reason error
	Token  string
	Pos    int
}

func syntaxError(reason error, token string, pos int) *SyntaxError {
	return &SyntaxError{Reason: reason, Token: token, Pos: pos}
}

func (e *SyntaxError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("syntax error: %v", e.Reason)
	}
	return fmt.Sprintf("syntax error near `%s': %v", e.Token, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return e.Reason
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}
