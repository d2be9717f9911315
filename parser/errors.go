package parser

import "github.com/mlang-dev/mlang/lexer"

// Error codes used to classify ParserError instances.
const (
	ErrUnexpectedToken  = "unexpected-token"
	ErrNoPrimaryParse   = "no-primary-parse"
	ErrInvalidAssignTgt = "invalid-assignment-target"
	ErrInvalidType      = "invalid-type"
)

// ParserError is a single positioned syntactic diagnostic.
type ParserError struct {
	Pos     lexer.Position
	Length  int
	Message string
	Code    string
}

func NewParserError(pos lexer.Position, length int, msg, code string) *ParserError {
	return &ParserError{Pos: pos, Length: length, Message: msg, Code: code}
}

func (e *ParserError) Error() string { return e.Message }
