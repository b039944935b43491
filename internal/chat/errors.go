package chat

import (
	"fmt"
	"strings"
)

// ParserInitializationError means the parse engine could not be opened
// against the input at all. It is distinct from a document that parsed
// cleanly and held zero messages.
type ParserInitializationError struct {
	Err error
}

func (e *ParserInitializationError) Error() string {
	return fmt.Sprintf("chat parser initialization failed: %v", e.Err)
}

func (e *ParserInitializationError) Unwrap() error {
	return e.Err
}

// MalformedDocumentError reports the first markup syntax error in a chat
// document. Parsing stops there; the messages completed before the fault are
// returned alongside it.
type MalformedDocumentError struct {
	Line int
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed chat document at line %d: %v", e.Line, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a message is missing fields required to
// send it.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "chat message missing required fields: " + strings.Join(e.Fields, ", ")
}
