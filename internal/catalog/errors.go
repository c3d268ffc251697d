package catalog

import "fmt"

const (
	CodeValidation = "validation"
	CodeNotFound   = "not_found"
	CodeConflict   = "conflict"
	CodeForbidden  = "forbidden"
	CodeInternal   = "internal"
)

// Error carries an API code and HTTP status alongside the message, so the
// HTTP layer can map store failures without string matching.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func statusForCode(code string) int {
	switch code {
	case CodeValidation:
		return 400
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	case CodeForbidden:
		return 403
	default:
		return 500
	}
}

func newError(code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusForCode(code)}
}

func errValidation(message string) error { return newError(CodeValidation, message) }
func errNotFound(message string) error   { return newError(CodeNotFound, message) }
func errConflict(message string) error   { return newError(CodeConflict, message) }
func errForbidden(message string) error  { return newError(CodeForbidden, message) }
