package objwriter

import (
	"fmt"
	"strings"

	"github.com/vk/objgraph/internal/schema"
)

// ErrorCode classifies a WriteError.
type ErrorCode string

const (
	CodeConstructorResolution     ErrorCode = "constructor_resolution"
	CodeFactoryMethod             ErrorCode = "factory_method"
	CodeReadOnlyConstructorMember ErrorCode = "read_only_constructor_member"
	CodeMemberAssignment          ErrorCode = "member_assignment"
	CodeDuplicateMember           ErrorCode = "duplicate_member"
	CodeInvalidOperation          ErrorCode = "invalid_operation"
	CodeMarkupExtension           ErrorCode = "markup_extension"
	CodeConversion                ErrorCode = "conversion"
)

// WriteError is the single error type returned by the Writer. Type and
// Member identify where the write diverged from the object model.
type WriteError struct {
	Code    ErrorCode
	Type    string
	Member  string
	Message string
	Err     error
}

func (e *WriteError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Code))
	b.WriteString("] ")
	if e.Type != "" {
		b.WriteString(e.Type)
		if e.Member != "" {
			b.WriteString(".")
			b.WriteString(e.Member)
		}
		b.WriteString(": ")
	} else if e.Member != "" {
		b.WriteString(e.Member)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *WriteError) Unwrap() error { return e.Err }

// Is matches any WriteError carrying the same code. A factory method failure
// also matches ErrConstructorResolution.
func (e *WriteError) Is(target error) bool {
	t, ok := target.(*WriteError)
	if !ok {
		return false
	}
	if t.Code == e.Code {
		return true
	}
	return e.Code == CodeFactoryMethod && t.Code == CodeConstructorResolution
}

// Sentinels for errors.Is.
var (
	ErrConstructorResolution     = &WriteError{Code: CodeConstructorResolution, Message: "no usable constructor"}
	ErrFactoryMethod             = &WriteError{Code: CodeFactoryMethod, Message: "factory method failed"}
	ErrReadOnlyConstructorMember = &WriteError{Code: CodeReadOnlyConstructorMember, Message: "read-only constructor member was not consumed"}
	ErrMemberAssignment          = &WriteError{Code: CodeMemberAssignment, Message: "member assignment failed"}
	ErrDuplicateMember           = &WriteError{Code: CodeDuplicateMember, Message: "member written twice"}
	ErrInvalidOperation          = &WriteError{Code: CodeInvalidOperation, Message: "invalid operation"}
	ErrMarkupExtension           = &WriteError{Code: CodeMarkupExtension, Message: "markup extension failed"}
	ErrConversion                = &WriteError{Code: CodeConversion, Message: "value conversion failed"}
)

func newError(code ErrorCode, t *schema.Type, m *schema.Member, cause error, format string, args ...any) *WriteError {
	e := &WriteError{Code: code, Message: fmt.Sprintf(format, args...), Err: cause}
	if t != nil {
		e.Type = t.Name()
	}
	if m != nil {
		if m.IsDirective() {
			e.Member = m.String()
		} else {
			e.Member = m.Name()
		}
	}
	return e
}
