package pbx

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to these so callers can branch
// with errors.Is.
var (
	ErrDocument          = errors.New("malformed project document")
	ErrStructural        = errors.New("structural error")
	ErrMissingReference  = errors.New("missing reference")
	ErrPathIndeterminate = errors.New("path indeterminate")
)

// DocumentError reports a document that is not shaped like a project file.
type DocumentError struct {
	Reason string
	Err    error
}

func (e *DocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrDocument, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrDocument, e.Reason)
}

func (e *DocumentError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrDocument, e.Err}
	}
	return []error{ErrDocument}
}

// StructuralError reports a required attribute that is absent or has the
// wrong shape.
type StructuralError struct {
	Owner     string // ID of the record holding the attribute
	Attribute string
	Reason    string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%v: object %s attribute %q: %s", ErrStructural, e.Owner, e.Attribute, e.Reason)
}

func (e *StructuralError) Unwrap() error { return ErrStructural }

// MissingReferenceError reports an attribute naming an object ID that is not
// present in the document. It matches both ErrMissingReference and
// ErrStructural.
type MissingReferenceError struct {
	Owner     string
	Attribute string
	ID        string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%v: object %s attribute %q references unknown object %s", ErrMissingReference, e.Owner, e.Attribute, e.ID)
}

func (e *MissingReferenceError) Unwrap() []error {
	return []error{ErrMissingReference, ErrStructural}
}

// PathError is returned when the path of a file reference cannot be
// determined from its attributes.
type PathError struct {
	ID     string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: file reference %s: %s", ErrPathIndeterminate, e.ID, e.Reason)
}

func (e *PathError) Unwrap() error { return ErrPathIndeterminate }

// DiagnosticCode classifies a recoverable problem found while loading.
type DiagnosticCode string

const (
	// UnknownRecordType marks a record whose isa has no registered variant.
	UnknownRecordType DiagnosticCode = "unknown_record_type"
	// GroupCycle marks a group that contains itself, directly or indirectly.
	GroupCycle DiagnosticCode = "group_cycle"
)

// Diagnostic is a soft, non-fatal finding recorded during Load.
type Diagnostic struct {
	Code    DiagnosticCode
	ID      string
	Isa     string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (isa=%q): %s", d.Code, d.ID, d.Isa, d.Message)
}
