package trackwrestling

import (
	"fmt"
	"strings"
)

// PayloadNotFoundError means the page has no block of the expected kind, pages
// without brackets legitimately produce this.
type PayloadNotFoundError struct {
	// Payload names what was searched for, ex. "bracket script".
	Payload string
	Marker  string
}

func (e *PayloadNotFoundError) Error() string {
	if e.Marker == "" {
		return fmt.Sprintf("trackwrestling: %s not found", e.Payload)
	}
	return fmt.Sprintf("trackwrestling: %s not found (marker %q)", e.Payload, e.Marker)
}

// EmptyPayloadError means the payload exists but is an empty string.
type EmptyPayloadError struct {
	Payload string
}

func (e *EmptyPayloadError) Error() string {
	return fmt.Sprintf("trackwrestling: %s payload is empty", e.Payload)
}

// MalformedRecordError means a payload does not follow its fixed group width
// or a field cannot be coerced, this usually means the markup changed upstream.
type MalformedRecordError struct {
	Payload string
	// Record is the 0-based record index, -1 when the payload as a whole is
	// malformed.
	Record int
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	var b strings.Builder
	b.WriteString("trackwrestling: malformed ")
	b.WriteString(e.Payload)
	if e.Record >= 0 {
		fmt.Fprintf(&b, " record %d", e.Record)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, " field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

type UnknownEventTypeError struct {
	Value string
}

func (e *UnknownEventTypeError) Error() string {
	return fmt.Sprintf("trackwrestling: unknown event type %q", e.Value)
}

// ItemError is a single list item that failed to parse, batches skip these
// and keep going.
type ItemError struct {
	Index int
	Err   error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Err.Error())
}

func (e ItemError) Unwrap() error {
	return e.Err
}
