package types

import (
	"errors"
	"fmt"
)

// Error taxonomy.  Every parse failure is fatal - there is no partial
// result and no retry, because a bad byte means either a corrupt file
// or a codec defect.

// Err_in_mission is NOT corruption.  Saves captured mid-mission carry
// combat state we never attempt to parse; callers must refuse to
// operate on such a save and tell the user to finish the mission first.
var Err_in_mission = errors.New("savefile was captured mid-mission; in-mission state is not supported")

// FormatError means the input can't be read: bad magic, unsupported
// version, tag mismatch, runaway varint, broken back-reference.
// Once one of these fires the cursor is no longer trustworthy.
type FormatError struct {
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("bad savefile data at 0x%X: %s", e.Offset, e.Msg)
}

func Format_errorf(offset int, format string, args ...any) *FormatError {
	return &FormatError{offset, fmt.Sprintf(format, args...)}
}

// VerificationError means the post-parse re-encode did not reproduce
// the input.  That's a codec defect, not a user problem.  The bad
// reconstruction is carried along so a front end can dump it for
// diffing.
type VerificationError struct {
	Offset         int // first divergent byte (or the shorter length)
	Reconstruction []byte
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("could not reconstruct an identical savefile (first divergence at 0x%X)", e.Offset)
}

// MutationError means a caller asked for an unrepresentable change.
// Rejected synchronously; the document is left untouched.
type MutationError struct {
	Op  string
	Msg string
}

func (e *MutationError) Error() string {
	return e.Op + ": " + e.Msg
}

func Mutation_errorf(op string, format string, args ...any) *MutationError {
	return &MutationError{op, fmt.Sprintf(format, args...)}
}
