// Package id provides centralized ID generation for the backend.
//
// Two identifier families exist:
//   - UUIDs: content keys and session ids. Random v4, stable for the life
//     of the record, never reused. A file keeps its content UUID across
//     rename/move/trash/restore.
//   - Instance ids: "inst-<n>" with n from a persisted monotonic counter,
//     so window ids stay unique across restarts and sort by creation.
package id

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ContentID keys a payload in the content store
type ContentID string

// SessionID identifies a saved desktop session
type SessionID string

// InstancePrefix prefixes window instance ids
const InstancePrefix = "inst"

// NewContentID generates a new content key
func NewContentID() ContentID {
	return ContentID(uuid.NewString())
}

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID("sess_" + uuid.NewString())
}

// NewRequestID generates a new request trace ID
func NewRequestID() string {
	return uuid.NewString()
}

// String methods for ID types
func (id ContentID) String() string { return string(id) }
func (id SessionID) String() string { return string(id) }

// Instance formats a window instance id from the monotonic counter
func Instance(n int64) string {
	return fmt.Sprintf("%s-%d", InstancePrefix, n)
}

// InstanceCounter extracts the counter from an instance id, or -1 when the
// id is not in the expected form
func InstanceCounter(id string) int64 {
	rest, ok := strings.CutPrefix(id, InstancePrefix+"-")
	if !ok {
		return -1
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// IsValidUUID checks if a string is a valid UUID
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
