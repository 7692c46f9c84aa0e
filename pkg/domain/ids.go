package domain

import (
	"strconv"
	"strings"

	dErrors "eventreg/pkg/domain-errors"
)

// Typed identifiers keep event, application, body and user ids from being
// passed where another is expected. All of them are positive integers.
type (
	EventID       int64
	ApplicationID int64
	BodyID        int64
	UserID        int64
)

// maxIDLength bounds the raw input before parsing.
const maxIDLength = 19

func parsePositive(raw, what string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || len(raw) > maxIDLength {
		return 0, dErrors.New(dErrors.CodeBadRequest, what+" must be a positive integer")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, what+" must be a positive integer")
	}
	return n, nil
}

// ParseBodyID parses a path segment into a BodyID.
func ParseBodyID(raw string) (BodyID, error) {
	n, err := parsePositive(raw, "body id")
	return BodyID(n), err
}

// ParseEventID parses a path segment into an EventID.
func ParseEventID(raw string) (EventID, error) {
	n, err := parsePositive(raw, "event id")
	return EventID(n), err
}

// ParseApplicationID parses a path segment into an ApplicationID.
func ParseApplicationID(raw string) (ApplicationID, error) {
	n, err := parsePositive(raw, "application id")
	return ApplicationID(n), err
}

func (id EventID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id ApplicationID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id BodyID) String() string        { return strconv.FormatInt(int64(id), 10) }
func (id UserID) String() string        { return strconv.FormatInt(int64(id), 10) }
