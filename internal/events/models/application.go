package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

// ParticipantType is the role a body assigns to an applicant. The empty
// value means the board has not assigned one yet and encodes as null.
type ParticipantType string

const (
	ParticipantNone     ParticipantType = ""
	ParticipantDelegate ParticipantType = "delegate"
	ParticipantVisitor  ParticipantType = "visitor"
	ParticipantObserver ParticipantType = "observer"
	ParticipantEnvoy    ParticipantType = "envoy"
)

// Rank orders participant types for board views: delegates first,
// unassigned last.
func (p ParticipantType) Rank() int {
	switch p {
	case ParticipantDelegate:
		return 0
	case ParticipantVisitor:
		return 1
	case ParticipantObserver:
		return 2
	case ParticipantEnvoy:
		return 3
	default:
		return 4
	}
}

func (p ParticipantType) MarshalJSON() ([]byte, error) {
	if p == ParticipantNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParticipantType) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = ParticipantNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = ParticipantType(s)
	return nil
}

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Application is a member's request to attend an event on behalf of a body.
//
// Invariants:
//   - Attended can only be set while Confirmed is true
//   - ParticipantOrder is meaningful only within one ParticipantType
type Application struct {
	ID               domain.ApplicationID `json:"id"`
	EventID          domain.EventID       `json:"event_id"`
	UserID           domain.UserID        `json:"user_id"`
	BodyID           domain.BodyID        `json:"body_id"`
	BodyName         string               `json:"body_name"`
	FirstName        string               `json:"first_name"`
	LastName         string               `json:"last_name"`
	Email            string               `json:"email"`
	ParticipantType  ParticipantType      `json:"participant_type"`
	ParticipantOrder *int                 `json:"participant_order"`
	Confirmed        bool                 `json:"confirmed"`
	Attended         bool                 `json:"attended"`
	Cancelled        bool                 `json:"cancelled"`
	Status           ApplicationStatus    `json:"status"`
	Answers          []string             `json:"answers"`
	BoardComment     string               `json:"board_comment"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// CanSetAttended checks the attendance invariant.
// Use with ApplySetAttended in Execute callbacks.
func (a *Application) CanSetAttended() error {
	if !a.Confirmed {
		fields := dErrors.FieldErrors{}
		fields.Add("attended", "cannot mark attendance on unconfirmed application")
		return dErrors.Validation("application is not confirmed", fields)
	}
	return nil
}

// ApplySetAttended records attendance. Setting the current value again is a no-op
// apart from the timestamp.
func (a *Application) ApplySetAttended(attended bool, now time.Time) {
	a.Attended = attended
	a.UpdatedAt = now
}

// IsExportable reports whether the application belongs in the voting export.
func (a *Application) IsExportable() bool {
	return !a.Cancelled && a.Status == ApplicationAccepted
}

// ApplicationSelector addresses an application either by id or as the
// caller's own ("me").
type ApplicationSelector struct {
	Self bool
	ID   domain.ApplicationID
}

// SelfSelector is the path segment for the caller's own application.
const SelfSelector = "me"

// ParseApplicationSelector resolves the path segment. Anything that is
// neither "me" nor a positive id cannot name an application and is NotFound.
func ParseApplicationSelector(raw string) (ApplicationSelector, error) {
	raw = strings.TrimSpace(raw)
	if raw == SelfSelector {
		return ApplicationSelector{Self: true}, nil
	}
	id, err := domain.ParseApplicationID(raw)
	if err != nil {
		return ApplicationSelector{}, dErrors.New(dErrors.CodeNotFound, "application is not found")
	}
	return ApplicationSelector{ID: id}, nil
}

func (s ApplicationSelector) String() string {
	if s.Self {
		return SelfSelector
	}
	return s.ID.String()
}

// ApplicationFilter narrows ListApplications. Nil fields do not filter.
type ApplicationFilter struct {
	BodyID    *domain.BodyID
	Cancelled *bool
	Status    *ApplicationStatus
}

// Matches reports whether a passes every set criterion.
func (f ApplicationFilter) Matches(a *Application) bool {
	if f.BodyID != nil && a.BodyID != *f.BodyID {
		return false
	}
	if f.Cancelled != nil && a.Cancelled != *f.Cancelled {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	return true
}

// AttendanceRequest keeps the raw JSON value so that non-boolean input can
// be rejected with a field error rather than a decode failure.
type AttendanceRequest struct {
	Attended any `json:"attended"`
}

// ParseAttendanceRequest decodes an attendance payload without failing. An
// empty or malformed body leaves Attended nil, which the attendance rules
// reject once access has been checked.
func ParseAttendanceRequest(raw []byte) AttendanceRequest {
	var req AttendanceRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return AttendanceRequest{}
	}
	return req
}
