package models

import (
	"time"

	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

// Body types known to the core registry that have their own defaults.
const (
	BodyTypeAntenna        = "antenna"
	BodyTypeContactAntenna = "contact antenna"
	BodyTypeContact        = "contact"
)

// Limits is how many participants of each type a body may send.
type Limits struct {
	Delegate int `json:"delegate"`
	Envoy    int `json:"envoy"`
	Visitor  int `json:"visitor"`
	Observer int `json:"observer"`
}

// PaxLimit is the resolved limit for a body at one event type. Default is
// true when no row was configured and the limits come from DefaultLimits.
type PaxLimit struct {
	BodyID    domain.BodyID `json:"body_id"`
	EventType EventType     `json:"event_type"`
	Limits
	Default   bool      `json:"default"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// DefaultLimits returns the system default for a body type at an event type.
func DefaultLimits(eventType EventType, bodyType string) Limits {
	switch eventType {
	case EventTypeAgora:
		switch bodyType {
		case BodyTypeAntenna:
			return Limits{Delegate: 3, Envoy: 1, Visitor: 3, Observer: 0}
		case BodyTypeContactAntenna:
			return Limits{Delegate: 1, Envoy: 1, Visitor: 2, Observer: 0}
		case BodyTypeContact:
			return Limits{Delegate: 0, Envoy: 1, Visitor: 2, Observer: 0}
		default:
			return Limits{Delegate: 0, Envoy: 0, Visitor: 1, Observer: 2}
		}
	case EventTypeEPM:
		switch bodyType {
		case BodyTypeAntenna, BodyTypeContactAntenna:
			return Limits{Delegate: 1, Envoy: 0, Visitor: 2, Observer: 0}
		case BodyTypeContact:
			return Limits{Delegate: 0, Envoy: 0, Visitor: 2, Observer: 0}
		default:
			return Limits{Delegate: 0, Envoy: 0, Visitor: 1, Observer: 1}
		}
	}
	return Limits{}
}

// SetLimitRequest configures every participant type at once.
type SetLimitRequest struct {
	Delegate *int `json:"delegate"`
	Envoy    *int `json:"envoy"`
	Visitor  *int `json:"visitor"`
	Observer *int `json:"observer"`
}

// Validate requires all four counts and rejects negatives.
func (r SetLimitRequest) Validate() (Limits, error) {
	fields := dErrors.FieldErrors{}
	check := func(name string, v *int) int {
		switch {
		case v == nil:
			fields.Add(name, name+" is required")
			return 0
		case *v < 0:
			fields.Add(name, name+" must not be negative")
			return 0
		default:
			return *v
		}
	}
	limits := Limits{
		Delegate: check("delegate", r.Delegate),
		Envoy:    check("envoy", r.Envoy),
		Visitor:  check("visitor", r.Visitor),
		Observer: check("observer", r.Observer),
	}
	if !fields.Empty() {
		return Limits{}, dErrors.Validation("limits are invalid", fields)
	}
	return limits, nil
}
