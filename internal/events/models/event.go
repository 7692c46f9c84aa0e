package models

import (
	"encoding/json"
	"reflect"
	"regexp"
	"strings"
	"time"

	"eventreg/pkg/domain"
	dErrors "eventreg/pkg/domain-errors"
)

type EventType string

const (
	EventTypeAgora EventType = "agora"
	EventTypeEPM   EventType = "epm"
)

// ParseEventType accepts only the event types that carry pax limits.
func ParseEventType(raw string) (EventType, error) {
	switch t := EventType(strings.TrimSpace(raw)); t {
	case EventTypeAgora, EventTypeEPM:
		return t, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "event type must be one of: agora, epm")
	}
}

type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusSubmitted EventStatus = "submitted"
	EventStatusPublished EventStatus = "published"
)

// Event is a statutory event members apply to.
//
// Invariants:
//   - Type and Status never change through an edit; Status moves only
//     through the publishing workflow
//   - ApplicationPeriodEnds is after ApplicationPeriodStarts
//   - Ends is after Starts
//   - Fee is non-negative
type Event struct {
	ID                      domain.EventID `json:"id"`
	URL                     string         `json:"url"`
	Name                    string         `json:"name"`
	Description             string         `json:"description"`
	Type                    EventType      `json:"type"`
	Status                  EventStatus    `json:"status"`
	BodyID                  domain.BodyID  `json:"body_id"`
	ApplicationPeriodStarts time.Time      `json:"application_period_starts"`
	ApplicationPeriodEnds   time.Time      `json:"application_period_ends"`
	Starts                  time.Time      `json:"starts"`
	Ends                    time.Time      `json:"ends"`
	Fee                     float64        `json:"fee"`
	Questions               []string       `json:"questions"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
}

func (e *Event) IsAgora() bool {
	return e.Type == EventTypeAgora
}

// EventRef addresses an event by numeric id or by its url slug.
type EventRef struct {
	ID  domain.EventID
	URL string
}

// ParseEventRef treats an all-digit reference as an id and anything else as
// a slug. It never fails: unknown references are resolved to NotFound by
// the lookup.
func ParseEventRef(raw string) EventRef {
	raw = strings.TrimSpace(raw)
	if id, err := domain.ParseEventID(raw); err == nil {
		return EventRef{ID: id}
	}
	return EventRef{URL: raw}
}

func (r EventRef) String() string {
	if r.ID != 0 {
		return r.ID.String()
	}
	return r.URL
}

var urlSlugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// EditEventRequest carries the whitelisted editable fields. Absent fields
// are nil and left untouched. Status, type, id and body are not
// representable here, so a payload naming them has no effect.
type EditEventRequest struct {
	Name                    *string    `json:"name"`
	Description             *string    `json:"description"`
	URL                     *string    `json:"url"`
	ApplicationPeriodStarts *time.Time `json:"application_period_starts"`
	ApplicationPeriodEnds   *time.Time `json:"application_period_ends"`
	Starts                  *time.Time `json:"starts"`
	Ends                    *time.Time `json:"ends"`
	Fee                     *float64   `json:"fee"`
	Questions               *[]string  `json:"questions"`

	// problems holds payload errors found by ParseEditEventRequest. They are
	// reported by Validate, after the caller's access has been checked.
	problems dErrors.FieldErrors
}

// ParseEditEventRequest decodes an edit payload without failing. A body that
// is not a JSON object is reported under "body"; a field of the wrong type is
// reported under its own name and left untouched.
func ParseEditEventRequest(raw []byte) EditEventRequest {
	var req EditEventRequest
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		req.problems = dErrors.FieldErrors{}
		req.problems.Add("body", "request body must be a JSON object")
		return req
	}
	targets := map[string]any{
		"name":                      &req.Name,
		"description":               &req.Description,
		"url":                       &req.URL,
		"application_period_starts": &req.ApplicationPeriodStarts,
		"application_period_ends":   &req.ApplicationPeriodEnds,
		"starts":                    &req.Starts,
		"ends":                      &req.Ends,
		"fee":                       &req.Fee,
		"questions":                 &req.Questions,
	}
	for name, value := range fields {
		dst, ok := targets[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, dst); err != nil {
			reflect.ValueOf(dst).Elem().SetZero()
			if req.problems == nil {
				req.problems = dErrors.FieldErrors{}
			}
			req.problems.Add(name, name+" has an invalid value")
		}
	}
	return req
}

// Validate checks the request against the event it would be applied to and
// collects every problem keyed by field.
func (r EditEventRequest) Validate(current Event) error {
	fields := dErrors.FieldErrors{}
	for name, messages := range r.problems {
		for _, m := range messages {
			fields.Add(name, m)
		}
	}

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields.Add("name", "name must not be empty")
	}
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		fields.Add("description", "description must not be empty")
	}
	if r.URL != nil {
		slug := *r.URL
		switch {
		case !urlSlugPattern.MatchString(slug):
			fields.Add("url", "url may only contain lowercase letters, digits and dashes")
		case strings.Trim(slug, "0123456789") == "":
			fields.Add("url", "url must not be numeric")
		}
	}
	if r.Fee != nil && *r.Fee < 0 {
		fields.Add("fee", "fee must not be negative")
	}
	if r.Questions != nil {
		for _, q := range *r.Questions {
			if strings.TrimSpace(q) == "" {
				fields.Add("questions", "questions must not be empty")
				break
			}
		}
	}

	merged := current
	r.apply(&merged)
	if (r.ApplicationPeriodStarts != nil || r.ApplicationPeriodEnds != nil) &&
		!merged.ApplicationPeriodEnds.After(merged.ApplicationPeriodStarts) {
		fields.Add("application_period_ends", "application period must end after it starts")
	}
	if (r.Starts != nil || r.Ends != nil) && !merged.Ends.After(merged.Starts) {
		fields.Add("ends", "event must end after it starts")
	}

	if !fields.Empty() {
		return dErrors.Validation("event is invalid", fields)
	}
	return nil
}

// ApplyEdit copies the present fields onto e. Call Validate first.
func (r EditEventRequest) ApplyEdit(e *Event, now time.Time) {
	r.apply(e)
	e.UpdatedAt = now
}

func (r EditEventRequest) apply(e *Event) {
	if r.Name != nil {
		e.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		e.Description = strings.TrimSpace(*r.Description)
	}
	if r.URL != nil {
		e.URL = *r.URL
	}
	if r.ApplicationPeriodStarts != nil {
		e.ApplicationPeriodStarts = *r.ApplicationPeriodStarts
	}
	if r.ApplicationPeriodEnds != nil {
		e.ApplicationPeriodEnds = *r.ApplicationPeriodEnds
	}
	if r.Starts != nil {
		e.Starts = *r.Starts
	}
	if r.Ends != nil {
		e.Ends = *r.Ends
	}
	if r.Fee != nil {
		e.Fee = *r.Fee
	}
	if r.Questions != nil {
		e.Questions = append([]string(nil), (*r.Questions)...)
	}
}
