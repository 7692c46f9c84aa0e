package store

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
)

type eventRow struct {
	ID                      int64          `db:"id"`
	URL                     sql.NullString `db:"url"`
	Name                    string         `db:"name"`
	Description             string         `db:"description"`
	Type                    string         `db:"type"`
	Status                  string         `db:"status"`
	BodyID                  int64          `db:"body_id"`
	ApplicationPeriodStarts time.Time      `db:"application_period_starts"`
	ApplicationPeriodEnds   time.Time      `db:"application_period_ends"`
	Starts                  time.Time      `db:"starts"`
	Ends                    time.Time      `db:"ends"`
	Fee                     float64        `db:"fee"`
	Questions               pq.StringArray `db:"questions"`
	CreatedAt               time.Time      `db:"created_at"`
	UpdatedAt               time.Time      `db:"updated_at"`
}

const eventColumns = `id, url, name, description, type, status, body_id,
	application_period_starts, application_period_ends, starts, ends,
	fee, questions, created_at, updated_at`

func (r eventRow) toModel() *models.Event {
	return &models.Event{
		ID:                      domain.EventID(r.ID),
		URL:                     r.URL.String,
		Name:                    r.Name,
		Description:             r.Description,
		Type:                    models.EventType(r.Type),
		Status:                  models.EventStatus(r.Status),
		BodyID:                  domain.BodyID(r.BodyID),
		ApplicationPeriodStarts: r.ApplicationPeriodStarts,
		ApplicationPeriodEnds:   r.ApplicationPeriodEnds,
		Starts:                  r.Starts,
		Ends:                    r.Ends,
		Fee:                     r.Fee,
		Questions:               []string(r.Questions),
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}

func eventRowFrom(e *models.Event) eventRow {
	status := e.Status
	if status == "" {
		status = models.EventStatusDraft
	}
	return eventRow{
		ID:                      int64(e.ID),
		URL:                     sql.NullString{String: e.URL, Valid: e.URL != ""},
		Name:                    e.Name,
		Description:             e.Description,
		Type:                    string(e.Type),
		Status:                  string(status),
		BodyID:                  int64(e.BodyID),
		ApplicationPeriodStarts: e.ApplicationPeriodStarts,
		ApplicationPeriodEnds:   e.ApplicationPeriodEnds,
		Starts:                  e.Starts,
		Ends:                    e.Ends,
		Fee:                     e.Fee,
		Questions:               nonNil(e.Questions),
		CreatedAt:               e.CreatedAt,
		UpdatedAt:               e.UpdatedAt,
	}
}

type applicationRow struct {
	ID               int64          `db:"id"`
	EventID          int64          `db:"event_id"`
	UserID           int64          `db:"user_id"`
	BodyID           int64          `db:"body_id"`
	BodyName         string         `db:"body_name"`
	FirstName        string         `db:"first_name"`
	LastName         string         `db:"last_name"`
	Email            string         `db:"email"`
	ParticipantType  sql.NullString `db:"participant_type"`
	ParticipantOrder sql.NullInt64  `db:"participant_order"`
	Confirmed        bool           `db:"confirmed"`
	Attended         bool           `db:"attended"`
	Cancelled        bool           `db:"cancelled"`
	Status           string         `db:"status"`
	Answers          pq.StringArray `db:"answers"`
	BoardComment     string         `db:"board_comment"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

const applicationColumns = `id, event_id, user_id, body_id, body_name, first_name, last_name, email,
	participant_type, participant_order, confirmed, attended, cancelled, status,
	answers, board_comment, created_at, updated_at`

func (r applicationRow) toModel() *models.Application {
	a := &models.Application{
		ID:              domain.ApplicationID(r.ID),
		EventID:         domain.EventID(r.EventID),
		UserID:          domain.UserID(r.UserID),
		BodyID:          domain.BodyID(r.BodyID),
		BodyName:        r.BodyName,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		ParticipantType: models.ParticipantType(r.ParticipantType.String),
		Confirmed:       r.Confirmed,
		Attended:        r.Attended,
		Cancelled:       r.Cancelled,
		Status:          models.ApplicationStatus(r.Status),
		Answers:         []string(r.Answers),
		BoardComment:    r.BoardComment,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.ParticipantOrder.Valid {
		order := int(r.ParticipantOrder.Int64)
		a.ParticipantOrder = &order
	}
	return a
}

func applicationRowFrom(a *models.Application) applicationRow {
	status := a.Status
	if status == "" {
		status = models.ApplicationPending
	}
	r := applicationRow{
		ID:              int64(a.ID),
		EventID:         int64(a.EventID),
		UserID:          int64(a.UserID),
		BodyID:          int64(a.BodyID),
		BodyName:        a.BodyName,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		Email:           a.Email,
		ParticipantType: sql.NullString{String: string(a.ParticipantType), Valid: a.ParticipantType != models.ParticipantNone},
		Confirmed:       a.Confirmed,
		Attended:        a.Attended,
		Cancelled:       a.Cancelled,
		Status:          string(status),
		Answers:         nonNil(a.Answers),
		BoardComment:    a.BoardComment,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.ParticipantOrder != nil {
		r.ParticipantOrder = sql.NullInt64{Int64: int64(*a.ParticipantOrder), Valid: true}
	}
	return r
}

// memberRows stores a members slice in a JSONB column.
type memberRows []models.Member

func (m memberRows) Value() (driver.Value, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]models.Member(m))
}

func (m *memberRows) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan members: unsupported type %T", src)
	}
	return json.Unmarshal(raw, (*[]models.Member)(m))
}

type membersListRow struct {
	ID        int64      `db:"id"`
	EventID   int64      `db:"event_id"`
	BodyID    int64      `db:"body_id"`
	UserID    int64      `db:"user_id"`
	Currency  string     `db:"currency"`
	Members   memberRows `db:"members"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

const membersListColumns = `id, event_id, body_id, user_id, currency, members, created_at, updated_at`

func (r membersListRow) toModel() *models.MembersList {
	return &models.MembersList{
		ID:        models.MembersListID(r.ID),
		EventID:   domain.EventID(r.EventID),
		BodyID:    domain.BodyID(r.BodyID),
		UserID:    domain.UserID(r.UserID),
		Currency:  r.Currency,
		Members:   []models.Member(r.Members),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type paxLimitRow struct {
	BodyID    int64     `db:"body_id"`
	EventType string    `db:"event_type"`
	Delegate  int       `db:"delegate"`
	Envoy     int       `db:"envoy"`
	Visitor   int       `db:"visitor"`
	Observer  int       `db:"observer"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r paxLimitRow) toModel() *models.PaxLimit {
	return &models.PaxLimit{
		BodyID:    domain.BodyID(r.BodyID),
		EventType: models.EventType(r.EventType),
		Limits: models.Limits{
			Delegate: r.Delegate,
			Envoy:    r.Envoy,
			Visitor:  r.Visitor,
			Observer: r.Observer,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func nonNil(s []string) pq.StringArray {
	if s == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(s)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
