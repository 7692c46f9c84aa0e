package models

import (
	"time"

	"eventreg/pkg/domain"
)

type MembersListID int64

// Member is one row of a body's members list as uploaded by its board.
type Member struct {
	UserID    domain.UserID `json:"user_id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Fee       float64       `json:"fee"`
}

// MembersList is a body's membership roster for an Agora, used to check
// membership fees. At most one exists per (event, body).
type MembersList struct {
	ID        MembersListID  `json:"id"`
	EventID   domain.EventID `json:"event_id"`
	BodyID    domain.BodyID  `json:"body_id"`
	UserID    domain.UserID  `json:"user_id"`
	Currency  string         `json:"currency"`
	Members   []Member       `json:"members"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
