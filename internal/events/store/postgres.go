package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"eventreg/internal/events/models"
	"eventreg/pkg/domain"
	"eventreg/pkg/platform/sentinel"
	platformtx "eventreg/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// ApplySchema creates the tables when they do not exist yet.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// PostgresStore persists events, applications, members lists and pax limits.
// It is pure I/O; every rule lives in the service.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// translate maps constraint violations onto store sentinels.
func translate(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
		case "23503":
			return fmt.Errorf("%s: %w", op, sentinel.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, e *models.Event) error {
	stamp(&e.CreatedAt, &e.UpdatedAt)
	row := eventRowFrom(e)
	query := `
		INSERT INTO events (url, name, description, type, status, body_id,
			application_period_starts, application_period_ends, starts, ends,
			fee, questions, created_at, updated_at)
		VALUES (:url, :name, :description, :type, :status, :body_id,
			:application_period_starts, :application_period_ends, :starts, :ends,
			:fee, :questions, :created_at, :updated_at)
		RETURNING id`
	rows, err := s.db.NamedQueryContext(ctx, query, row)
	if err != nil {
		return translate(err, "create event")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&e.ID); err != nil {
			return fmt.Errorf("create event: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return translate(err, "create event")
	}
	e.Status = models.EventStatus(row.Status)
	return nil
}

func (s *PostgresStore) FindEvent(ctx context.Context, ref models.EventRef) (*models.Event, error) {
	var (
		row eventRow
		err error
	)
	switch {
	case ref.ID != 0:
		err = s.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE id = $1`, int64(ref.ID))
	case ref.URL != "":
		err = s.db.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE url = $1`, ref.URL)
	default:
		return nil, sentinel.ErrNotFound
	}
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find event: %w", err)
	}
	return row.toModel(), nil
}

// ExecuteEvent locks the row with SELECT ... FOR UPDATE, runs validate and
// mutate and writes the editable columns back in the same transaction.
func (s *PostgresStore) ExecuteEvent(ctx context.Context, id domain.EventID, validate func(*models.Event) error, mutate func(*models.Event)) (*models.Event, error) {
	var out *models.Event
	err := platformtx.Run(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var row eventRow
		err := tx.GetContext(ctx, &row, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, int64(id))
		if isNoRows(err) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}

		event := row.toModel()
		if err := validate(event); err != nil {
			return err
		}
		mutate(event)

		update := eventRowFrom(event)
		_, err = tx.NamedExecContext(ctx, `
			UPDATE events SET
				url = :url, name = :name, description = :description,
				application_period_starts = :application_period_starts,
				application_period_ends = :application_period_ends,
				starts = :starts, ends = :ends, fee = :fee,
				questions = :questions, updated_at = :updated_at
			WHERE id = :id`, update)
		if err != nil {
			return translate(err, "update event")
		}
		out = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) CreateApplication(ctx context.Context, a *models.Application) error {
	stamp(&a.CreatedAt, &a.UpdatedAt)
	row := applicationRowFrom(a)
	query := `
		INSERT INTO applications (event_id, user_id, body_id, body_name, first_name, last_name, email,
			participant_type, participant_order, confirmed, attended, cancelled, status,
			answers, board_comment, created_at, updated_at)
		VALUES (:event_id, :user_id, :body_id, :body_name, :first_name, :last_name, :email,
			:participant_type, :participant_order, :confirmed, :attended, :cancelled, :status,
			:answers, :board_comment, :created_at, :updated_at)
		RETURNING id`
	rows, err := s.db.NamedQueryContext(ctx, query, row)
	if err != nil {
		return translate(err, "create application")
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&a.ID); err != nil {
			return fmt.Errorf("create application: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return translate(err, "create application")
	}
	a.Status = models.ApplicationStatus(row.Status)
	return nil
}

func (s *PostgresStore) FindApplication(ctx context.Context, eventID domain.EventID, id domain.ApplicationID) (*models.Application, error) {
	var row applicationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND event_id = $2`,
		int64(id), int64(eventID))
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) FindApplicationByUser(ctx context.Context, eventID domain.EventID, userID domain.UserID) (*models.Application, error) {
	var row applicationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+applicationColumns+` FROM applications WHERE event_id = $1 AND user_id = $2`,
		int64(eventID), int64(userID))
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find application by user: %w", err)
	}
	return row.toModel(), nil
}

// ListApplications returns matches ordered by id.
func (s *PostgresStore) ListApplications(ctx context.Context, eventID domain.EventID, filter models.ApplicationFilter) ([]*models.Application, error) {
	conds := []string{"event_id = ?"}
	args := []any{int64(eventID)}
	if filter.BodyID != nil {
		conds = append(conds, "body_id = ?")
		args = append(args, int64(*filter.BodyID))
	}
	if filter.Cancelled != nil {
		conds = append(conds, "cancelled = ?")
		args = append(args, *filter.Cancelled)
	}
	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	query := s.db.Rebind(`SELECT ` + applicationColumns + ` FROM applications WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY id`)

	var rows []applicationRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	out := make([]*models.Application, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// ExecuteApplication locks the application row for the read-modify-write so
// concurrent attendance updates serialize.
func (s *PostgresStore) ExecuteApplication(ctx context.Context, eventID domain.EventID, id domain.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error) {
	var out *models.Application
	err := platformtx.Run(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var row applicationRow
		err := tx.GetContext(ctx, &row,
			`SELECT `+applicationColumns+` FROM applications WHERE id = $1 AND event_id = $2 FOR UPDATE`,
			int64(id), int64(eventID))
		if isNoRows(err) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock application: %w", err)
		}

		app := row.toModel()
		if err := validate(app); err != nil {
			return err
		}
		mutate(app)

		_, err = tx.NamedExecContext(ctx, `
			UPDATE applications SET
				participant_type = :participant_type, participant_order = :participant_order,
				confirmed = :confirmed, attended = :attended, cancelled = :cancelled,
				status = :status, answers = :answers, board_comment = :board_comment,
				updated_at = :updated_at
			WHERE id = :id`, applicationRowFrom(app))
		if err != nil {
			return translate(err, "update application")
		}
		out = app
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PostgresStore) CreateMembersList(ctx context.Context, l *models.MembersList) error {
	stamp(&l.CreatedAt, &l.UpdatedAt)
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO memberslists (event_id, body_id, user_id, currency, members, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		int64(l.EventID), int64(l.BodyID), int64(l.UserID), l.Currency, memberRows(l.Members), l.CreatedAt, l.UpdatedAt,
	).Scan(&l.ID)
	if err != nil {
		return translate(err, "create members list")
	}
	return nil
}

func (s *PostgresStore) FindMembersList(ctx context.Context, eventID domain.EventID, bodyID domain.BodyID) (*models.MembersList, error) {
	var row membersListRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+membersListColumns+` FROM memberslists WHERE event_id = $1 AND body_id = $2`,
		int64(eventID), int64(bodyID))
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find members list: %w", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListMembersLists(ctx context.Context, eventID domain.EventID) ([]*models.MembersList, error) {
	var rows []membersListRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+membersListColumns+` FROM memberslists WHERE event_id = $1 ORDER BY body_id`,
		int64(eventID))
	if err != nil {
		return nil, fmt.Errorf("list members lists: %w", err)
	}
	out := make([]*models.MembersList, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

func (s *PostgresStore) FindPaxLimit(ctx context.Context, eventType models.EventType, bodyID domain.BodyID) (*models.PaxLimit, error) {
	var row paxLimitRow
	err := s.db.GetContext(ctx, &row, `
		SELECT body_id, event_type, delegate, envoy, visitor, observer, created_at, updated_at
		FROM pax_limits WHERE event_type = $1 AND body_id = $2`,
		string(eventType), int64(bodyID))
	if isNoRows(err) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find pax limit: %w", err)
	}
	return row.toModel(), nil
}

// UpsertPaxLimit keeps created_at of an existing row.
func (s *PostgresStore) UpsertPaxLimit(ctx context.Context, limit *models.PaxLimit) error {
	stamp(&limit.CreatedAt, &limit.UpdatedAt)
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO pax_limits (body_id, event_type, delegate, envoy, visitor, observer, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (body_id, event_type) DO UPDATE SET
			delegate = EXCLUDED.delegate,
			envoy = EXCLUDED.envoy,
			visitor = EXCLUDED.visitor,
			observer = EXCLUDED.observer,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at`,
		int64(limit.BodyID), string(limit.EventType),
		limit.Delegate, limit.Envoy, limit.Visitor, limit.Observer,
		limit.CreatedAt, limit.UpdatedAt,
	).Scan(&limit.CreatedAt)
	if err != nil {
		return translate(err, "upsert pax limit")
	}
	limit.Default = false
	return nil
}

// ClearAll deletes members lists, applications, events and pax limits, in
// that order, in one transaction.
func (s *PostgresStore) ClearAll(ctx context.Context) error {
	return platformtx.Run(ctx, s.db, func(ctx context.Context, tx *sqlx.Tx) error {
		for _, table := range []string{"memberslists", "applications", "events", "pax_limits"} {
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}
