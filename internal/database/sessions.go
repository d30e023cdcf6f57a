package database

import (
	"context"
	"errors"
	"serwer-kont/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CreateSessionParams struct {
	ID        uuid.UUID
	UserID    int64
	Token     string
	UserAgent string
	ClientIP  string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) error {
	query := `
		INSERT INTO sessions (id, user_id, token, user_agent, client_ip, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := q.db.Exec(ctx, query, arg.ID, arg.UserID, arg.Token, arg.UserAgent, arg.ClientIP, arg.ExpiresAt)
	return err
}

// SessionTokenAlive reports whether a session row for this token exists and
// has not expired. A deleted row revokes the token even if its signature is
// still valid.
func (q *Queries) SessionTokenAlive(ctx context.Context, token string) (bool, error) {
	var alive bool
	query := `SELECT EXISTS(SELECT 1 FROM sessions WHERE token = $1 AND expires_at > NOW())`
	err := q.db.QueryRow(ctx, query, token).Scan(&alive)
	return alive, err
}

func (q *Queries) GetUserBySessionToken(ctx context.Context, token string) (*models.User, error) {
	query := `
		SELECT
			u.id, u.uuid, u.username, u.wallet_address, u.email, u.email_confirmed, u.password_hash,
			u.free_storage, u.taskbar_items, u.referral_code, u.audit_metadata,
			u.signup_ip, u.signup_ip_forwarded, u.signup_user_agent, u.signup_origin, u.signup_server,
			u.chain_id, u.created_at, u.last_activity_at
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW()
	`
	return scanUser(q.db.QueryRow(ctx, query, token))
}

func (q *Queries) ListSessionsForUser(ctx context.Context, userID int64) ([]models.Session, error) {
	query := `
		SELECT id, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY created_at DESC
	`
	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserAgent,
			&session.ClientIP,
			&session.ExpiresAt,
			&session.CreatedAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if sessions == nil {
		return []models.Session{}, nil
	}

	return sessions, nil
}

func (q *Queries) DeleteSessionByID(ctx context.Context, sessionID uuid.UUID, userID int64) error {
	query := `DELETE FROM sessions WHERE id = $1 AND user_id = $2`
	_, err := q.db.Exec(ctx, query, sessionID, userID)
	return err
}

func (q *Queries) DeleteAllSessionsForUser(ctx context.Context, userID int64) error {
	query := `DELETE FROM sessions WHERE user_id = $1`
	_, err := q.db.Exec(ctx, query, userID)
	return err
}

func (q *Queries) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, user_agent, client_ip, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`
	var session models.Session
	err := q.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserAgent,
		&session.ClientIP,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}
