package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// RecordAuthAttemptParams captures one authentication attempt. UserID is nil
// when the attempt happens before (or without) a resolved account.
type RecordAuthAttemptParams struct {
	UserID    *int64
	Requester interface{}
	Action    string
	Body      json.RawMessage
}

// RecordAuthAttempt appends to the auth audit journal and returns the new
// row's id. The journal is append-only; the only later mutation allowed is
// attributing an anonymous row to the user it resolved to.
func (q *Queries) RecordAuthAttempt(ctx context.Context, arg RecordAuthAttemptParams) (int64, error) {
	requesterBytes, err := json.Marshal(arg.Requester)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal requester context: %w", err)
	}

	body := arg.Body
	if len(body) == 0 {
		body = json.RawMessage("{}")
	}

	query := `INSERT INTO auth_audit (user_id, requester, action, body) VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err = q.db.QueryRow(ctx, query, arg.UserID, requesterBytes, arg.Action, body).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

type AuditEntry struct {
	ID        int64           `json:"id"`
	Action    string          `json:"action"`
	EventTime time.Time       `json:"event_time"`
	Requester json.RawMessage `json:"requester"`
}

func (q *Queries) ListAuditSince(ctx context.Context, userID int64, sinceID int64) ([]AuditEntry, error) {
	query := `
		SELECT id, action, event_time, requester
		FROM auth_audit
		WHERE user_id = $1 AND id > $2
		ORDER BY id ASC
		LIMIT 100
	`
	rows, err := q.db.Query(ctx, query, userID, sinceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var entry AuditEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entry.EventTime,
			&entry.Requester,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	if entries == nil {
		return []AuditEntry{}, nil
	}

	return entries, nil
}

// AttributeAuditToUser backfills the user id on journal rows written before
// the account was resolved, so repeat logins show up in the user's history.
func (q *Queries) AttributeAuditToUser(ctx context.Context, auditID int64, userID int64) error {
	query := `UPDATE auth_audit SET user_id = $1 WHERE id = $2 AND user_id IS NULL`
	_, err := q.db.Exec(ctx, query, userID, auditID)
	return err
}

func (q *Queries) CountAuditRows(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM auth_audit`).Scan(&count)
	return count, err
}
