package database

import (
	"context"
	"encoding/json"
	"errors"
	"serwer-kont/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUserExists signals a unique-constraint violation on the users table
// (wallet address, username or uuid). Two concurrent first logins with the
// same wallet address race to insert; exactly one wins and the loser sees
// this error and must re-run the lookup.
var ErrUserExists = errors.New("a user with this wallet address or username already exists")

const userColumns = `
	id, uuid, username, wallet_address, email, email_confirmed, password_hash,
	free_storage, taskbar_items, referral_code, audit_metadata,
	signup_ip, signup_ip_forwarded, signup_user_agent, signup_origin, signup_server,
	chain_id, created_at, last_activity_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.UUID,
		&user.Username,
		&user.WalletAddress,
		&user.Email,
		&user.EmailConfirmed,
		&user.PasswordHash,
		&user.FreeStorage,
		&user.TaskbarItems,
		&user.ReferralCode,
		&user.AuditMetadata,
		&user.SignupIP,
		&user.SignupIPForwarded,
		&user.SignupUserAgent,
		&user.SignupOrigin,
		&user.SignupServer,
		&user.ChainID,
		&user.CreatedAt,
		&user.LastActivityAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByWalletAddress looks a user up by their lower-cased wallet address.
// The query always goes to the database; the caller relies on seeing the
// latest committed state, not a cached row.
func (q *Queries) GetUserByWalletAddress(ctx context.Context, address string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE wallet_address = $1`
	return scanUser(q.db.QueryRow(ctx, query, address))
}

func (q *Queries) GetUserByUUID(ctx context.Context, userUUID uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uuid = $1`
	return scanUser(q.db.QueryRow(ctx, query, userUUID))
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(q.db.QueryRow(ctx, query, username))
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.db.QueryRow(ctx, query, id))
}

func (q *Queries) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`
	err := q.db.QueryRow(ctx, query, username).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

type CreateUserParams struct {
	UUID              uuid.UUID
	Username          string
	WalletAddress     *string
	FreeStorage       int64
	TaskbarItems      json.RawMessage
	AuditMetadata     json.RawMessage
	SignupIP          *string
	SignupIPForwarded *string
	SignupUserAgent   *string
	SignupOrigin      *string
	SignupServer      *string
	ChainID           *string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (int64, error) {
	query := `
		INSERT INTO users (
			uuid, username, wallet_address, free_storage, taskbar_items,
			audit_metadata, signup_ip, signup_ip_forwarded, signup_user_agent,
			signup_origin, signup_server, chain_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id int64
	err := q.db.QueryRow(ctx, query,
		arg.UUID,
		arg.Username,
		arg.WalletAddress,
		arg.FreeStorage,
		arg.TaskbarItems,
		arg.AuditMetadata,
		arg.SignupIP,
		arg.SignupIPForwarded,
		arg.SignupUserAgent,
		arg.SignupOrigin,
		arg.SignupServer,
		arg.ChainID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrUserExists
		}
		return 0, err
	}

	return id, nil
}

func (q *Queries) TouchLastActivity(ctx context.Context, id int64) error {
	query := `UPDATE users SET last_activity_at = now() WHERE id = $1`
	_, err := q.db.Exec(ctx, query, id)
	return err
}

func (q *Queries) GetTaskbarItems(ctx context.Context, userID int64) (json.RawMessage, error) {
	var items json.RawMessage
	query := `SELECT taskbar_items FROM users WHERE id = $1`
	err := q.db.QueryRow(ctx, query, userID).Scan(&items)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return items, nil
}

// ClaimReferralCode sets the user's referral code if they don't have one yet
// and returns whatever code the row ends up with. Concurrent claims are
// resolved by the conditional update; the loser reads the winner's code.
func (q *Queries) ClaimReferralCode(ctx context.Context, userID int64, code string) (string, error) {
	query := `
		UPDATE users SET referral_code = $1
		WHERE id = $2 AND referral_code IS NULL
		RETURNING referral_code
	`
	var claimed string
	err := q.db.QueryRow(ctx, query, code, userID).Scan(&claimed)
	if err == nil {
		return claimed, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	var existing *string
	err = q.db.QueryRow(ctx, `SELECT referral_code FROM users WHERE id = $1`, userID).Scan(&existing)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", errors.New("referral code not set")
	}
	return *existing, nil
}

func (q *Queries) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	_, err := q.db.Exec(ctx, query, newPasswordHash, userID)
	return err
}
