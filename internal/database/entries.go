package database

import (
	"context"
	"errors"
	"fmt"
	"serwer-kont/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jaevor/go-nanoid"
)

// Standard folder set every account starts with, matching what the desktop
// shell expects to find under the home directory.
var defaultEntryNames = []string{"Desktop", "Documents", "Pictures", "Videos", "Public"}

const homeEntryName = "home"

func newEntryID() (string, error) {
	generateID, err := nanoid.Standard(21)
	if err != nil {
		return "", err
	}
	return generateID(), nil
}

// GenerateDefaultEntries creates the user's home directory entry and its
// standard subfolders. Calling it again for the same user is a no-op, which
// lets a retried provisioning run finish a half-initialized account.
func (q *Queries) GenerateDefaultEntries(ctx context.Context, ownerID int64) error {
	home, err := q.getRootEntry(ctx, ownerID)
	if err != nil {
		return err
	}

	if home == nil {
		id, err := newEntryID()
		if err != nil {
			return fmt.Errorf("failed to generate entry id: %w", err)
		}
		query := `
			INSERT INTO entries (id, owner_id, parent_id, name, entry_type)
			VALUES ($1, $2, NULL, $3, 'folder')
			ON CONFLICT (owner_id, name) WHERE parent_id IS NULL DO NOTHING
		`
		if _, err := q.db.Exec(ctx, query, id, ownerID, homeEntryName); err != nil {
			return err
		}
		home, err = q.getRootEntry(ctx, ownerID)
		if err != nil {
			return err
		}
		if home == nil {
			return errors.New("home entry missing after insert")
		}
	}

	for _, name := range defaultEntryNames {
		id, err := newEntryID()
		if err != nil {
			return fmt.Errorf("failed to generate entry id: %w", err)
		}
		query := `
			INSERT INTO entries (id, owner_id, parent_id, name, entry_type)
			VALUES ($1, $2, $3, $4, 'folder')
			ON CONFLICT (owner_id, parent_id, name) DO NOTHING
		`
		if _, err := q.db.Exec(ctx, query, id, ownerID, home.ID, name); err != nil {
			return err
		}
	}

	return nil
}

func (q *Queries) getRootEntry(ctx context.Context, ownerID int64) (*models.Entry, error) {
	query := `
		SELECT id, owner_id, parent_id, name, entry_type, created_at
		FROM entries
		WHERE owner_id = $1 AND parent_id IS NULL AND name = $2
	`
	var entry models.Entry
	err := q.db.QueryRow(ctx, query, ownerID, homeEntryName).Scan(
		&entry.ID,
		&entry.OwnerID,
		&entry.ParentID,
		&entry.Name,
		&entry.EntryType,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (q *Queries) ListEntriesForUser(ctx context.Context, ownerID int64) ([]models.Entry, error) {
	query := `
		SELECT id, owner_id, parent_id, name, entry_type, created_at
		FROM entries
		WHERE owner_id = $1
		ORDER BY parent_id NULLS FIRST, name
	`
	rows, err := q.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var entry models.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.ParentID,
			&entry.Name,
			&entry.EntryType,
			&entry.CreatedAt,
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
		return []models.Entry{}, nil
	}

	return entries, nil
}
