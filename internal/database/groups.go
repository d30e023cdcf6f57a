package database

import (
	"context"
	"errors"
	"serwer-kont/internal/models"

	"github.com/jackc/pgx/v5"
)

var ErrGroupNotFound = errors.New("group not found")

func (q *Queries) GetGroupByUID(ctx context.Context, uid string) (*models.Group, error) {
	query := `SELECT id, uid, name, created_at FROM groups WHERE uid = $1`
	var group models.Group
	err := q.db.QueryRow(ctx, query, uid).Scan(&group.ID, &group.UID, &group.Name, &group.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// AddUsersToGroup enrolls the named users in the group with the given uid.
// Re-adding an existing member is a no-op, so a retried provisioning run
// that already completed this step does not fail.
func (q *Queries) AddUsersToGroup(ctx context.Context, groupUID string, usernames []string) error {
	group, err := q.GetGroupByUID(ctx, groupUID)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}

	query := `
		INSERT INTO group_members (group_id, user_id)
		SELECT $1, u.id FROM users u WHERE u.username = ANY($2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	_, err = q.db.Exec(ctx, query, group.ID, usernames)
	return err
}

func (q *Queries) IsGroupMember(ctx context.Context, groupUID string, userID int64) (bool, error) {
	var member bool
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM group_members m
			JOIN groups g ON g.id = m.group_id
			WHERE g.uid = $1 AND m.user_id = $2
		)
	`
	err := q.db.QueryRow(ctx, query, groupUID, userID).Scan(&member)
	return member, err
}
