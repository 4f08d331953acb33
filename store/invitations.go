package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventura-api/models"
	"eventura-api/utils"
)

type PostgresInvitationStore struct {
	db *sql.DB
}

func NewInvitationStore(db *sql.DB) *PostgresInvitationStore {
	return &PostgresInvitationStore{db: db}
}

func (s *PostgresInvitationStore) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, project_id, project_name, inviter_email, inviter_name,
		                         invitee_email, status, token, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		inv.ID, inv.ProjectID, inv.ProjectName, inv.InviterEmail, inv.InviterName,
		inv.InviteeEmail, inv.Status, inv.Token, inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt)

	// Two concurrent sends race past the pre-check; the partial unique index
	// on (project_id, invitee_email) WHERE status='pending' picks one winner.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "idx_invitations_single_pending" {
		return ErrDuplicatePending
	}

	return err
}

func (s *PostgresInvitationStore) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	query := `
		SELECT id, project_id, project_name, inviter_email, inviter_name,
		       invitee_email, status, token, expires_at, created_at, updated_at
		FROM invitations
		WHERE token = $1
	`
	inv, err := scanInvitation(s.db.QueryRowContext(ctx, query, token))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return inv, err
}

func (s *PostgresInvitationStore) ListForInvitee(ctx context.Context, email string) ([]models.Invitation, error) {
	query := `
		SELECT id, project_id, project_name, inviter_email, inviter_name,
		       invitee_email, status, token, expires_at, created_at, updated_at
		FROM invitations
		WHERE invitee_email = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		var inviterName sql.NullString
		err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.ProjectName, &inv.InviterEmail, &inviterName,
			&inv.InviteeEmail, &inv.Status, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
		if err != nil {
			return nil, err
		}
		inv.InviterName = inviterName.String
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

func (s *PostgresInvitationStore) HasPending(ctx context.Context, projectID, inviteeEmail string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE project_id = $1 AND invitee_email = $2 AND status = 'pending'
		)
	`, projectID, inviteeEmail).Scan(&exists)
	return exists, err
}

// MarkStatus is the conditional write guarding the state machine: only a
// pending invitation transitions, and only one concurrent caller wins.
func (s *PostgresInvitationStore) MarkStatus(ctx context.Context, token, status string) error {
	query := `
		UPDATE invitations
		SET status = $2, updated_at = NOW()
		WHERE token = $1 AND status = 'pending'
	`
	result, err := s.db.ExecContext(ctx, query, token, status)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

// AcceptAndJoin claims the invitation and applies the membership side
// effects in a single transaction, so a rejected claim never mutates the
// project and a successful claim never leaves the member half-added.
func (s *PostgresInvitationStore) AcceptAndJoin(ctx context.Context, token, projectID string, m models.Member) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE invitations
			SET status = 'accepted', updated_at = NOW()
			WHERE token = $1 AND status = 'pending'
		`, token)
		if err != nil {
			return err
		}
		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			return ErrNotPending
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO project_members (project_id, user_email, role, added_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (project_id, user_email) DO NOTHING
		`, projectID, m.UserID, m.Role, m.AddedAt); err != nil {
			return err
		}

		// No-op when the user record does not exist yet.
		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET projects = projects || to_jsonb($2::text), updated_at = NOW()
			WHERE email = $1 AND NOT (projects ? $2)
		`, m.UserID, projectID)
		return err
	})
}

func (s *PostgresInvitationStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var inv models.Invitation
	var inviterName sql.NullString
	err := row.Scan(&inv.ID, &inv.ProjectID, &inv.ProjectName, &inv.InviterEmail, &inviterName,
		&inv.InviteeEmail, &inv.Status, &inv.Token, &inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.InviterName = inviterName.String
	return &inv, nil
}
