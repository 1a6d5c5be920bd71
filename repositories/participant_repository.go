package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/bracketforge/tournament-system/models"
)

var (
	ErrParticipantNotFound          = errors.New("participant not found")
	ErrParticipantConflict          = errors.New("participant already registered")
	ErrParticipantSeedConflict      = errors.New("participant seed already taken")
	ErrParticipantTournamentInvalid = errors.New("participant tournament conflict or invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
	UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error
	UpdateSeed(ctx context.Context, id int, seedOrder *int) error
	Delete(ctx context.Context, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, tournament_id, user_id, display_name, seed_order, status, created_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (tournament_id, user_id, display_name, seed_order, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.TournamentID,
		p.UserID,
		p.DisplayName,
		p.SeedOrder,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)

	return handleParticipantError(err)
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1 ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, id int, status models.ParticipantStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateSeed(ctx context.Context, id int, seedOrder *int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE participants SET seed_order = $1 WHERE id = $2`, seedOrder, id)
	if err != nil {
		return handleParticipantError(err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func handleParticipantError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == "participants_tournament_user_key":
			return ErrParticipantConflict
		case pqErr.Code == "23505" && pqErr.Constraint == "participants_tournament_seed_key":
			return ErrParticipantSeedConflict
		case pqErr.Code == "23503" && pqErr.Constraint == "participants_tournament_id_fkey":
			return ErrParticipantTournamentInvalid
		}
	}
	return err
}

func scanParticipant(row rowScanner) (*models.Participant, error) {
	p := &models.Participant{}
	err := row.Scan(
		&p.ID,
		&p.TournamentID,
		&p.UserID,
		&p.DisplayName,
		&p.SeedOrder,
		&p.Status,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
