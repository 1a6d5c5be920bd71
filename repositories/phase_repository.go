package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/bracketforge/tournament-system/models"
)

var (
	ErrPhaseNotFound          = errors.New("phase not found")
	ErrPhaseTournamentInvalid = errors.New("phase tournament conflict or invalid")
)

type PhaseRepository interface {
	Create(ctx context.Context, phase *models.Phase) error
	GetByID(ctx context.Context, id int) (*models.Phase, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Phase, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PhaseStatus) error
	SetBracketLocked(ctx context.Context, exec SQLExecutor, id int, locked bool) error
	Delete(ctx context.Context, id int) error
}

type postgresPhaseRepository struct {
	db *sql.DB
}

func NewPostgresPhaseRepository(db *sql.DB) PhaseRepository {
	return &postgresPhaseRepository{db: db}
}

const phaseColumns = `id, tournament_id, name, format, size, config_json, status, bracket_locked, created_at`

func (r *postgresPhaseRepository) Create(ctx context.Context, phase *models.Phase) error {
	query := `
		INSERT INTO phases (tournament_id, name, format, size, config_json, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, bracket_locked, created_at`

	err := r.db.QueryRowContext(ctx, query,
		phase.TournamentID,
		phase.Name,
		phase.Format,
		phase.Size,
		phase.ConfigJSON,
		phase.Status,
	).Scan(&phase.ID, &phase.BracketLocked, &phase.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "phases_tournament_id_fkey" {
			return ErrPhaseTournamentInvalid
		}
		return err
	}
	return nil
}

func (r *postgresPhaseRepository) GetByID(ctx context.Context, id int) (*models.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE id = $1`
	phase, err := scanPhase(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPhaseNotFound
		}
		return nil, err
	}
	return phase, nil
}

func (r *postgresPhaseRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE tournament_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Phase
	for rows.Next() {
		phase, err := scanPhase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, phase)
	}
	return out, rows.Err()
}

func (r *postgresPhaseRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.PhaseStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE phases SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhaseNotFound)
}

func (r *postgresPhaseRepository) SetBracketLocked(ctx context.Context, exec SQLExecutor, id int, locked bool) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE phases SET bracket_locked = $1 WHERE id = $2`, locked, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhaseNotFound)
}

func (r *postgresPhaseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM phases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhaseNotFound)
}

func scanPhase(row rowScanner) (*models.Phase, error) {
	phase := &models.Phase{}
	err := row.Scan(
		&phase.ID,
		&phase.TournamentID,
		&phase.Name,
		&phase.Format,
		&phase.Size,
		&phase.ConfigJSON,
		&phase.Status,
		&phase.BracketLocked,
		&phase.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return phase, nil
}
