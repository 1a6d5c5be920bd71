package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/bracketforge/tournament-system/models"
)

var (
	ErrTournamentNotFound         = errors.New("tournament not found")
	ErrTournamentNameConflict     = errors.New("tournament name conflict")
	ErrTournamentOrganizerInvalid = errors.New("tournament organizer invalid")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus, organizerID *int) ([]*models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	ListDueForStatus(ctx context.Context, current models.TournamentStatus, dateColumn string) ([]*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, name, description, organizer_id, reg_date, start_date, end_date, status, max_participants, logo_key, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, description, organizer_id, reg_date, start_date, end_date, status, max_participants)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name,
		t.Description,
		t.OrganizerID,
		t.RegDate,
		t.StartDate,
		t.EndDate,
		t.Status,
		t.MaxParticipants,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, status *models.TournamentStatus, organizerID *int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`
	args := []interface{}{}
	if status != nil {
		args = append(args, *status)
		query += ` AND status = $1`
	}
	if organizerID != nil {
		args = append(args, *organizerID)
		if len(args) == 1 {
			query += ` AND organizer_id = $1`
		} else {
			query += ` AND organizer_id = $2`
		}
	}
	query += ` ORDER BY start_date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTournaments(rows)
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET name = $1, description = $2, reg_date = $3, start_date = $4,
		    end_date = $5, max_participants = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		t.Name,
		t.Description,
		t.RegDate,
		t.StartDate,
		t.EndDate,
		t.MaxParticipants,
		t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ListDueForStatus returns tournaments still in the given status whose
// date column has passed, used by the status scheduler. The column name
// is restricted to known values to keep the query safe.
func (r *postgresTournamentRepository) ListDueForStatus(ctx context.Context, current models.TournamentStatus, dateColumn string) ([]*models.Tournament, error) {
	switch dateColumn {
	case "reg_date", "start_date", "end_date":
	default:
		return nil, errors.New("unsupported date column: " + dateColumn)
	}

	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE status = $1 AND ` + dateColumn + ` <= NOW()`
	rows, err := r.db.QueryContext(ctx, query, current)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTournaments(rows)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch {
		case pqErr.Code == "23505" && pqErr.Constraint == "tournaments_name_key":
			return ErrTournamentNameConflict
		case pqErr.Code == "23503" && pqErr.Constraint == "tournaments_organizer_id_fkey":
			return ErrTournamentOrganizerInvalid
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTournament(row rowScanner) (*models.Tournament, error) {
	t := &models.Tournament{}
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Description,
		&t.OrganizerID,
		&t.RegDate,
		&t.StartDate,
		&t.EndDate,
		&t.Status,
		&t.MaxParticipants,
		&t.LogoKey,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func collectTournaments(rows *sql.Rows) ([]*models.Tournament, error) {
	var out []*models.Tournament
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
