package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/bracketforge/tournament-system/models"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchPhaseInvalid       = errors.New("match phase conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByPhase(ctx context.Context, phaseID int) ([]*models.Match, error)
	UpdateSlots(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateResult(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error
	DeleteAllByPhase(ctx context.Context, exec SQLExecutor, phaseID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, phase_id, round, sequence, segment,
	slot1_participant_id, slot2_participant_id, slot1_state, slot2_state,
	status, score_slot1, score_slot2, winner_participant_id, loser_participant_id,
	is_draw, is_bye, is_reset_match, created_at`

// CreateBatch inserts a freshly generated bracket. Matches are written in
// slice order so generation order survives round-trips.
func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches
			(phase_id, round, sequence, segment,
			 slot1_participant_id, slot2_participant_id, slot1_state, slot2_state,
			 status, score_slot1, score_slot2, winner_participant_id, loser_participant_id,
			 is_draw, is_bye, is_reset_match)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at`

	for _, m := range matches {
		err := exec.QueryRowContext(ctx, query,
			m.PhaseID,
			m.Round,
			m.Sequence,
			m.Segment,
			m.Slot1ParticipantID,
			m.Slot2ParticipantID,
			m.Slot1State,
			m.Slot2State,
			m.Status,
			m.ScoreSlot1,
			m.ScoreSlot2,
			m.WinnerID,
			m.LoserID,
			m.IsDraw,
			m.IsBye,
			m.IsResetMatch,
		).Scan(&m.ID, &m.CreatedAt)
		if err != nil {
			return handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	m, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

// ListByPhase returns the phase's matches in generation order: segment
// grouping first, then round and sequence, with the reset match after its
// grand final.
func (r *postgresMatchRepository) ListByPhase(ctx context.Context, phaseID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE phase_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, phaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateSlots persists the slot columns after the progression engine
// filled, cleared or closed them.
func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET slot1_participant_id = $1, slot2_participant_id = $2,
		    slot1_state = $3, slot2_state = $4
		WHERE id = $5`

	result, err := exec.ExecContext(ctx, query,
		m.Slot1ParticipantID,
		m.Slot2ParticipantID,
		m.Slot1State,
		m.Slot2State,
		m.ID,
	)
	if err != nil {
		return handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// UpdateResult persists the outcome columns: scores, winner, loser, draw
// and bye flags, and status.
func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches
		SET score_slot1 = $1, score_slot2 = $2,
		    winner_participant_id = $3, loser_participant_id = $4,
		    is_draw = $5, is_bye = $6, status = $7
		WHERE id = $8`

	result, err := exec.ExecContext(ctx, query,
		m.ScoreSlot1,
		m.ScoreSlot2,
		m.WinnerID,
		m.LoserID,
		m.IsDraw,
		m.IsBye,
		m.Status,
		m.ID,
	)
	if err != nil {
		return handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// DeleteAllByPhase wipes a phase's bracket ahead of regeneration.
func (r *postgresMatchRepository) DeleteAllByPhase(ctx context.Context, exec SQLExecutor, phaseID int) error {
	if exec == nil {
		exec = r.db
	}
	_, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE phase_id = $1`, phaseID)
	return err
}

func handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "matches_phase_id_fkey":
			return ErrMatchPhaseInvalid
		case "matches_slot1_participant_id_fkey", "matches_slot2_participant_id_fkey",
			"matches_winner_participant_id_fkey", "matches_loser_participant_id_fkey":
			return ErrMatchParticipantInvalid
		}
	}
	return err
}

func scanMatch(row rowScanner) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID,
		&m.PhaseID,
		&m.Round,
		&m.Sequence,
		&m.Segment,
		&m.Slot1ParticipantID,
		&m.Slot2ParticipantID,
		&m.Slot1State,
		&m.Slot2State,
		&m.Status,
		&m.ScoreSlot1,
		&m.ScoreSlot2,
		&m.WinnerID,
		&m.LoserID,
		&m.IsDraw,
		&m.IsBye,
		&m.IsResetMatch,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}
