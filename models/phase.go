package models

import (
	"encoding/json"
	"time"
)

// Format is the closed set of competition formats a phase can run.
// Anything that dispatches on it must switch exhaustively; see
// brackets.GeneratorFor.
type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
	FormatRoundRobin        Format = "round_robin"
	FormatSwiss             Format = "swiss"
	FormatGauntlet          Format = "gauntlet"
)

func (f Format) Valid() bool {
	switch f {
	case FormatSingleElimination, FormatDoubleElimination, FormatRoundRobin, FormatSwiss, FormatGauntlet:
		return true
	}
	return false
}

type GrandFinalMode string

const (
	GrandFinalNone   GrandFinalMode = "none"
	GrandFinalSingle GrandFinalMode = "single"
	GrandFinalDouble GrandFinalMode = "double"
)

// PhaseConfig holds the format-specific options, stored as JSON in the
// phases table.
type PhaseConfig struct {
	GrandFinal     GrandFinalMode `json:"grand_final,omitempty"`
	SkipFirstRound bool           `json:"skip_first_round,omitempty"`
	GroupCount     int            `json:"group_count,omitempty"`
}

func (c PhaseConfig) GrandFinalOrDefault() GrandFinalMode {
	if c.GrandFinal == "" {
		return GrandFinalSingle
	}
	return c.GrandFinal
}

func (c PhaseConfig) GroupCountOrDefault() int {
	if c.GroupCount < 1 {
		return 1
	}
	return c.GroupCount
}

type PhaseStatus string

const (
	PhasePending   PhaseStatus = "pending"
	PhaseActive    PhaseStatus = "active"
	PhaseCompleted PhaseStatus = "completed"
)

type Phase struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Name         string      `json:"name" db:"name"`
	Format       Format      `json:"format" db:"format"`
	Size         int         `json:"size" db:"size"`
	ConfigJSON   *string     `json:"-" db:"config_json"`
	Status       PhaseStatus `json:"status" db:"status"`

	// BracketLocked latches the moment the first result is reported for
	// this phase. It is never derived from match statuses, so resetting a
	// match back to pending does not unlock regeneration.
	BracketLocked bool      `json:"bracket_locked" db:"bracket_locked"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Config *PhaseConfig `json:"config,omitempty" db:"-"`
}

// ParseConfig decodes ConfigJSON, falling back to defaults when absent or
// malformed fields are encountered.
func (p *Phase) ParseConfig() (PhaseConfig, error) {
	if p.ConfigJSON == nil || *p.ConfigJSON == "" {
		return PhaseConfig{}, nil
	}
	var cfg PhaseConfig
	if err := json.Unmarshal([]byte(*p.ConfigJSON), &cfg); err != nil {
		return PhaseConfig{}, err
	}
	return cfg, nil
}
