package models

import (
	"time"

	"github.com/google/uuid"
)

// CaseFile is the archived record of a solved investigation.
type CaseFile struct {
	ID       uuid.UUID
	CaseName string
	// SessionHash identifies the player without storing the session token.
	SessionHash string
	SolvedAt    time.Time
	Mistakes    int
	// Path lists the scenario keys of the correct choices in the order they were made.
	Path []string
}

// CaseStats summarises the archive.
type CaseStats struct {
	Solved          int
	AverageMistakes float64
}
