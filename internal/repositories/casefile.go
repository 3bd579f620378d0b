package repositories

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/models"
	"github.com/myrjola/terratracker/internal/sqlite"
)

const (
	pathSeparator = ">"
	// solvedAtLayout keeps every timestamp the same width so that solved_at sorts as text.
	solvedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

var ErrInvalidCaseFile = errors.NewSentinel("invalid case file")

type CaseRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewCaseRepository(db *sqlite.Database, logger *slog.Logger) *CaseRepository {
	return &CaseRepository{
		db:     db,
		logger: logger.With(slog.String("component", "CaseRepository")),
	}
}

type caseFileRow struct {
	ID          string `db:"id"`
	CaseName    string `db:"case_name"`
	SessionHash string `db:"session_hash"`
	SolvedAt    string `db:"solved_at"`
	Mistakes    int    `db:"mistakes"`
	Path        string `db:"path"`
}

func (r caseFileRow) toModel() (models.CaseFile, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return models.CaseFile{}, errors.Wrap(err, "parse id", slog.String("id", r.ID))
	}
	var solvedAt time.Time
	if solvedAt, err = time.Parse(time.RFC3339Nano, r.SolvedAt); err != nil {
		return models.CaseFile{}, errors.Wrap(err, "parse solved_at", slog.String("solved_at", r.SolvedAt))
	}
	var path []string
	if r.Path != "" {
		path = strings.Split(r.Path, pathSeparator)
	}
	return models.CaseFile{
		ID:          id,
		CaseName:    r.CaseName,
		SessionHash: r.SessionHash,
		SolvedAt:    solvedAt,
		Mistakes:    r.Mistakes,
		Path:        path,
	}, nil
}

// Archive stores a solved case. A zero ID is replaced with a fresh random one, a zero SolvedAt with now.
func (r *CaseRepository) Archive(ctx context.Context, caseFile models.CaseFile) (models.CaseFile, error) {
	if caseFile.CaseName == "" || caseFile.SessionHash == "" || caseFile.Mistakes < 0 {
		return models.CaseFile{}, errors.Wrap(ErrInvalidCaseFile, "validate",
			slog.String("case_name", caseFile.CaseName), slog.Int("mistakes", caseFile.Mistakes))
	}
	for _, key := range caseFile.Path {
		if strings.Contains(key, pathSeparator) {
			return models.CaseFile{}, errors.Wrap(ErrInvalidCaseFile, "path key contains separator",
				slog.String("key", key))
		}
	}
	if caseFile.ID == uuid.Nil {
		var err error
		if caseFile.ID, err = uuid.NewRandom(); err != nil {
			return models.CaseFile{}, errors.Wrap(err, "generate id")
		}
	}
	if caseFile.SolvedAt.IsZero() {
		caseFile.SolvedAt = time.Now()
	}
	caseFile.SolvedAt = caseFile.SolvedAt.UTC()

	row := caseFileRow{
		ID:          caseFile.ID.String(),
		CaseName:    caseFile.CaseName,
		SessionHash: caseFile.SessionHash,
		SolvedAt:    caseFile.SolvedAt.Format(solvedAtLayout),
		Mistakes:    caseFile.Mistakes,
		Path:        strings.Join(caseFile.Path, pathSeparator),
	}
	stmt := `INSERT INTO case_files (id, case_name, session_hash, solved_at, mistakes, path)
VALUES (:id, :case_name, :session_hash, :solved_at, :mistakes, :path)`
	if _, err := r.db.ReadWrite.NamedExecContext(ctx, stmt, row); err != nil {
		return models.CaseFile{}, errors.Wrap(err, "insert case file", slog.String("id", row.ID))
	}
	r.logger.LogAttrs(ctx, slog.LevelInfo, "archived case file", slog.String("id", row.ID),
		slog.String("case_name", row.CaseName), slog.Int("mistakes", row.Mistakes))
	return caseFile, nil
}

// Recent returns up to limit case files, newest first.
func (r *CaseRepository) Recent(ctx context.Context, limit int) ([]models.CaseFile, error) {
	if limit <= 0 {
		return nil, nil
	}
	var rows []caseFileRow
	stmt := `SELECT id, case_name, session_hash, solved_at, mistakes, path
FROM case_files
ORDER BY solved_at DESC, id
LIMIT ?`
	if err := r.db.ReadOnly.SelectContext(ctx, &rows, stmt, limit); err != nil {
		return nil, errors.Wrap(err, "select case files")
	}
	caseFiles := make([]models.CaseFile, 0, len(rows))
	for _, row := range rows {
		caseFile, err := row.toModel()
		if err != nil {
			return nil, errors.Wrap(err, "convert row")
		}
		caseFiles = append(caseFiles, caseFile)
	}
	return caseFiles, nil
}

// Stats counts the solved cases and averages their mistakes.
func (r *CaseRepository) Stats(ctx context.Context) (models.CaseStats, error) {
	var stats struct {
		Solved          int     `db:"solved"`
		AverageMistakes float64 `db:"average_mistakes"`
	}
	stmt := `SELECT COUNT(*) AS solved, COALESCE(AVG(mistakes), 0.0) AS average_mistakes FROM case_files`
	if err := r.db.ReadOnly.GetContext(ctx, &stats, stmt); err != nil {
		return models.CaseStats{}, errors.Wrap(err, "query stats")
	}
	return models.CaseStats{Solved: stats.Solved, AverageMistakes: stats.AverageMistakes}, nil
}
