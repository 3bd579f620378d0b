package repositories_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/myrjola/terratracker/internal/models"
	"github.com/myrjola/terratracker/internal/repositories"
	"github.com/myrjola/terratracker/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

var mainPath = []string{"intro", "clue_selection", "modis_analysis", "aster_analysis", "misr_analysis", "verdict"}

func TestCaseRepository_Recent(t *testing.T) {
	repo := repositories.NewCaseRepository(newTestDB(t, true), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	caseFiles, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, caseFiles, 2)
	require.Equal(t, "hash-b", caseFiles[0].SessionHash, "newest first")
	require.Equal(t, 3, caseFiles[0].Mistakes)
	require.Equal(t, mainPath, caseFiles[0].Path)
	require.Equal(t, time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC), caseFiles[0].SolvedAt)
	require.Equal(t, uuid.MustParse("6f1c1f0e-8d2a-4c53-9a53-0f3d1a1b2c02"), caseFiles[0].ID)

	caseFiles, err = repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, caseFiles, 1)

	caseFiles, err = repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Empty(t, caseFiles)
}

func TestCaseRepository_RecentWithinSecond(t *testing.T) {
	repo := repositories.NewCaseRepository(newTestDB(t, false), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	second := time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC)
	solved := []struct {
		hash string
		at   time.Time
	}{
		{hash: "whole-second", at: second},
		{hash: "older", at: second.Add(120 * time.Millisecond)},
		{hash: "newer", at: second.Add(123 * time.Millisecond)},
	}
	for _, s := range solved {
		_, err := repo.Archive(ctx, models.CaseFile{CaseName: "amazon-basin", SessionHash: s.hash, SolvedAt: s.at})
		require.NoError(t, err)
	}

	caseFiles, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, caseFiles, 3)
	for i, want := range []string{"newer", "older", "whole-second"} {
		require.Equal(t, want, caseFiles[i].SessionHash)
	}
	require.Equal(t, second.Add(123*time.Millisecond), caseFiles[0].SolvedAt)
}

func TestCaseRepository_Archive(t *testing.T) {
	repo := repositories.NewCaseRepository(newTestDB(t, false), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, models.CaseStats{Solved: 0, AverageMistakes: 0}, stats)

	archived, err := repo.Archive(ctx, models.CaseFile{
		CaseName:    "amazon-basin",
		SessionHash: "player",
		Mistakes:    2,
		Path:        mainPath,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, archived.ID)
	require.False(t, archived.SolvedAt.IsZero())

	_, err = repo.Archive(ctx, models.CaseFile{CaseName: "amazon-basin", SessionHash: "other", Mistakes: 5})
	require.NoError(t, err)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Solved)
	require.InDelta(t, 3.5, stats.AverageMistakes, 1e-9)

	caseFiles, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, caseFiles, 2)
	var found bool
	for _, c := range caseFiles {
		if c.ID == archived.ID {
			found = true
			require.Equal(t, mainPath, c.Path)
			require.WithinDuration(t, archived.SolvedAt, c.SolvedAt, time.Millisecond)
		}
	}
	require.True(t, found)
}

func TestCaseRepository_ArchiveInvalid(t *testing.T) {
	repo := repositories.NewCaseRepository(newTestDB(t, false), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()

	tests := []struct {
		name     string
		caseFile models.CaseFile
	}{
		{name: "missing case name", caseFile: models.CaseFile{SessionHash: "x"}},
		{name: "missing session hash", caseFile: models.CaseFile{CaseName: "amazon-basin"}},
		{name: "negative mistakes", caseFile: models.CaseFile{CaseName: "amazon-basin", SessionHash: "x", Mistakes: -1}},
		{
			name:     "separator in path",
			caseFile: models.CaseFile{CaseName: "amazon-basin", SessionHash: "x", Path: []string{"a>b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Archive(ctx, tt.caseFile)
			require.ErrorIs(t, err, repositories.ErrInvalidCaseFile)
		})
	}
}

func BenchmarkCaseRepository_Archive(b *testing.B) {
	repo := repositories.NewCaseRepository(newBenchmarkDB(b), testhelpers.NewLogger(io.Discard))
	ctx := context.Background()
	b.ResetTimer()
	for range b.N {
		if _, err := repo.Archive(ctx, models.CaseFile{
			CaseName:    "amazon-basin",
			SessionHash: "bench",
			Mistakes:    1,
			Path:        mainPath,
		}); err != nil {
			b.Fatal(err)
		}
	}
}
