package dialogue_test

import (
	"testing"

	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/stretchr/testify/require"
)

func newAmazonTree(t *testing.T) *dialogue.Tree {
	t.Helper()
	tree, err := dialogue.NewAmazonTree()
	require.NoError(t, err)
	return tree
}

// correctIndex returns the index of the first correct choice of the current scenario.
func correctIndex(t *testing.T, tree *dialogue.Tree, state dialogue.GameState) int {
	t.Helper()
	s, err := tree.Current(state)
	require.NoError(t, err)
	for i, c := range s.Choices {
		if c.Correct {
			return i
		}
	}
	t.Fatalf("scenario %s has no correct choice", s.Key)
	return -1
}

func wrongIndex(t *testing.T, tree *dialogue.Tree, state dialogue.GameState) int {
	t.Helper()
	s, err := tree.Current(state)
	require.NoError(t, err)
	for i, c := range s.Choices {
		if !c.Correct {
			return i
		}
	}
	t.Fatalf("scenario %s has no wrong choice", s.Key)
	return -1
}

func TestAmazonTree(t *testing.T) {
	tree := newAmazonTree(t)
	require.Equal(t, dialogue.KeyIntro, tree.Initial())
	require.Equal(t, 6, tree.Depth())
	require.InDelta(t, 100.0/6, tree.Increment(), 1e-9)
	require.Len(t, tree.Keys(), 11)

	for _, key := range []dialogue.Key{
		dialogue.KeyMODISAnalysis, dialogue.KeyASTERAnalysis, dialogue.KeyMISRAnalysis,
	} {
		s, ok := tree.Scenario(key)
		require.True(t, ok)
		require.NotEmpty(t, s.Clue, "analysis %s shows a clue", key)
	}
}

func TestSelectChoice_Correct(t *testing.T) {
	tree := newAmazonTree(t)
	state := tree.NewGame()

	outcome, err := tree.SelectChoice(&state, correctIndex(t, tree, state))
	require.NoError(t, err)
	require.True(t, outcome.Correct)
	require.True(t, outcome.Entered)
	require.Equal(t, dialogue.KeyClueSelection, outcome.Scenario.Key)
	require.Equal(t, dialogue.KeyClueSelection, state.Current)
	require.InDelta(t, tree.Increment(), state.Progress, 1e-9)
	require.Equal(t, []dialogue.ChoiceRecord{
		{Scenario: dialogue.KeyIntro, Text: "Yes, let's investigate!"},
	}, state.History)
}

func TestSelectChoice_Incorrect(t *testing.T) {
	tree := newAmazonTree(t)
	state := tree.NewGame()
	_, err := tree.SelectChoice(&state, correctIndex(t, tree, state))
	require.NoError(t, err)
	before := state

	outcome, err := tree.SelectChoice(&state, wrongIndex(t, tree, state))
	require.NoError(t, err)
	require.False(t, outcome.Correct)
	require.False(t, outcome.Entered)
	require.Equal(t, "ASTER is great for details! But we need the big picture first. MODIS shows long-term "+
		"trends that help us understand the overall pattern.", outcome.Feedback)
	require.Equal(t, before.Current, state.Current)
	require.Equal(t, before.Progress, state.Progress)
	require.Equal(t, before.History, state.History)
	require.Equal(t, 1, state.Mistakes)

	current, err := tree.Current(state)
	require.NoError(t, err)
	require.Equal(t, current.Choices, outcome.Scenario.Choices, "choices are re-rendered unchanged")
}

func TestSelectChoice_Errors(t *testing.T) {
	tree := newAmazonTree(t)

	tests := []struct {
		name    string
		state   dialogue.GameState
		index   int
		wantErr error
	}{
		{name: "negative index", state: tree.NewGame(), index: -1, wantErr: dialogue.ErrChoiceOutOfRange},
		{name: "index past end", state: tree.NewGame(), index: 2, wantErr: dialogue.ErrChoiceOutOfRange},
		{
			name:    "unknown scenario",
			state:   dialogue.GameState{Current: "jungle_gym"},
			index:   0,
			wantErr: dialogue.ErrUnknownScenario,
		},
		{
			name:    "briefing has no choices",
			state:   dialogue.GameState{Current: dialogue.KeyNASAInfo},
			index:   0,
			wantErr: dialogue.ErrNoChoices,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := tt.state
			_, err := tree.SelectChoice(&state, tt.index)
			require.ErrorIs(t, err, tt.wantErr)
			require.Equal(t, tt.state.Current, state.Current)
			require.Equal(t, tt.state.Progress, state.Progress)
		})
	}
}

func TestFullPlaythrough(t *testing.T) {
	tree := newAmazonTree(t)
	state := tree.NewGame()
	want := []dialogue.Key{
		dialogue.KeyClueSelection,
		dialogue.KeyMODISAnalysis,
		dialogue.KeyASTERAnalysis,
		dialogue.KeyMISRAnalysis,
		dialogue.KeyVerdict,
		dialogue.KeyMissionComplete,
	}

	previous := state.Progress
	for _, key := range want {
		require.False(t, tree.Completed(state))

		// A wrong answer first never moves anything.
		_, err := tree.SelectChoice(&state, wrongIndex(t, tree, state))
		require.NoError(t, err)
		require.Equal(t, previous, state.Progress)

		outcome, err := tree.SelectChoice(&state, correctIndex(t, tree, state))
		require.NoError(t, err)
		require.Equal(t, key, outcome.Scenario.Key)
		require.Greater(t, state.Progress, previous, "progress is monotonic")
		require.LessOrEqual(t, state.Progress, dialogue.MaxProgress)
		previous = state.Progress
	}

	require.True(t, tree.Completed(state))
	require.InDelta(t, dialogue.MaxProgress, state.Progress, 1e-9)
	require.Len(t, state.History, len(want))
	require.Equal(t, len(want), state.Mistakes)

	_, err := tree.SelectChoice(&state, 0)
	require.ErrorIs(t, err, dialogue.ErrNoChoices, "mission complete is terminal")
}

func TestProgressIsCapped(t *testing.T) {
	tree, err := dialogue.NewTree("a",
		dialogue.Scenario{Key: "a", Kind: dialogue.KindCheckpoint, Choices: []dialogue.Choice{
			{Text: "go", Correct: true, Next: "b"},
		}},
		dialogue.Scenario{Key: "b", Kind: dialogue.KindBriefing, Links: []dialogue.Link{{Text: "again", Next: "a"}}},
	)
	require.NoError(t, err)
	require.InDelta(t, 100.0, tree.Increment(), 1e-9)

	state := dialogue.GameState{Current: "a", Progress: 90}
	_, err = tree.SelectChoice(&state, 0)
	require.NoError(t, err)
	require.InDelta(t, dialogue.MaxProgress, state.Progress, 1e-9)
}

func TestRestart(t *testing.T) {
	tree := newAmazonTree(t)
	state := tree.NewGame()
	for range 3 {
		_, err := tree.SelectChoice(&state, correctIndex(t, tree, state))
		require.NoError(t, err)
	}
	state.Mistakes = 4

	tree.Restart(&state)
	require.Equal(t, dialogue.KeyIntro, state.Current)
	require.Zero(t, state.Progress)
	require.Empty(t, state.History)
	require.Zero(t, state.Mistakes)
}

func TestAdvanceToScenario(t *testing.T) {
	tree := newAmazonTree(t)
	state := tree.NewGame()
	state.Progress = 50

	s, err := tree.AdvanceToScenario(&state, dialogue.KeyNASAInfo)
	require.NoError(t, err)
	require.Equal(t, dialogue.KeyNASAInfo, s.Key)
	require.Equal(t, dialogue.KeyNASAInfo, state.Current)
	require.InDelta(t, 50.0, state.Progress, 1e-9)

	_, err = tree.AdvanceToScenario(&state, "missing")
	require.ErrorIs(t, err, dialogue.ErrUnknownScenario)
	require.Equal(t, dialogue.KeyNASAInfo, state.Current, "failed lookup is a no-op")
}

func TestFollowLink(t *testing.T) {
	tree := newAmazonTree(t)
	state := dialogue.GameState{Current: dialogue.KeyMissionComplete, Progress: 100}

	outcome, err := tree.FollowLink(&state, 0)
	require.NoError(t, err)
	require.Equal(t, dialogue.KeySolutions, outcome.Scenario.Key)
	require.InDelta(t, 100.0, state.Progress, 1e-9, "links never change progress")

	_, err = tree.FollowLink(&state, 5)
	require.ErrorIs(t, err, dialogue.ErrLinkOutOfRange)

	_, err = tree.AdvanceToScenario(&state, dialogue.KeyNASAInfo)
	require.NoError(t, err)
	outcome, err = tree.FollowLink(&state, 0)
	require.NoError(t, err)
	require.True(t, outcome.Restarted)
	require.Equal(t, tree.NewGame(), state)

	_, err = tree.FollowLink(&state, 0)
	require.ErrorIs(t, err, dialogue.ErrNoLinks, "checkpoints offer choices, not links")
}

func TestNewTree_Invalid(t *testing.T) {
	checkpoint := func(key dialogue.Key, choices ...dialogue.Choice) dialogue.Scenario {
		return dialogue.Scenario{Key: key, Kind: dialogue.KindCheckpoint, Choices: choices}
	}
	end := dialogue.Scenario{Key: "end", Kind: dialogue.KindBriefing, Links: []dialogue.Link{{Text: "home", Next: "a"}}}

	tests := []struct {
		name      string
		initial   dialogue.Key
		scenarios []dialogue.Scenario
	}{
		{name: "missing initial", initial: "nope", scenarios: []dialogue.Scenario{end}},
		{name: "duplicate key", initial: "end", scenarios: []dialogue.Scenario{end, end}},
		{
			name:    "dangling next",
			initial: "a",
			scenarios: []dialogue.Scenario{
				checkpoint("a", dialogue.Choice{Text: "go", Correct: true, Next: "ghost"}), end,
			},
		},
		{
			name:    "wrong choice without feedback",
			initial: "a",
			scenarios: []dialogue.Scenario{
				checkpoint("a", dialogue.Choice{Text: "go", Correct: true, Next: "end"}, dialogue.Choice{Text: "?"}),
				end,
			},
		},
		{
			name:      "checkpoint without choices",
			initial:   "a",
			scenarios: []dialogue.Scenario{checkpoint("a"), end},
		},
		{
			name:    "briefing without links",
			initial: "a",
			scenarios: []dialogue.Scenario{
				checkpoint("a", dialogue.Choice{Text: "go", Correct: true, Next: "b"}),
				{Key: "b", Kind: dialogue.KindBriefing},
			},
		},
		{
			name:    "loop of correct choices",
			initial: "a",
			scenarios: []dialogue.Scenario{
				checkpoint("a", dialogue.Choice{Text: "go", Correct: true, Next: "b"}),
				checkpoint("b", dialogue.Choice{Text: "back", Correct: true, Next: "a"}),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := dialogue.NewTree(tt.initial, tt.scenarios...)
			require.ErrorIs(t, err, dialogue.ErrInvalidTree)
			require.Nil(t, tree)
		})
	}
}
