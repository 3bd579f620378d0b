package dialogue

import (
	"log/slog"
	"math"

	"github.com/myrjola/terratracker/internal/errors"
)

// ChoiceRecord remembers a correct choice the player made.
type ChoiceRecord struct {
	Scenario Key
	Text     string
}

// GameState is the progress of a single player. It is created by [Tree.NewGame] and mutated only through the Tree.
type GameState struct {
	Current  Key
	Progress float64
	History  []ChoiceRecord
	// Mistakes counts incorrect picks. It never influences progress.
	Mistakes int
}

// Outcome describes what a player action led to.
type Outcome struct {
	// Correct is false when the player picked a wrong answer. Feedback then explains why.
	Correct  bool
	Feedback string
	// Scenario is the scenario to render next. After a wrong answer it is the unchanged current scenario.
	Scenario Scenario
	// Entered is true when the action moved the player to another scenario.
	Entered bool
	// Restarted is true when a link took the player back to the beginning.
	Restarted bool
}

// NewGame returns a fresh game state positioned at the initial scenario.
func (t *Tree) NewGame() GameState {
	return GameState{
		Current:  t.initial,
		Progress: 0,
		History:  nil,
		Mistakes: 0,
	}
}

// Restart resets state to the initial scenario with no progress.
func (t *Tree) Restart(state *GameState) {
	*state = t.NewGame()
}

// Current returns the scenario the state points to.
func (t *Tree) Current(state GameState) (Scenario, error) {
	s, ok := t.scenarios[state.Current]
	if !ok {
		return Scenario{}, errors.Wrap(ErrUnknownScenario, "lookup current", slog.String("scenario", string(state.Current)))
	}
	return s, nil
}

// Completed reports whether the state rests on a terminal scenario.
func (t *Tree) Completed(state GameState) bool {
	s, ok := t.scenarios[state.Current]
	return ok && s.Terminal()
}

// SelectChoice applies the player's pick at the current checkpoint.
//
// A correct choice is appended to the history, adds the fixed increment to progress and moves the state to the
// choice's next scenario. An incorrect choice leaves progress and the current scenario untouched and returns the
// choice's feedback alongside the same scenario.
func (t *Tree) SelectChoice(state *GameState, index int) (Outcome, error) {
	current, err := t.Current(*state)
	if err != nil {
		return Outcome{}, err
	}
	if len(current.Choices) == 0 {
		return Outcome{}, errors.Wrap(ErrNoChoices, "select choice", slog.String("scenario", string(current.Key)))
	}
	if index < 0 || index >= len(current.Choices) {
		return Outcome{}, errors.Wrap(ErrChoiceOutOfRange, "select choice",
			slog.String("scenario", string(current.Key)), slog.Int("choice", index))
	}

	choice := current.Choices[index]
	if !choice.Correct {
		state.Mistakes++
		return Outcome{
			Correct:   false,
			Feedback:  choice.Feedback,
			Scenario:  current,
			Entered:   false,
			Restarted: false,
		}, nil
	}

	next := t.scenarios[choice.Next]
	state.History = append(state.History, ChoiceRecord{Scenario: current.Key, Text: choice.Text})
	state.Progress = math.Min(MaxProgress, state.Progress+t.increment)
	state.Current = next.Key
	return Outcome{
		Correct:   true,
		Feedback:  "",
		Scenario:  next,
		Entered:   true,
		Restarted: false,
	}, nil
}

// AdvanceToScenario moves the state to key without touching progress or history.
func (t *Tree) AdvanceToScenario(state *GameState, key Key) (Scenario, error) {
	s, ok := t.scenarios[key]
	if !ok {
		return Scenario{}, errors.Wrap(ErrUnknownScenario, "advance", slog.String("scenario", string(key)))
	}
	state.Current = key
	return s, nil
}

// FollowLink navigates from the current briefing. A link to the initial scenario restarts the game.
func (t *Tree) FollowLink(state *GameState, index int) (Outcome, error) {
	current, err := t.Current(*state)
	if err != nil {
		return Outcome{}, err
	}
	if len(current.Links) == 0 {
		return Outcome{}, errors.Wrap(ErrNoLinks, "follow link", slog.String("scenario", string(current.Key)))
	}
	if index < 0 || index >= len(current.Links) {
		return Outcome{}, errors.Wrap(ErrLinkOutOfRange, "follow link",
			slog.String("scenario", string(current.Key)), slog.Int("link", index))
	}

	link := current.Links[index]
	if link.Next == t.initial {
		t.Restart(state)
		return Outcome{
			Correct:   true,
			Feedback:  "",
			Scenario:  t.scenarios[t.initial],
			Entered:   true,
			Restarted: true,
		}, nil
	}

	next, err := t.AdvanceToScenario(state, link.Next)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Correct:   true,
		Feedback:  "",
		Scenario:  next,
		Entered:   true,
		Restarted: false,
	}, nil
}
