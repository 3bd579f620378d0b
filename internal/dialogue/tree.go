// Package dialogue implements the branching dialogue that walks the player through an investigation.
//
// A [Tree] is an immutable, validated set of [Scenario] records keyed by [Key]. All mutable progress lives in a
// [GameState] that the caller owns and passes in, so the same tree serves every player concurrently.
package dialogue

import (
	"log/slog"

	"github.com/myrjola/terratracker/internal/errors"
)

// Key names a scenario in the dialogue tree.
type Key string

// Kind tags the two shapes a scenario can take.
type Kind int

const (
	// KindCheckpoint asks the player to pick the correct answer among choices.
	KindCheckpoint Kind = iota
	// KindBriefing only informs and offers navigation links. Briefings never move progress.
	KindBriefing
)

func (k Kind) String() string {
	switch k {
	case KindCheckpoint:
		return "checkpoint"
	case KindBriefing:
		return "briefing"
	default:
		return "unknown"
	}
}

// Choice is an answer offered at a checkpoint.
//
// A correct choice names the scenario it leads to in Next. An incorrect choice explains why in Feedback.
type Choice struct {
	Text     string
	Correct  bool
	Feedback string
	Next     Key
}

// Link navigates between briefings. Following a link to the initial scenario restarts the game.
type Link struct {
	Text string
	Next Key
}

// Scenario is a node of the dialogue tree.
type Scenario struct {
	Key          Key
	Kind         Kind
	Message      string
	Choices      []Choice
	Links        []Link
	ShowProgress bool
	// Clue is the satellite clue the dashboard shows alongside the message. Empty means keep the current one.
	Clue string
}

// Terminal reports whether the scenario has no correct-choice transition left.
func (s Scenario) Terminal() bool {
	for _, c := range s.Choices {
		if c.Correct {
			return false
		}
	}
	return true
}

var (
	ErrUnknownScenario  = errors.NewSentinel("unknown scenario")
	ErrChoiceOutOfRange = errors.NewSentinel("choice out of range")
	ErrLinkOutOfRange   = errors.NewSentinel("link out of range")
	ErrNoChoices        = errors.NewSentinel("scenario offers no choices")
	ErrNoLinks          = errors.NewSentinel("scenario offers no links")
	ErrInvalidTree      = errors.NewSentinel("invalid dialogue tree")
)

// MaxProgress caps GameState.Progress.
const MaxProgress = 100.0

// Tree is a validated dialogue tree.
type Tree struct {
	initial   Key
	order     []Key
	scenarios map[Key]Scenario
	increment float64
	depth     int
}

// NewTree validates the scenarios and computes the fixed progress increment.
//
// The increment is 100 divided by the number of correct transitions on the main path, the path that always takes
// the first correct choice from the initial scenario until a terminal scenario.
func NewTree(initial Key, scenarios ...Scenario) (*Tree, error) {
	t := &Tree{
		initial:   initial,
		order:     make([]Key, 0, len(scenarios)),
		scenarios: make(map[Key]Scenario, len(scenarios)),
		increment: 0,
		depth:     0,
	}
	for _, s := range scenarios {
		if _, exists := t.scenarios[s.Key]; exists {
			return nil, errors.Wrap(ErrInvalidTree, "duplicate scenario", slog.String("scenario", string(s.Key)))
		}
		t.scenarios[s.Key] = s
		t.order = append(t.order, s.Key)
	}
	if _, ok := t.scenarios[initial]; !ok {
		return nil, errors.Wrap(ErrInvalidTree, "initial scenario missing", slog.String("scenario", string(initial)))
	}

	var problems []error
	for _, key := range t.order {
		problems = append(problems, t.validateScenario(t.scenarios[key])...)
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	if err := t.checkAcyclic(); err != nil {
		return nil, err
	}

	t.depth = t.mainPathDepth()
	if t.depth > 0 {
		t.increment = MaxProgress / float64(t.depth)
	}
	return t, nil
}

func (t *Tree) validateScenario(s Scenario) []error {
	var (
		problems []error
		scenario = slog.String("scenario", string(s.Key))
	)
	switch s.Kind {
	case KindCheckpoint:
		if len(s.Choices) == 0 {
			problems = append(problems, errors.Wrap(ErrInvalidTree, "checkpoint without choices", scenario))
		}
		if len(s.Links) > 0 {
			problems = append(problems, errors.Wrap(ErrInvalidTree, "checkpoint with links", scenario))
		}
	case KindBriefing:
		if len(s.Links) == 0 {
			problems = append(problems, errors.Wrap(ErrInvalidTree, "briefing without links", scenario))
		}
		if len(s.Choices) > 0 {
			problems = append(problems, errors.Wrap(ErrInvalidTree, "briefing with choices", scenario))
		}
	default:
		problems = append(problems, errors.Wrap(ErrInvalidTree, "unknown kind", scenario,
			slog.Int("kind", int(s.Kind))))
	}
	for i, c := range s.Choices {
		choice := slog.Int("choice", i)
		if c.Correct {
			if _, ok := t.scenarios[c.Next]; !ok {
				problems = append(problems, errors.Wrap(ErrInvalidTree, "correct choice leads nowhere", scenario,
					choice, slog.String("next", string(c.Next))))
			}
			continue
		}
		if c.Feedback == "" {
			problems = append(problems, errors.Wrap(ErrInvalidTree, "incorrect choice without feedback", scenario,
				choice))
		}
	}
	for i, l := range s.Links {
		if _, ok := t.scenarios[l.Next]; !ok {
			problems = append(problems, errors.Wrap(ErrInvalidTree, "link leads nowhere", scenario,
				slog.Int("link", i), slog.String("next", string(l.Next))))
		}
	}
	return problems
}

// checkAcyclic rejects trees where correct choices loop back, since progress could then grow without end.
func (t *Tree) checkAcyclic() error {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[Key]int, len(t.scenarios))
	var visit func(k Key) error
	visit = func(k Key) error {
		switch marks[k] {
		case visiting:
			return errors.Wrap(ErrInvalidTree, "correct choices form a loop", slog.String("scenario", string(k)))
		case done:
			return nil
		}
		marks[k] = visiting
		for _, c := range t.scenarios[k].Choices {
			if !c.Correct {
				continue
			}
			if err := visit(c.Next); err != nil {
				return err
			}
		}
		marks[k] = done
		return nil
	}
	for _, k := range t.order {
		if marks[k] == unvisited {
			if err := visit(k); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Tree) mainPathDepth() int {
	depth := 0
	current := t.scenarios[t.initial]
	for !current.Terminal() {
		for _, c := range current.Choices {
			if c.Correct {
				current = t.scenarios[c.Next]
				break
			}
		}
		depth++
	}
	return depth
}

// Initial returns the key every game starts from.
func (t *Tree) Initial() Key {
	return t.initial
}

// Increment is the fixed amount of progress a correct choice adds.
func (t *Tree) Increment() float64 {
	return t.increment
}

// Depth is the number of correct choices needed to reach the end of the main path.
func (t *Tree) Depth() int {
	return t.depth
}

// Keys lists the scenario keys in declaration order.
func (t *Tree) Keys() []Key {
	keys := make([]Key, len(t.order))
	copy(keys, t.order)
	return keys
}

// Scenario looks up a scenario by key.
func (t *Tree) Scenario(key Key) (Scenario, bool) {
	s, ok := t.scenarios[key]
	return s, ok
}
