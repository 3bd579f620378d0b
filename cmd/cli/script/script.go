// Package script inspects the investigation script without starting the server.
package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/myrjola/terratracker/internal/dialogue"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "script",
	Title: "Investigation script",
}

func init() {
	Command.AddCommand(Validate, Show)
}

var Command = &cobra.Command{
	Use:     "script",
	GroupID: "script",
	Short:   "Inspect the investigation script",
}

var Validate = &cobra.Command{
	Use:   "validate",
	Short: "Validate the dialogue tree",
	Long:  "Builds the dialogue tree, which fails on dangling links, cycles and checkpoints without a correct answer.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tree, err := dialogue.NewAmazonTree()
		if err != nil {
			return errors.Wrap(err, "build tree")
		}
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "scenarios: %d\n", len(tree.Keys()))
		_, _ = fmt.Fprintf(out, "depth: %d\n", tree.Depth())
		_, _ = fmt.Fprintf(out, "increment: %.2f\n", tree.Increment())
		return nil
	},
}

var Show = &cobra.Command{
	Use:   "show [scenario]",
	Short: "Print scenarios",
	Long:  "Prints every scenario, or only the named one, with its choices and links.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tree, err := dialogue.NewAmazonTree()
		if err != nil {
			return errors.Wrap(err, "build tree")
		}
		keys := tree.Keys()
		if len(args) == 1 {
			keys = []dialogue.Key{dialogue.Key(args[0])}
		}
		out := cmd.OutOrStdout()
		for _, key := range keys {
			s, ok := tree.Scenario(key)
			if !ok {
				return errors.Wrap(dialogue.ErrUnknownScenario, "show", slog.String("scenario", string(key)))
			}
			_, _ = fmt.Fprintf(out, "[%s] %s\n", s.Key, s.Kind)
			_, _ = fmt.Fprintf(out, "  %s\n", strings.ReplaceAll(s.Message, "\n", "\n  "))
			for i, c := range s.Choices {
				mark := " "
				if c.Correct {
					mark = "*"
				}
				_, _ = fmt.Fprintf(out, "  %s %d. %s", mark, i, c.Text)
				if c.Correct {
					_, _ = fmt.Fprintf(out, " -> %s", c.Next)
				}
				_, _ = fmt.Fprintln(out)
			}
			for i, l := range s.Links {
				_, _ = fmt.Fprintf(out, "  > %d. %s -> %s\n", i, l.Text, l.Next)
			}
		}
		return nil
	},
}
