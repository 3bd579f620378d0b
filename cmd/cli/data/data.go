// Package data looks at the timeline and vegetation data the dashboard shows.
package data

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/myrjola/terratracker/internal/clues"
	"github.com/myrjola/terratracker/internal/errors"
	"github.com/myrjola/terratracker/internal/logging"
	"github.com/myrjola/terratracker/internal/vegetation"
	"github.com/spf13/cobra"
)

var Group = &cobra.Group{
	ID:    "data",
	Title: "Satellite data",
}

func init() {
	Timeline.PersistentFlags().Int("start", clues.DefaultTimeline.StartYear, "first year of the timeline")
	Timeline.PersistentFlags().Int("end", clues.DefaultTimeline.EndYear, "last year of the timeline")
	Timeline.AddCommand(Year)
	NDVI.Flags().String("url", os.Getenv("TERRA_NDVI_URL"), "MODIS subset endpoint, empty for demo data")
	NDVI.Flags().Duration("timeout", 10*time.Second, "timeout for the whole fetch") //nolint:mnd // 10s
}

var Timeline = &cobra.Command{
	Use:     "timeline",
	GroupID: "data",
	Short:   "Work with the dashboard timeline",
}

var Year = &cobra.Command{
	Use:   "year <slider>",
	Short: "Map a slider position to a year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		slider, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return errors.Wrap(err, "parse slider", slog.String("slider", args[0]))
		}
		var timeline clues.Timeline
		if timeline.StartYear, err = cmd.Flags().GetInt("start"); err != nil {
			return errors.Wrap(err, "start flag")
		}
		if timeline.EndYear, err = cmd.Flags().GetInt("end"); err != nil {
			return errors.Wrap(err, "end flag")
		}
		if !timeline.Valid() {
			return errors.New("end year precedes start year")
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), timeline.YearAt(slider))
		return nil
	},
}

var NDVI = &cobra.Command{
	Use:     "ndvi",
	GroupID: "data",
	Short:   "Print the Amazon Basin NDVI series",
	Long:    "Fetches the yearly mean NDVI of the Amazon Basin. Failures fall back to the demo series.",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		url, err := cmd.Flags().GetString("url")
		if err != nil {
			return errors.Wrap(err, "url flag")
		}
		var timeout time.Duration
		if timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return errors.Wrap(err, "timeout flag")
		}
		logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(cmd.ErrOrStderr(), nil)))
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		series := vegetation.NewClient(url, logger).Series(ctx, vegetation.AmazonBasin)

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "source: %s\n", series.Source)
		for _, p := range series.Points {
			_, _ = fmt.Fprintf(out, "%d\t%.3f\t%s\n", p.Year, p.NDVI, p.Health())
		}
		_, _ = fmt.Fprintf(out, "decline: %.1f%%\n", series.Decline())
		return nil
	},
}
