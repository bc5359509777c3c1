package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	app "github.com/okian/cfinsight/internal/app"
	"github.com/okian/cfinsight/internal/domain/insight"
)

const (
	dateLayout  = "2006-01-02"
	defaultTags = 10
)

func newProfileCmd(build builder) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <handle>",
		Short: "Analyze a single handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, _ := cmd.Flags().GetInt("tags")
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}
			r, err := svc.Analyze(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("user %q not found or API issue: %w", args[0], err)
			}
			printReport(cmd.OutOrStdout(), r, svc, tags)
			return nil
		},
	}
	cmd.Flags().Int("tags", defaultTags, "Number of topics to list")
	return cmd
}

func newCompareCmd(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "compare <handle-a> <handle-b>",
		Short: "Compare two handles head to head",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}
			h, err := svc.Compare(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("one or both users invalid: %w", err)
			}
			printComparison(cmd.OutOrStdout(), h)
			return nil
		},
	}
}

func newCoachCmd(build builder) *cobra.Command {
	return &cobra.Command{
		Use:   "coach <handle>",
		Short: "Ask the AI coach for a roadmap",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := build(cmd.Context())
			if err != nil {
				return err
			}
			text, err := svc.Coach(cmd.Context(), "", args[0])
			if err != nil && text == "" {
				return fmt.Errorf("user %q not found or API issue: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func printReport(w io.Writer, r app.Report, svc analyzer, tags int) {
	in := r.Insights
	best := fmt.Sprintf("%d Problems", in.BestDay)
	if in.Solved == 0 {
		best = "0"
	}

	fmt.Fprintf(w, "%s\n%s\n", r.Handle, strings.Repeat("─", 40))
	fmt.Fprintf(w, "%-22s %s\n", "Current Rating", r.Profile.RatingLabel())
	fmt.Fprintf(w, "%-22s %s\n", "Max Rating", r.Profile.MaxRatingLabel())
	fmt.Fprintf(w, "%-22s %d\n", "Problems Solved (AC)", in.Solved)
	fmt.Fprintf(w, "%-22s %s\n", "Best Day Record", best)

	fmt.Fprintln(w, "\nProblem Rating Distribution")
	for _, h := range in.RatingHistogram {
		fmt.Fprintf(w, "  %5d  %s %d\n", h.Rating, bar(h.Count), h.Count)
	}

	fmt.Fprintln(w, "\nTopic Strengths")
	if len(in.TagFrequency) == 0 {
		fmt.Fprintln(w, "  No tags found.")
	}
	for _, t := range in.TopTags(tags) {
		fmt.Fprintf(w, "  %-28s %d\n", t.Tag, t.Count)
	}

	fmt.Fprintf(w, "\nRecommended Upsolving (Last %d)\n", insight.BacklogLimit)
	if len(in.Backlog) == 0 {
		fmt.Fprintln(w, "  Clean Sheet! You have solved every problem you attempted.")
	}
	for i, s := range in.Backlog {
		fmt.Fprintf(w, "  %d. %s (Rating: %d, last attempted %s)\n     %s\n",
			i+1, s.Problem, s.Rating, s.Date.Format(dateLayout), svc.ProblemURL(s))
	}
}

func printComparison(w io.Writer, h app.HeadToHead) {
	fmt.Fprintf(w, "%s vs %s\n%s\n", h.HandleA, h.HandleB, strings.Repeat("─", 40))
	fmt.Fprintf(w, "%-22s %d (%+d)\n", h.HandleA+" Rating", h.RatingA, h.RatingDeltaA)
	fmt.Fprintf(w, "%-22s %d (%+d)\n", h.HandleB+" Rating", h.RatingB, h.RatingDeltaB)
	fmt.Fprintf(w, "Similarity Score: You have solved %d of the same problems.\n", h.CommonSolved)

	fmt.Fprintln(w, "\nWho solves harder problems?")
	for _, c := range h.Combined {
		fmt.Fprintf(w, "  %-16s %5d  %s %d\n", c.Handle, c.Rating, bar(c.Count), c.Count)
	}
}

// bar draws a count as a run of blocks, capped at 40.
func bar(n int) string {
	return strings.Repeat("█", min(n, 40))
}
