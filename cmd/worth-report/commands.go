package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/worthboard/internal/app"
	"github.com/okian/worthboard/internal/domain/filter"
	"github.com/okian/worthboard/internal/domain/scoring"
)

const defaultTop = 5

// postFlags are shared by the posts and people commands.
type postFlags struct {
	top           int
	window        string
	date          string
	excludeAdmins bool
	excludeMods   bool
	exclude       string
	weights       scoring.PostWeights
}

func (f *postFlags) register(cmd *cobra.Command) {
	d := scoring.DefaultPostWeights()
	cmd.Flags().IntVar(&f.top, "top", defaultTop, "number of rows to keep")
	cmd.Flags().StringVar(&f.window, "window", "all", "all, this_month, last_month or specific_month")
	cmd.Flags().StringVar(&f.date, "date", "", "month for specific_month, YYYY-MM")
	cmd.Flags().BoolVar(&f.excludeAdmins, "exclude-admins", false, "drop admins")
	cmd.Flags().BoolVar(&f.excludeMods, "exclude-mods", false, "drop moderators")
	cmd.Flags().StringVar(&f.exclude, "exclude", "", "comma-separated author names to drop")
	cmd.Flags().Float64Var(&f.weights.Like, "like", d.Like, "weight per like")
	cmd.Flags().Float64Var(&f.weights.Comment, "comment", d.Comment, "weight per comment")
	cmd.Flags().Float64Var(&f.weights.Basic, "basic", d.Basic, "weight of a basic post")
	cmd.Flags().Float64Var(&f.weights.Image, "image", d.Image, "weight of an image post")
}

// query builds a PostQuery; weight flags left unset take base.
func (f *postFlags) query(cmd *cobra.Command, base scoring.PostWeights) (service.PostQuery, error) {
	kind, err := filter.ParseWindowKind(f.window)
	if err != nil {
		return service.PostQuery{}, err
	}
	window := filter.Window{Kind: kind}
	if kind == filter.SpecificMonth {
		if window.Date, err = time.Parse("2006-01", f.date); err != nil {
			return service.PostQuery{}, fmt.Errorf("--date: want YYYY-MM: %w", err)
		}
	}
	w := base
	set := cmd.Flags().Changed
	if set("like") {
		w.Like = f.weights.Like
	}
	if set("comment") {
		w.Comment = f.weights.Comment
	}
	if set("basic") {
		w.Basic = f.weights.Basic
	}
	if set("image") {
		w.Image = f.weights.Image
	}
	return service.PostQuery{
		TopN: f.top,
		Filter: filter.Options{
			ExcludeAdmins:     f.excludeAdmins,
			ExcludeModerators: f.excludeMods,
			ExcludedNames:     f.exclude,
			Window:            window,
		},
		Weights: w,
	}, nil
}

func postsCmd(g *globals) *cobra.Command {
	var f postFlags
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Show the top posts by worth",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			q, err := f.query(cmd, s.cfg.DefaultPostWeights)
			if err != nil {
				return err
			}
			tbl, err := s.svc.TopPosts(cmd.Context(), s.cred, q)
			if err != nil {
				return err
			}
			return printScoredPosts(cmd.OutOrStdout(), cmd.ErrOrStderr(), g.jsonOutput, tbl)
		},
	}
	f.register(cmd)
	return cmd
}

func peopleCmd(g *globals) *cobra.Command {
	var (
		f      postFlags
		amount float64
	)
	cmd := &cobra.Command{
		Use:   "people",
		Short: "Show the top people by summed post worth, optionally splitting an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			pq, err := f.query(cmd, s.cfg.DefaultPostWeights)
			if err != nil {
				return err
			}
			if amount > s.cfg.MaxAmount {
				return fmt.Errorf("--amount must be at most %g", s.cfg.MaxAmount)
			}
			tbl, err := s.svc.TopPeople(cmd.Context(), s.cred, service.PeopleQuery{PostQuery: pq, Amount: amount})
			if err != nil {
				return err
			}
			return printPeople(cmd.OutOrStdout(), cmd.ErrOrStderr(), g.jsonOutput, tbl)
		},
	}
	f.register(cmd)
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount to apportion across the ranked people")
	return cmd
}

func eventsCmd(g *globals) *cobra.Command {
	var (
		top      int
		attended bool
		w        scoring.EventWeights
	)
	d := scoring.DefaultEventWeights()
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the top events by worth or attendance",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			if attended {
				tbl, err := s.svc.MostAttendedEvents(cmd.Context(), s.cred, top)
				if err != nil {
					return err
				}
				return printEvents(cmd.OutOrStdout(), cmd.ErrOrStderr(), g.jsonOutput, tbl)
			}
			weights := s.cfg.DefaultEventWeights
			set := cmd.Flags().Changed
			if set("like") {
				weights.Like = w.Like
			}
			if set("comment") {
				weights.Comment = w.Comment
			}
			if set("attendees") {
				weights.Attendees = w.Attendees
			}
			if set("duration") {
				weights.Duration = w.Duration
			}
			tbl, err := s.svc.TopEvents(cmd.Context(), s.cred, service.EventQuery{TopN: top, Weights: weights})
			if err != nil {
				return err
			}
			return printEvents(cmd.OutOrStdout(), cmd.ErrOrStderr(), g.jsonOutput, tbl)
		},
	}
	cmd.Flags().IntVar(&top, "top", defaultTop, "number of events to keep")
	cmd.Flags().BoolVar(&attended, "attended", false, "rank by attendee count instead of worth")
	cmd.Flags().Float64Var(&w.Like, "like", d.Like, "weight per like")
	cmd.Flags().Float64Var(&w.Comment, "comment", d.Comment, "weight per comment")
	cmd.Flags().Float64Var(&w.Attendees, "attendees", d.Attendees, "weight per attendee")
	cmd.Flags().Float64Var(&w.Duration, "duration", d.Duration, "weight per minute of length")
	return cmd
}

func statsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show community statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			sum, err := s.svc.Stats(cmd.Context(), s.cred)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), g.jsonOutput, sum)
		},
	}
}

func quickCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:       "quick {posts|people|events}",
		Short:     "Show a preset top-five leaderboard without admins and moderators",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"posts", "people", "events"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := connect(cmd.Context(), g)
			if err != nil {
				return err
			}
			ctx, out, errOut := cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr()
			switch args[0] {
			case "posts":
				tbl, err := s.svc.QuickPosts(ctx, s.cred)
				if err != nil {
					return err
				}
				return printScoredPosts(out, errOut, g.jsonOutput, tbl)
			case "people":
				tbl, err := s.svc.QuickPeople(ctx, s.cred)
				if err != nil {
					return err
				}
				return printPeople(out, errOut, g.jsonOutput, tbl)
			default:
				tbl, err := s.svc.QuickEvents(ctx, s.cred)
				if err != nil {
					return err
				}
				return printEvents(out, errOut, g.jsonOutput, tbl)
			}
		},
	}
}
