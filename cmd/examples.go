package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/matheuskafuri/benkyou/internal/aggregator"
	"github.com/matheuskafuri/benkyou/internal/config"
	"github.com/matheuskafuri/benkyou/internal/logger"
	"github.com/spf13/cobra"
)

var (
	flagExamplesTrack    string
	flagExamplesConcepts []string
	flagExamplesSince    string
	flagExamplesLimit    int
	flagExamplesVerbose  bool
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Fetch the feeds once and print matching articles",
	Long: `Fetch every enabled source, tag the entries and print the ones that
match. Repeat --concept to require several concepts at once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		days, err := parseDays(flagExamplesSince)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}

		log := logger.Discard()
		if flagExamplesVerbose {
			log = logger.Init()
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()

		articles, err := newAggregator(cfg, log).Examples(ctx, aggregator.Query{
			Concepts: flagExamplesConcepts,
			Track:    flagExamplesTrack,
			Days:     days,
			Limit:    flagExamplesLimit,
		})
		if err != nil {
			return err
		}
		renderArticles(cmd.OutOrStdout(), articles)
		return nil
	},
}

func init() {
	examplesCmd.Flags().StringVar(&flagExamplesTrack, "track", "", "restrict tags to commerce or arts")
	examplesCmd.Flags().StringArrayVar(&flagExamplesConcepts, "concept", nil, "required concept id (repeatable)")
	examplesCmd.Flags().StringVar(&flagExamplesSince, "since", "7d", "only show articles from the last duration (e.g., 7d, 48h)")
	examplesCmd.Flags().IntVar(&flagExamplesLimit, "limit", aggregator.DefaultLimit, "maximum number of articles")
	examplesCmd.Flags().BoolVar(&flagExamplesVerbose, "verbose", false, "log skipped sources")
}

// parseDays turns "7d", "7" or a Go duration into whole days, rounding up.
func parseDays(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	var days int
	if _, err := fmt.Sscanf(s, "%d", &days); err == nil && fmt.Sprint(days) == s {
		return days, nil
	}
	if len(s) > 1 && s[len(s)-1] == 'd' {
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return days, nil
		}
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return int(math.Ceil(d.Hours() / 24)), nil
}

func renderArticles(w io.Writer, articles []aggregator.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No matching articles."))
		return
	}
	for i, a := range articles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(a.Title))

		meta := []string{sourceStyle.Render(a.Source)}
		if a.Published != nil {
			meta = append(meta, dimStyle.Render(a.Published.Format("2006-01-02 15:04")))
		}
		if len(a.Concepts) > 0 {
			meta = append(meta, conceptStyle.Render(strings.Join(a.Concepts, ", ")))
		}
		fmt.Fprintln(w, strings.Join(meta, dimStyle.Render(" · ")))

		if a.URL != nil {
			fmt.Fprintln(w, dimStyle.Render(*a.URL))
		}
		if a.Summary != "" {
			fmt.Fprintln(w, summaryStyle.Render(a.Summary))
		}
	}
}
