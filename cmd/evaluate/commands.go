package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/gema-code-review/internal/catalog"
	"github.com/noah-isme/gema-code-review/pkg/ai"
)

const solutionPlaceholder = "# Your solution here"

var errEmptySource = errors.New("no code to evaluate")

type scoreOptions struct {
	challenge string
	seed      uint64
	latency   time.Duration
	asJSON    bool
	verbose   bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "evaluate",
		Short:        "Score code submissions with the heuristic reviewer",
		SilenceUsage: true,
	}
	root.AddCommand(newScoreCmd(), newChallengesCmd())
	return root
}

func newScoreCmd() *cobra.Command {
	opts := scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score [file|-]",
		Short: "Score a source file, or stdin when the path is - or omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			source, err := readSource(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			return runScore(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), source, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.challenge, "challenge", "", "catalog challenge id the code answers")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed for reproducible scores (0 draws a fresh seed)")
	flags.DurationVar(&opts.latency, "latency", 0, "simulated review latency")
	flags.BoolVar(&opts.asJSON, "json", false, "print the feedback record as JSON")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log evaluator activity to stderr")
	return cmd
}

func newChallengesCmd() *cobra.Command {
	var difficulty string
	cmd := &cobra.Command{
		Use:   "challenges",
		Short: "List the bundled coding challenges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChallenges(cmd.OutOrStdout(), difficulty)
		},
	}
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "only list Easy, Medium or Hard challenges")
	return cmd
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read source: %w", err)
	}
	return string(data), nil
}

func runScore(ctx context.Context, out, errOut io.Writer, source string, opts scoreOptions) error {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" || trimmed == solutionPlaceholder {
		return errEmptySource
	}

	var challenge *catalog.Challenge
	if opts.challenge != "" {
		cat, err := catalog.Default()
		if err != nil {
			return err
		}
		found, ok := cat.Get(opts.challenge)
		if !ok {
			return fmt.Errorf("unknown challenge %q", opts.challenge)
		}
		challenge = &found
	}

	logger := zerolog.Nop()
	if opts.verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: errOut}).With().Timestamp().Logger()
	}

	random := ai.DefaultRandomSource()
	if opts.seed != 0 {
		random = ai.NewSeededSource(opts.seed)
	}
	evaluator := ai.NewHeuristicEvaluator(ai.HeuristicConfig{
		Latency: opts.latency,
		Random:  random,
		Logger:  logger,
	})

	if ctx == nil {
		ctx = context.Background()
	}
	record := evaluator.Evaluate(ctx, ai.SubmissionInput{SourceText: source, ChallengeID: opts.challenge})

	if opts.asJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(record)
	}

	printReport(out, challenge, record)
	return nil
}

func printReport(out io.Writer, challenge *catalog.Challenge, record ai.FeedbackRecord) {
	heading := color.New(color.Bold)
	if challenge != nil {
		heading.Fprintf(out, "%s (%s)\n\n", challenge.Title, challenge.Difficulty)
	}

	printScore(out, "Correctness", record.Correctness, ai.PassCorrectness)
	printScore(out, "Efficiency", record.Efficiency, ai.PassEfficiency)
	printScore(out, "Quality", record.Quality, ai.PassQuality)

	verdict := color.New(color.FgGreen, color.Bold).Sprint("PASSED")
	if !record.Passed() {
		verdict = color.New(color.FgRed, color.Bold).Sprint("NEEDS WORK")
	}
	fmt.Fprintf(out, "\nVerdict: %s\n\n", verdict)

	heading.Fprintln(out, "Feedback")
	fmt.Fprintln(out, record.Feedback)
}

func printScore(out io.Writer, label string, score, threshold float64) {
	paint := color.New(color.FgGreen)
	if score < threshold {
		paint = color.New(color.FgRed)
	}
	fmt.Fprintf(out, "%-12s %s / 10 (pass at %.0f)\n", label+":", paint.Sprintf("%.1f", score), threshold)
}

func runChallenges(out io.Writer, difficulty string) error {
	cat, err := catalog.Default()
	if err != nil {
		return err
	}

	var wanted catalog.Difficulty
	if strings.TrimSpace(difficulty) != "" {
		wanted, err = catalog.ParseDifficulty(difficulty)
		if err != nil {
			return err
		}
	}

	id := color.New(color.FgCyan)
	for _, challenge := range cat.All() {
		if wanted != "" && challenge.Difficulty != wanted {
			continue
		}
		fmt.Fprintf(out, "%s  %-8s %s  [%s]\n", id.Sprint(challenge.ID), challenge.Difficulty, challenge.Title, strings.Join(challenge.Tags, ", "))
	}
	return nil
}
