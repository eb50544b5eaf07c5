package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jward/trellis"
	"github.com/jward/trellis/internal/store"
)

var (
	flagRoot    string
	flagFormat  string
	flagVerbose bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "trellis",
	Short:         "Heuristic workspace analysis and phase progress scoring",
	Long:          "Trellis builds a file dependency graph from textual imports, detects the technology stack, and scores development phases against evidence-weighted rubrics.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if flagVerbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", ".", "workspace root to analyze")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(dependentsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(watchCmd)
}

// newEngine builds an Engine for --root with settings from .trellis.yml
// when present.
func newEngine() (*trellis.Engine, trellis.Config, error) {
	abs, err := filepath.Abs(flagRoot)
	if err != nil {
		return nil, trellis.Config{}, fmt.Errorf("resolving root %q: %w", flagRoot, err)
	}
	cfg, err := trellis.LoadConfig(filepath.Join(abs, ".trellis.yml"))
	if err != nil {
		return nil, trellis.Config{}, fmt.Errorf("loading config: %w", err)
	}
	e, err := trellis.New(abs,
		trellis.WithCache(trellis.NewCache(cfg.CacheTTL)),
		trellis.WithExcludes(cfg.Exclude...),
	)
	if err != nil {
		return nil, trellis.Config{}, err
	}
	return e, cfg, nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze the workspace and print a summary",
	Args:  cobra.NoArgs,
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, _, err := newEngine()
	if err != nil {
		return outputError("analyze", err)
	}
	a, err := e.Analyze(context.Background())
	if err != nil {
		return outputError("analyze", err)
	}
	return outputResult(CLIResult{Command: "analyze", Results: summarize(a)})
}

var (
	flagPhases []string
	flagSave   bool
	flagAI     bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score development phases against the workspace",
	Long:  "Evaluates each --phase title against its rubric. With --save, results are merged into the phase record store. With --ai, a local Ollama service adds a best-effort second-opinion score; its failure never affects the factual result.",
	Args:  cobra.NoArgs,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringArrayVar(&flagPhases, "phase", nil, "phase title to score (repeatable)")
	scoreCmd.Flags().BoolVar(&flagSave, "save", false, "persist results to the phase record store")
	scoreCmd.Flags().BoolVar(&flagAI, "ai", false, "add a best-effort AI re-score per phase")
	_ = scoreCmd.MarkFlagRequired("phase")
}

func runScore(cmd *cobra.Command, args []string) error {
	e, cfg, err := newEngine()
	if err != nil {
		return outputError("score", err)
	}
	ctx := context.Background()
	a, err := e.Analyze(ctx)
	if err != nil {
		return outputError("score", err)
	}
	in := a.ScoreInput()

	var rescorer *trellis.Rescorer
	if flagAI {
		rescorer, err = trellis.NewRescorer(cfg.Ollama)
		if err != nil {
			logrus.Warnf("AI re-score unavailable: %v", err)
			rescorer = nil
		}
	}

	var phases []CLIPhase
	for _, title := range flagPhases {
		res := trellis.ScorePhase(title, in)
		p := CLIPhase{
			Title:    title,
			Category: res.Category,
			Score:    res.Score,
			Status:   string(res.Status),
			Evidence: res.Evidence,
			Missing:  res.Missing,
		}
		if rescorer != nil {
			if ai, aiErr := rescorer.Rescore(ctx, title, clusterContents(a, title)); aiErr != nil {
				logrus.Warnf("AI re-score for %q: %v", title, aiErr)
			} else {
				p.AIScore = &ai
			}
		}
		phases = append(phases, p)
	}

	if flagSave {
		if err := savePhases(e.Root(), cfg, phases); err != nil {
			return outputError("score", err)
		}
	}
	return outputResult(CLIResult{Command: "score", Results: phases})
}

// clusterContents gathers file contents for the phase's keyword cluster,
// feeding the AI re-scorer. Best-effort: unreadable files are skipped.
func clusterContents(a *trellis.Analysis, title string) map[string]string {
	out := make(map[string]string)
	for _, p := range a.FilesByKeyword(firstWord(title)) {
		for _, cp := range a.Cluster(p, 1) {
			if _, ok := out[cp]; ok {
				continue
			}
			n := a.Graph.Node(cp)
			if n == nil {
				continue
			}
			data, err := os.ReadFile(n.AbsolutePath)
			if err != nil {
				continue
			}
			out[cp] = string(data)
		}
	}
	return out
}

func firstWord(title string) string {
	for i, r := range title {
		if r == ' ' {
			return title[:i]
		}
	}
	return title
}

// savePhases merges scored results into the sqlite phase record store.
func savePhases(root string, cfg trellis.Config, phases []CLIPhase) error {
	dbPath := cfg.Database
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}
	projectID, err := s.UpsertProject(root, filepath.Base(root))
	if err != nil {
		return err
	}
	for _, p := range phases {
		if err := s.SavePhaseResult(projectID, p.Title, p.Category, p.Score, p.Status, p.Evidence, p.Missing); err != nil {
			return err
		}
	}
	return nil
}

var depsCmd = &cobra.Command{
	Use:   "deps <file>",
	Short: "List the files a file imports",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileQuery("deps", func(a *trellis.Analysis) []string {
			return a.Dependencies(args[0])
		})
	},
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents <file>",
	Short: "List the files that import a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileQuery("dependents", func(a *trellis.Analysis) []string {
			return a.Dependents(args[0])
		})
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Find files whose path contains a keyword",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileQuery("search", func(a *trellis.Analysis) []string {
			return a.FilesByKeyword(args[0])
		})
	},
}

var flagDepth int

var clusterCmd = &cobra.Command{
	Use:   "cluster <file>",
	Short: "List the bounded-depth import neighborhood of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFileQuery("cluster", func(a *trellis.Analysis) []string {
			return a.Cluster(args[0], flagDepth)
		})
	},
}

func init() {
	clusterCmd.Flags().IntVar(&flagDepth, "depth", 2, "traversal depth bound")
}

// runFileQuery analyzes the workspace and prints a path list.
func runFileQuery(command string, q func(*trellis.Analysis) []string) error {
	e, _, err := newEngine()
	if err != nil {
		return outputError(command, err)
	}
	a, err := e.Analyze(context.Background())
	if err != nil {
		return outputError(command, err)
	}
	return outputResult(CLIResult{Command: command, Results: CLIFileList{Files: q(a)}})
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-analyze the workspace whenever it changes",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	e, _, err := newEngine()
	if err != nil {
		return outputError("watch", err)
	}
	ctx := context.Background()
	if _, err := e.Analyze(ctx); err != nil {
		return outputError("watch", err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s\n", e.Root())
	return e.Watch(ctx, func(ev fsnotify.Event) {
		a, err := e.Analyze(ctx)
		if err != nil {
			logrus.Warnf("re-analyze: %v", err)
			return
		}
		fmt.Fprintf(os.Stderr, "%s changed: %d files, %d edges\n",
			ev.Name, a.Stats.Total, a.ScoreInput().EdgeCount)
	})
}

// summarize converts an Analysis into its CLI representation.
func summarize(a *trellis.Analysis) CLISummary {
	signals := map[string]string{}
	add := func(k, v string) {
		if v != "" {
			signals[k] = v
		}
	}
	add("frontend", a.Signals.Frontend)
	add("backend", a.Signals.Backend)
	add("css", a.Signals.CSSFramework)
	add("state", a.Signals.State)
	add("orm", a.Signals.ORM)
	add("runtime", a.Signals.Runtime)
	add("api", a.Signals.APIStyle)
	add("tests", a.Signals.TestFramework)
	add("bundler", a.Signals.Bundler)
	add("auth", a.Signals.Auth)
	add("deployment", a.Signals.Deployment)

	return CLISummary{
		Root:       a.Root,
		TotalFiles: a.Stats.Total,
		Files: map[string]int{
			"source": a.Stats.Source,
			"test":   a.Stats.Test,
			"config": a.Stats.Config,
			"style":  a.Stats.Style,
			"asset":  a.Stats.Asset,
			"other":  a.Stats.Other,
		},
		Edges:   a.ScoreInput().EdgeCount,
		Signals: signals,
	}
}
