// Package cmd provides the CLI commands for subseq.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/subseq/internal/config"
	suberrors "github.com/Aman-CERP/subseq/internal/errors"
	"github.com/Aman-CERP/subseq/internal/logging"
	"github.com/Aman-CERP/subseq/internal/match"
	"github.com/Aman-CERP/subseq/internal/output"
	"github.com/Aman-CERP/subseq/internal/profiling"
	"github.com/Aman-CERP/subseq/pkg/version"
)

// rootOptions holds flag values and the state shared between the
// persistent hooks and the commands.
type rootOptions struct {
	configPath string

	threads    int
	level1     string
	level2     string
	level3     string
	markBefore string
	markAfter  string
	positions  bool
	separator  string
	limit      int
	color      string
	cacheSize  int

	debug        bool
	profileCPU   string
	profileMem   string
	profileTrace string

	cfg            *config.Config
	profiler       *profiling.Profiler
	loggingCleanup func()
}

// NewRootCmd creates the root command for the subseq CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "subseq [flags] <query>",
		Short: "Rank lines from stdin by fuzzy subsequence match",
		Long: `subseq reads candidate lines from standard input and prints those that
contain the query as a case-insensitive subsequence, best match first.

Matches after path separators, word separators, dots and camelCase humps
score higher, as do consecutive runs and matches at either end of the line.`,
		Example: `  git ls-files | subseq srvmain
  find . -type f | subseq -p -b '\e[32m' -a '\e[0m' cfgld`,
		Version:       version.Version,
		Args:          exactlyOneQuery,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd, opts.cfg, args[0])
		},
	}

	cmd.SetVersionTemplate("subseq version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return suberrors.ValidationError(err.Error(), err).
			WithSuggestion("Run 'subseq --help' for usage")
	})

	defaults := config.NewConfig()
	pf := cmd.PersistentFlags()

	// Matching and output flags are persistent so `subseq config` reports
	// the same effective configuration a search would use.
	pf.IntVarP(&opts.threads, "threads", "t", runtime.NumCPU(), "Worker count; 0 scores inline on one goroutine")
	pf.StringVar(&opts.level1, "level1", match.DefaultLevel1, "Boundary characters with the highest bonus")
	pf.StringVar(&opts.level2, "level2", match.DefaultLevel2, "Boundary characters with the middle bonus")
	pf.StringVar(&opts.level3, "level3", match.DefaultLevel3, "Boundary characters with the lowest bonus")
	pf.StringVarP(&opts.markBefore, "mark-before", "b", "", `Text inserted before each matched run (escapes like \e[32m allowed)`)
	pf.StringVarP(&opts.markAfter, "mark-after", "a", "", `Text inserted after each matched run (escapes like \e[0m allowed)`)
	pf.BoolVarP(&opts.positions, "positions", "p", false, "Prefix each line with the matched character indices")
	pf.StringVar(&opts.separator, "separator", output.DefaultSeparator, "Separator between positions and the line")
	pf.IntVarP(&opts.limit, "limit", "l", 0, "Print at most this many lines (0 prints all)")
	pf.StringVar(&opts.color, "color", defaults.Marks.Color, "Highlight matches when no marks are set: auto, always, never")
	pf.IntVar(&opts.cacheSize, "cache-size", match.DefaultCacheSize, "Per-worker result cache entries (0 disables)")
	pf.StringVar(&opts.configPath, "config", "", "Config file (default "+config.GetUserConfigPath()+")")

	pf.StringVar(&opts.profileCPU, "profile-cpu", "", "Write CPU profile to file")
	pf.StringVar(&opts.profileMem, "profile-mem", "", "Write memory profile to file")
	pf.StringVar(&opts.profileTrace, "profile-trace", "", "Write execution trace to file")
	pf.BoolVar(&opts.debug, "debug", false, "Enable debug logging to ~/.subseq/logs/")

	cmd.PersistentPreRunE = opts.start
	cmd.PersistentPostRunE = opts.stop

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// Execute runs the root command and reports any failure on stderr.
func Execute(ctx context.Context) error {
	root := NewRootCmd()
	c, err := root.ExecuteContextC(ctx)
	if err != nil {
		if c == nil {
			c = root
		}
		_, _ = fmt.Fprint(c.ErrOrStderr(), suberrors.FormatForCLI(err))
		logFailure(err)
	}
	return err
}

// logFailure records a failed command at debug level, keyed by category.
func logFailure(err error) {
	category := suberrors.GetCategory(err)
	if category == "" {
		category = suberrors.CategoryInternal
	}
	slog.Debug("command_failed",
		slog.String("category", string(category)),
		slog.Any("error", suberrors.FormatForLog(err)))
}

func exactlyOneQuery(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return suberrors.ValidationError(
			fmt.Sprintf("expected exactly one query argument, got %d", len(args)), nil).
			WithSuggestion("Quote queries containing spaces; use '' for an empty query")
	}
	return nil
}

// start loads the configuration, then enables logging and profiling.
func (o *rootOptions) start(cmd *cobra.Command, _ []string) error {
	if cmd.Name() != "version" {
		cfg, err := o.loadConfig(cmd)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}

	logCfg := logging.DefaultConfig(cmd.ErrOrStderr())
	if o.cfg != nil {
		logCfg.Level = o.cfg.LogLevel
	}
	if o.debug {
		logCfg = logging.DebugConfig(cmd.ErrOrStderr())
	}
	cleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return suberrors.New(suberrors.ErrCodeConfigInvalid, "failed to set up logging", err)
	}
	o.loggingCleanup = cleanup

	o.profiler = profiling.NewProfiler(profiling.Options{
		CPUPath:   o.profileCPU,
		MemPath:   o.profileMem,
		TracePath: o.profileTrace,
	})
	return o.profiler.Start()
}

// stop flushes profiles and closes the debug log.
func (o *rootOptions) stop(_ *cobra.Command, _ []string) error {
	var err error
	if o.profiler != nil {
		err = o.profiler.Stop()
	}
	if o.loggingCleanup != nil {
		o.loggingCleanup()
		o.loggingCleanup = nil
	}
	return err
}

// loadConfig layers changed flags over the file and environment
// configuration, then validates the result.
func (o *rootOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	setInt := func(name string, dst *int, v int) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setString := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}

	setInt("threads", &cfg.Threads, o.threads)
	setInt("limit", &cfg.Limit, o.limit)
	setInt("cache-size", &cfg.CacheSize, o.cacheSize)
	setString("level1", &cfg.Boundaries.Level1, o.level1)
	setString("level2", &cfg.Boundaries.Level2, o.level2)
	setString("level3", &cfg.Boundaries.Level3, o.level3)
	setString("mark-before", &cfg.Marks.Before, o.markBefore)
	setString("mark-after", &cfg.Marks.After, o.markAfter)
	setString("color", &cfg.Marks.Color, o.color)
	setString("separator", &cfg.Output.Separator, o.separator)
	if flags.Changed("positions") {
		cfg.Output.Positions = o.positions
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
