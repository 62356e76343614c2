package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fcoreutils/fcp/internal/config"
	"github.com/fcoreutils/fcp/internal/cp"
	"github.com/fcoreutils/fcp/internal/platform"
	"github.com/fcoreutils/fcp/internal/stats"
)

var version = "dev"

func main() {
	os.Exit(run())
}

// derefChoice records the winning dereference mode once any flag of the
// -P/-L/-H family is seen.
type derefChoice struct {
	mode cp.DerefMode
	set  bool
}

// derefFlag is a custom pflag.Value that keeps the dereference flags
// order-sensitive: each one records its mode into the shared choice, so
// the last flag on the command line wins, as GNU cp resolves repeated
// -P/-L/-H.
type derefFlag struct {
	pick *derefChoice
	mode cp.DerefMode
	also *bool
}

func (*derefFlag) String() string { return "false" }
func (*derefFlag) Type() string   { return "bool" }

func (f *derefFlag) Set(val string) error {
	on, err := strconv.ParseBool(val)
	if err != nil {
		return err
	}
	if f.also != nil {
		*f.also = on
	}
	if on {
		f.pick.mode = f.mode
		f.pick.set = true
	}
	return nil
}

//nolint:gocyclo,revive // cyclomatic,cognitive-complexity: main CLI entry point orchestrates all flag parsing
func run() int {
	var (
		recursive      bool
		recursiveAlias bool
		archive        bool
		force          bool
		interactive    bool
		noClobber      bool
		verbose        bool
		preserveList   string
		link           bool
		symbolicLink   bool
		update         bool
		oneFileSystem  bool
		backupFlag     bool
		backupControl  string
		suffix         string
		reflinkWhen    string
		targetDir      string
		noTargetDir    bool
		workers        int
		showVersion    bool
	)
	derefPick := &derefChoice{}

	// The bare --backup form takes its control from the environment, the
	// same variable numbered/simple selection honors in GNU tools.
	backupDefault := config.VersionControl()
	if backupDefault == "" {
		backupDefault = "existing"
	}

	rootCmd := &cobra.Command{
		Use:           "fcp [flags] <source>... <destination>",
		Short:         "Copy files and directories",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				fmt.Fprintf(os.Stdout, "cp (fcoreutils) %s\n", version)
				return nil
			}

			// Configure logging.
			logLevel := slog.LevelWarn
			if verbose {
				logLevel = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			}))
			slog.SetDefault(logger)

			if len(args) == 0 {
				return errors.New("missing file operand")
			}
			if targetDir != "" && noTargetDir {
				return errors.New(
					"cannot combine --target-directory (-t) and --no-target-directory (-T)")
			}

			// Load optional config file.
			fileCfg, err := config.Load()
			if err != nil {
				slog.Warn("failed to load config", "error", err)
			}

			// Apply config defaults for flags not explicitly set on CLI.
			applyConfigDefaults(cmd, fileCfg.Defaults, &workers, &reflinkWhen, &preserveList)

			// Suffix resolution: flag, then environment, then config file.
			// The engine supplies the final "~" default.
			if !cmd.Flags().Changed("suffix") {
				if env := config.SimpleBackupSuffix(); env != "" {
					suffix = env
				} else if fileCfg.Defaults.Suffix != nil {
					suffix = *fileCfg.Defaults.Suffix
				}
			}

			// Split operands. With --target-directory every argument is a
			// source; otherwise the last one is the destination.
			var sources []string
			var dest string
			if targetDir != "" {
				sources = args
				info, statErr := os.Stat(targetDir)
				if statErr != nil {
					return fmt.Errorf("failed to access '%s'", targetDir)
				}
				if !info.IsDir() {
					return fmt.Errorf("target '%s' is not a directory", targetDir)
				}
			} else if len(args) == 1 {
				sources = args
			} else {
				sources = args[:len(args)-1]
				dest = args[len(args)-1]
			}

			reflinkMode, err := platform.ParseReflinkMode(reflinkWhen)
			if err != nil {
				return err
			}

			cfg := cp.DefaultConfig()
			cfg.Recursive = recursive || recursiveAlias || archive
			cfg.Force = force
			cfg.Interactive = interactive
			cfg.NoClobber = noClobber
			cfg.Verbose = verbose
			cfg.Link = link
			cfg.SymbolicLink = symbolicLink
			cfg.Update = update
			cfg.OneFileSystem = oneFileSystem
			cfg.Reflink = reflinkMode
			cfg.TargetDirectory = targetDir
			cfg.NoTargetDirectory = noTargetDir
			cfg.Suffix = suffix
			cfg.Workers = workers

			if derefPick.set {
				cfg.Dereference = derefPick.mode
			}

			if archive {
				cfg.PreserveMode = true
				cfg.PreserveOwnership = true
				cfg.PreserveTimestamps = true
			}
			if preserveList != "" {
				ignored, err := cp.ApplyPreserveList(cfg, preserveList)
				if err != nil {
					return err
				}
				if len(ignored) > 0 {
					slog.Warn("preserve attributes not supported",
						"attributes", strings.Join(ignored, ","))
				}
			}

			if cmd.Flags().Changed("backup") {
				mode, err := cp.ParseBackupMode(backupControl)
				if err != nil {
					return err
				}
				cfg.Backup = mode
			} else if backupFlag {
				mode, err := cp.ParseBackupMode(backupDefault)
				if err != nil {
					return err
				}
				cfg.Backup = mode
			}

			// Set up context with signal handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Debug("starting copy",
				"sources", sources,
				"dest", dest,
				"workers", cfg.Workers,
				"recursive", cfg.Recursive,
				"reflink", reflinkWhen,
			)

			result := cp.Run(ctx, sources, dest, cfg)

			for _, diag := range result.Errors {
				fmt.Fprintln(os.Stderr, diag)
			}

			snap := result.Stats
			slog.Debug("copy finished",
				"files", snap.FilesCopied,
				"bytes", stats.FormatBytes(snap.BytesCopied),
				"dirs", snap.DirsCreated,
				"skipped", snap.FilesSkipped,
				"failed", snap.FilesFailed,
				"elapsed", snap.Elapsed,
			)

			if result.Err != nil {
				slog.Debug("copy interrupted", "error", result.Err)
				return &exitError{code: 1}
			}
			if result.HadError {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")

	rootCmd.Flags().BoolVarP(&recursive, "recursive", "R", false, "copy directories recursively")
	rootCmd.Flags().VarP(&derefFlag{pick: derefPick, mode: cp.DerefNever, also: &archive},
		"archive", "a", "same as -R --no-dereference --preserve=all")
	rootCmd.Flags().BoolVarP(&force, "force", "f", false,
		"remove an unwritable destination file before retrying the copy")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt before overwrite")
	rootCmd.Flags().BoolVarP(&noClobber, "no-clobber", "n", false,
		"do not overwrite an existing file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "explain what is being done")
	rootCmd.Flags().StringVarP(&preserveList, "preserve", "p", "",
		"preserve the listed attributes (mode, ownership, timestamps, all)")
	rootCmd.Flags().VarP(&derefFlag{pick: derefPick, mode: cp.DerefNever},
		"no-dereference", "P", "never follow symbolic links in sources")
	rootCmd.Flags().VarP(&derefFlag{pick: derefPick, mode: cp.DerefAlways},
		"dereference", "L", "always follow symbolic links in sources")
	rootCmd.Flags().BoolVarP(&link, "link", "l", false, "hard link files instead of copying")
	rootCmd.Flags().BoolVarP(&symbolicLink, "symbolic-link", "s", false,
		"make symbolic links instead of copying")
	rootCmd.Flags().BoolVarP(&update, "update", "u", false,
		"copy only when the source is newer than the destination")
	rootCmd.Flags().BoolVarP(&oneFileSystem, "one-file-system", "x", false,
		"stay on the source's file system")
	rootCmd.Flags().BoolVarP(&backupFlag, "b", "b", false,
		"like --backup but without an argument")
	rootCmd.Flags().StringVar(&backupControl, "backup", "",
		"back up each existing destination file (none, numbered, existing, simple)")
	rootCmd.Flags().StringVarP(&suffix, "suffix", "S", "", "override the usual backup suffix")
	rootCmd.Flags().StringVar(&reflinkWhen, "reflink", "auto",
		"control clone/CoW copies (auto, always, never)")
	rootCmd.Flags().StringVarP(&targetDir, "target-directory", "t", "",
		"copy all sources into this directory")
	rootCmd.Flags().BoolVarP(&noTargetDir, "no-target-directory", "T", false,
		"treat the destination as a normal file")
	rootCmd.Flags().IntVarP(&workers, "workers", "j", 0,
		"parallel file copies per directory (default: min(GOMAXPROCS, 8))")

	// Single-letter spellings kept for compatibility, hidden from help.
	rootCmd.Flags().BoolVarP(&recursiveAlias, "r", "r", false, "copy directories recursively")
	rootCmd.Flags().VarP(&derefFlag{pick: derefPick, mode: cp.DerefNever},
		"d", "d", "never follow symbolic links in sources")
	rootCmd.Flags().VarP(&derefFlag{pick: derefPick, mode: cp.DerefCommandLine},
		"H", "H", "follow symbolic links named on the command line only")
	for _, name := range []string{"r", "d", "H", "b"} {
		if err := rootCmd.Flags().MarkHidden(name); err != nil {
			panic(fmt.Sprintf("mark flag hidden: %v", err))
		}
	}

	// Value-optional flags: a bare --backup, --preserve or --reflink
	// picks the conventional default.
	rootCmd.Flags().Lookup("backup").NoOptDefVal = backupDefault
	rootCmd.Flags().Lookup("preserve").NoOptDefVal = "mode,ownership,timestamps"
	rootCmd.Flags().Lookup("reflink").NoOptDefVal = "always"

	// The dereference values parse like plain bool flags.
	for _, name := range []string{"no-dereference", "dereference", "archive", "d", "H"} {
		rootCmd.Flags().Lookup(name).NoOptDefVal = "true"
	}

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*exitError); ok {
			return exitErr.code
		}
		fmt.Fprintf(os.Stderr, "cp: %v\n", err)
		return 1
	}

	return 0
}

// applyConfigDefaults applies config file defaults for flags not explicitly set on the CLI.
func applyConfigDefaults(
	cmd *cobra.Command,
	defaults config.DefaultsConfig,
	workers *int,
	reflink *string,
	preserveList *string,
) {
	if !cmd.Flags().Changed("workers") && defaults.Workers != nil {
		*workers = *defaults.Workers
	}
	if !cmd.Flags().Changed("reflink") && defaults.Reflink != nil {
		*reflink = *defaults.Reflink
	}
	if !cmd.Flags().Changed("preserve") && defaults.Preserve != nil && *defaults.Preserve {
		*preserveList = "mode,ownership,timestamps"
	}
}

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}
