package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"autocorrect/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
	debug   bool
	logger  *zap.Logger
)

// ExitError carries a process exit status without a message; the command
// has already printed what it had to say.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

var rootCmd = &cobra.Command{
	Use:   "autocorrect [paths...]",
	Short: "Add spaces between CJK and Latin text in comments, strings and docs",
	Long: `AutoCorrect lints and formats the human-readable parts of source files:
comments, string literals and prose. It inserts a space between CJK and
Latin letters or digits, normalizes full-width alphanumerics and fixes
punctuation width. Code is never touched.

Example usage:
  autocorrect README.md          # Print the corrected file
  autocorrect --lint .           # Report problems, exit 1 if any
  autocorrect --fix src/         # Rewrite files in place`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}
		rootDir, err = filepath.Abs(rootDir)
		if err != nil {
			return fmt.Errorf("invalid root directory: %w", err)
		}

		var path string
		if cfgFile != "" {
			path = cfgFile
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, path, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err = newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, debug)
		if err != nil {
			return err
		}
		if path != "" {
			logger.Debug("config loaded", zap.String("path", path))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runCorrect,
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.autocorrectrc.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "project root directory (default is current directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "print debug messages")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
