package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"autocorrect/config"
)

var (
	initTOML  bool
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the project root",
	Long: `Write a default .autocorrectrc.yaml (or .autocorrectrc.toml with --toml)
to the project root. An existing file is kept unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initTOML, "toml", false, "write TOML instead of YAML")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	name := ".autocorrectrc.yaml"
	if initTOML {
		name = ".autocorrectrc.toml"
	}
	path := filepath.Join(GetRootDir(), name)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}
