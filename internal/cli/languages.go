package cli

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var languagesCmd = &cobra.Command{
	Use:     "languages",
	Aliases: []string{"langs"},
	Short:   "List supported languages and their file extensions",
	Args:    cobra.NoArgs,
	RunE:    runLanguages,
}

func init() {
	rootCmd.AddCommand(languagesCmd)
}

func runLanguages(cmd *cobra.Command, args []string) error {
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	langs := registry.Languages()

	width := 0
	for _, l := range langs {
		if w := runewidth.StringWidth(l.Name); w > width {
			width = w
		}
	}

	out := cmd.OutOrStdout()
	for _, l := range langs {
		exts := strings.Join(l.Extensions, " ")
		if exts == "" {
			exts = "-"
		}
		fmt.Fprintf(out, "%s  %s\n", runewidth.FillRight(l.Name, width), exts)
	}
	return nil
}
