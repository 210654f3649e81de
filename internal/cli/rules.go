package cli

import (
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"autocorrect/internal/adapter/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List correction rules and whether they are enabled",
	Long: `List the correction rules in the order they are applied.
Rules are switched off in the config file:

  rules:
    fullwidth: 0`,
	Args: cobra.NoArgs,
	RunE: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	engine := rules.NewEngine(registry.Rules(), GetConfig().DisabledRules()...)

	width := 0
	for _, r := range engine.Table() {
		if w := runewidth.StringWidth(r.ID); w > width {
			width = w
		}
	}

	out := cmd.OutOrStdout()
	for _, r := range engine.Table() {
		state := "on"
		if !engine.Enabled(r.ID) {
			state = "off"
		}
		fmt.Fprintf(out, "%s  %-3s  %-13s  %s\n", runewidth.FillRight(r.ID, width), state, r.Action, r.Description)
	}
	return nil
}
