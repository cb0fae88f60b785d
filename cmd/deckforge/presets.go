package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/deckforge/deckforge/internal/domain/entities"
)

// presetsCmd lists the available planning presets
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List available planning presets",
	Long: `List the planning presets and the guidance each one gives the
content planner. Pass a preset to 'generate' with --preset.`,
	RunE: runPresets,
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "NAME\tSLIDES\tGUIDANCE")
	for _, p := range entities.AllPresets() {
		spec := p.Spec()
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\n", p, spec.TargetSlides, spec.Guidance)
	}

	return w.Flush()
}
