package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/fractal"
)

// familiesCommand lists the families with their formulas and defaults.
func (c *CLI) familiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List fractal families, formulas and default views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, familiesTable())
			return nil
		},
	}
}

func familiesTable() string {
	rows := make([][]string, 0, len(fractal.Kinds))
	for _, k := range fractal.Kinds {
		cfg := fractal.Default(k)
		formulas := strings.Join(k.Formulas(), ", ")
		if formulas == "" {
			formulas = "-"
		}
		rows = append(rows, []string{
			string(k),
			formulas,
			fmt.Sprintf("%s .. %s", formatComplex(cfg.View.Min), formatComplex(cfg.View.Max)),
			strconv.Itoa(cfg.MaxIterations),
		})
	}
	return renderTable([]string{"Family", "Formulas", "Default view", "Max iter"}, rows)
}
