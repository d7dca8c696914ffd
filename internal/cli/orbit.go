package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
	"github.com/matzehuels/fractalplane/pkg/iteration"
	"github.com/matzehuels/fractalplane/pkg/plane"
)

// orbitCommand creates the orbit command, which traces a single pixel.
func (c *CLI) orbitCommand() *cobra.Command {
	var (
		frame frameFlags
		x, y  int
		limit int
	)

	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "Trace one pixel and print its statistics and orbit",
		Example: `  fractalplane orbit --x 400 --y 300
  fractalplane orbit --family newton --x 10 --y 10 --limit 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := frame.file(cmd)
			if err != nil {
				return err
			}
			cfg, err := file.Fractal()
			if err != nil {
				return err
			}
			screen := file.ScreenSize()
			p := plane.Point{X: x, Y: y}
			if !screen.Contains(p) {
				return errors.New(errors.ErrCodeInvalidInput, "pixel %v outside %dx%d", p, screen.Width, screen.Height)
			}

			r := fractal.Orbit(cfg, screen, p)
			z := fractal.NewIterator(&cfg, screen).Transform().ToPlane(p)
			printOrbit(c.Out, z, r, limit)
			return nil
		},
	}

	frame.bind(cmd)
	cmd.Flags().IntVar(&x, "x", 0, "pixel column")
	cmd.Flags().IntVar(&y, "y", 0, "pixel row")
	cmd.Flags().IntVar(&limit, "limit", 20, "orbit points to print (0 for all)")
	return cmd
}

func printOrbit(w io.Writer, z complex128, r iteration.Result, limit int) {
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("pixel at %s", formatComplex(z))))
	printKeyValue(w, "iterations", formatCount(r.IterationCount))
	printKeyValue(w, "normalized", formatCount(r.NormalizedIterationCount))
	printKeyValue(w, "exponential", strconv.FormatFloat(r.ExponentialIterationCount, 'g', 6, 64))
	printKeyValue(w, "final z", formatComplex(r.Z()))
	printKeyValue(w, "avg distance", strconv.FormatFloat(r.AverageDistance, 'g', 6, 64))
	printKeyValue(w, "lyapunov", strconv.FormatFloat(r.Lyapunov, 'g', 6, 64))
	if r.RootIndex > 0 {
		printKeyValue(w, "converged", "yes")
	}

	pts := r.Orbit
	if limit > 0 && len(pts) > limit {
		pts = pts[:limit]
	}
	if len(pts) == 0 {
		return
	}
	rows := make([][]string, len(pts))
	for i, pt := range pts {
		rows[i] = []string{
			strconv.Itoa(i),
			strconv.FormatFloat(real(pt.Z), 'g', 8, 64),
			strconv.FormatFloat(imag(pt.Z), 'g', 8, 64),
			pt.Screen.String(),
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTable([]string{"Step", "Re", "Im", "Pixel"}, rows))
	if len(pts) < len(r.Orbit) {
		printDetail(w, "%d more points (use --limit 0)", len(r.Orbit)-len(pts))
	}
}

func formatCount(v float64) string {
	if math.IsInf(v, 1) {
		return "unbounded"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func formatComplex(z complex128) string {
	return fmt.Sprintf("%.6g%+.6gi", real(z), imag(z))
}
