package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/config"
	"github.com/matzehuels/fractalplane/pkg/errors"
	"github.com/matzehuels/fractalplane/pkg/fractal"
)

// frameFlags describes a frame on the command line. Flags that are set
// override the values of --config, which in turn override family defaults.
type frameFlags struct {
	configPath string

	family   string
	mode     string
	formula  string
	view     []float64
	dual     []float64
	maxIter  int
	escape   float64
	advanced bool

	power    float64
	degree   int
	sequence string

	width   int
	height  int
	blocks  int
	workers int
	seed    uint64

	pdf         bool
	legacyRoots bool
}

// bind registers the frame flags on cmd.
func (f *frameFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "TOML frame description")

	fl.StringVar(&f.family, "family", "", "family: divergent (default), newton, magnet, lyapunov")
	fl.StringVar(&f.mode, "mode", "", "main (default) or dual")
	fl.StringVar(&f.formula, "formula", "", "formula within the family (see 'families')")
	fl.Float64SliceVar(&f.view, "view", nil, "plane rectangle as minRe,minIm,maxRe,maxIm")
	fl.Float64SliceVar(&f.dual, "dual", nil, "fixed parameter for dual mode as re,im")
	fl.IntVar(&f.maxIter, "max-iter", 0, "iteration budget")
	fl.Float64Var(&f.escape, "escape", 0, "escape radius")
	fl.BoolVar(&f.advanced, "advanced", false, "compute curvature, striping, traps and distances")

	fl.Float64Var(&f.power, "power", 0, "exponent for the multibrot formula")
	fl.IntVar(&f.degree, "degree", 0, "polynomial degree for newton")
	fl.StringVar(&f.sequence, "sequence", "", "A/B sequence for lyapunov")

	fl.IntVar(&f.width, "width", 0, "frame width in pixels (default 800)")
	fl.IntVar(&f.height, "height", 0, "frame height in pixels (default 600)")

	families := make([]string, len(fractal.Kinds))
	for i, k := range fractal.Kinds {
		families[i] = string(k)
	}
	_ = cmd.RegisterFlagCompletionFunc("family", cobra.FixedCompletions(families, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions([]string{"main", "dual"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("formula", f.completeFormula)
}

// completeFormula offers the formulas of the family given by --family.
func (f *frameFlags) completeFormula(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	kind := fractal.KindDivergent
	if f.family != "" {
		k, err := fractal.ParseKind(f.family)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		kind = k
	}
	return kind.Formulas(), cobra.ShellCompDirectiveNoFileComp
}

// bindEngine registers the scheduling flags, which only matter when a frame
// is computed in blocks.
func (f *frameFlags) bindEngine(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVar(&f.blocks, "blocks", 0, "blocks per axis, 1-100 (default 50)")
	fl.IntVar(&f.workers, "workers", 0, "concurrent blocks (default NumCPU-1)")
	fl.Uint64Var(&f.seed, "seed", 0, "block shuffle seed")
	fl.BoolVar(&f.pdf, "pdf", false, "estimate the iteration count density")
	fl.BoolVar(&f.legacyRoots, "legacy-roots", false, "leave each root's first pixel unassigned")
}

// file merges --config with the flags that were explicitly set.
func (f *frameFlags) file(cmd *cobra.Command) (*config.File, error) {
	file := &config.File{}
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return nil, err
		}
		file = loaded
	}

	changed := cmd.Flags().Changed
	if changed("family") {
		file.Family.Kind = f.family
	}
	if changed("mode") {
		file.Family.Mode = f.mode
	}
	if changed("formula") {
		file.Family.Formula = f.formula
	}
	if changed("view") {
		if len(f.view) != 4 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "--view needs 4 values, got %d", len(f.view))
		}
		file.View = config.View{Min: f.view[:2], Max: f.view[2:]}
	}
	if changed("dual") {
		file.Family.Dual = f.dual
	}
	if changed("max-iter") {
		file.Family.MaxIterations = &f.maxIter
	}
	if changed("escape") {
		file.Family.EscapeRadius = &f.escape
	}
	if changed("advanced") {
		file.Family.Advanced = &f.advanced
	}
	if changed("power") {
		file.Divergent.Power = &f.power
	}
	if changed("degree") {
		file.Newton.Degree = &f.degree
	}
	if changed("sequence") {
		file.Lyapunov.Sequence = f.sequence
	}
	if changed("width") {
		file.Screen.Width = f.width
	}
	if changed("height") {
		file.Screen.Height = f.height
	}
	if changed("blocks") {
		file.Engine.Blocks = f.blocks
	}
	if changed("workers") {
		file.Engine.Workers = f.workers
	}
	if changed("seed") {
		file.Engine.Seed = f.seed
	}
	if changed("pdf") {
		file.Engine.PDF = f.pdf
	}
	if changed("legacy-roots") {
		file.Engine.LegacyRoots = f.legacyRoots
	}
	return file, nil
}
