package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/errors"
	fpio "github.com/matzehuels/fractalplane/pkg/io"
	"github.com/matzehuels/fractalplane/pkg/pipeline"
)

// renderOpts holds the flags of the render command besides the frame itself.
type renderOpts struct {
	output  string
	tui     bool
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		frame frameFlags
		opts  renderOpts
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Compute a frame and write it to a .fpz file",
		Long: `Compute a frame and write it to a .fpz file.

The frame is split into blocks×blocks tiles that are iterated concurrently.
Family, view and engine settings come from --config, from flags, or both;
flags win. Frames are cached locally by configuration, so re-rendering the
same frame is instant unless --refresh or --no-cache is given.`,
		Example: `  fractalplane render --family newton --degree 5 -o newton.fpz
  fractalplane render -c deep-zoom.toml --blocks 80 --pdf --tui`,
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
			return c.runRender(cmd.Context(), pipeline.Options{
				Config:  cfg,
				Screen:  file.ScreenSize(),
				Engine:  file.EngineOptions(),
				Refresh: opts.refresh,
				Logger:  c.Logger.WithPrefix("render"),
			}, opts)
		},
	}

	frame.bind(cmd)
	frame.bindEngine(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <family>.fpz)")
	cmd.Flags().BoolVar(&opts.tui, "tui", false, "show an interactive progress view")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the frame is cached")

	return cmd
}

// runRender computes the frame and writes it.
func (c *CLI) runRender(ctx context.Context, popts pipeline.Options, opts renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	title := fmt.Sprintf("Computing %s", popts.Config.Kind)
	var spinner *Spinner
	if opts.tui {
		popts.OnBatch = func(b *engine.Batch) {
			m, err := followBatch(title, b)
			if err != nil || m.Aborted {
				cancel()
			}
		}
	} else {
		popts.OnBatch = func(b *engine.Batch) {
			spinner = newBatchSpinner(ctx, title, b)
			spinner.Start()
		}
	}

	res, err := runner.Execute(ctx, popts)
	if spinner != nil {
		if err != nil {
			spinner.StopWithError("Computation failed")
		} else {
			spinner.Stop()
		}
	}
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	output := opts.output
	if output == "" {
		output = defaultOutput(res.Meta)
	}
	if err := errors.ValidatePath(output, false); err != nil {
		return err
	}
	prog := newProgress(c.Logger)
	if err := fpio.ExportFrame(res.Frame, res.Meta, output); err != nil {
		return err
	}
	prog.done("Wrote " + output)

	printSuccess(c.Out, "Rendered %s frame %dx%d", res.Meta.Family, res.Frame.Buffer.Width, res.Frame.Buffer.Height)
	printStats(c.Out, frameStats{
		pixels:    res.Stats.Pixels,
		escaped:   res.Stats.Escaped,
		converged: res.Stats.Converged,
		roots:     res.Stats.Roots,
		cached:    res.CacheHit,
	})
	printFile(c.Out, output)
	printNextStep(c.Out, "Inspect", appName+" inspect "+output)
	return nil
}

// defaultOutput names the frame file after its family, mode and formula.
func defaultOutput(meta fpio.Meta) string {
	parts := []string{meta.Family}
	if f := slug(meta.Formula); f != "" && f != meta.Family {
		parts = append(parts, f)
	}
	if meta.Mode == "dual" {
		parts = append(parts, "dual")
	}
	return strings.Join(parts, "-") + fpio.Extension
}

// slug lowercases s and replaces every run of other characters with a dash.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
