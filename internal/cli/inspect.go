package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fractalplane/pkg/engine"
	"github.com/matzehuels/fractalplane/pkg/errors"
	fpio "github.com/matzehuels/fractalplane/pkg/io"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [frame.fpz]",
		Short: "Summarize a frame file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidatePath(args[0], false); err != nil {
				return err
			}
			frame, meta, err := fpio.ImportFrame(args[0])
			if err != nil {
				return err
			}
			printFrame(c.Out, frame, meta)
			return nil
		},
	}
}

// printFrame writes the metadata, outcome counts, roots and density of a frame.
func printFrame(w io.Writer, frame *engine.Frame, meta fpio.Meta) {
	buf := frame.Buffer
	sum := buf.Summarize()

	fmt.Fprintln(w, StyleTitle.Render(meta.Family+" frame"))
	printKeyValue(w, "mode", meta.Mode)
	if meta.Formula != "" {
		printKeyValue(w, "formula", meta.Formula)
	}
	printKeyValue(w, "size", fmt.Sprintf("%dx%d", buf.Width, buf.Height))
	printKeyValue(w, "created", meta.Created.Local().Format(time.DateTime))
	printKeyValue(w, "compute", frame.Elapsed.Round(time.Millisecond).String())
	printKeyValue(w, "checksum", fmt.Sprintf("%016x", buf.Checksum()))
	printKeyValue(w, "bounded", fmt.Sprintf("%d of %d", sum.Bounded, sum.Pixels))
	if sum.Converged > 0 {
		printKeyValue(w, "converged", strconv.Itoa(sum.Converged))
		printKeyValue(w, "max exp iter", strconv.FormatFloat(frame.MaxExpIterations, 'g', 6, 64))
	}

	if len(frame.Roots) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, len(frame.Roots))
		for i, z := range frame.Roots {
			rows[i] = []string{
				strconv.Itoa(i + 1),
				strconv.FormatFloat(real(z), 'f', 6, 64),
				strconv.FormatFloat(imag(z), 'f', 6, 64),
			}
		}
		fmt.Fprintln(w, renderTable([]string{"Root", "Re", "Im"}, rows))
	}

	if pdf := frame.PDF; pdf != nil {
		fmt.Fprintln(w)
		printKeyValue(w, "pdf domain", fmt.Sprintf("[%g, %g]", pdf.Min, pdf.Max))
		printKeyValue(w, "pdf bins", strconv.Itoa(len(pdf.Bins)))
		printKeyValue(w, "bandwidth", strconv.FormatFloat(pdf.Bandwidth, 'g', 4, 64))
		if mode := pdf.Mode(); !math.IsNaN(mode) {
			printKeyValue(w, "pdf mode", strconv.FormatFloat(mode, 'f', 2, 64))
		}
	}
}
