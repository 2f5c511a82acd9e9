package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canopy/pkg/config"
	cerrors "github.com/matzehuels/canopy/pkg/errors"
	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/render/nodelink"
	"github.com/matzehuels/canopy/pkg/render/svg"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/widget"
)

const (
	formatSVG  = "svg"
	formatPNG  = "png"
	formatDOT  = "dot"
	formatJSON = "json"

	defaultWidth  = 960 // default container width in pixels
	defaultHeight = 600 // default container height in pixels
	stdoutPath    = "-"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple outputs); "-" for stdout
	formats  []string // output formats: "svg", "png", "dot", "json"
	toggles  []int    // node ids toggled in order before rendering
	width    float64  // container width in pixels
	height   float64  // container height in pixels
	frames   int      // intermediate frames of the last transition, 0 for none
	popups   bool     // embed metadata popups and the reset control
	detailed bool     // ids, state and metadata in DOT labels
	all      bool     // include hidden nodes in DOT output
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		width:  defaultWidth,
		height: defaultHeight,
		popups: true,
	}

	cmd := &cobra.Command{
		Use:   "render [file|sample]",
		Short: "Render a tree to SVG, PNG, DOT or JSON",
		Long: `Render lays out the tree, applies --toggle clicks in order and writes the
settled result. JSON output is the update log: one entry for the initial
mount and one per toggle, each with its layout and enter/update/exit diff.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			items, name, err := c.loadItems(args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cfg, items, name, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	cmd.Flags().IntSliceVarP(&opts.toggles, "toggle", "t", nil, "node ids to toggle before rendering, in order")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "container width")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "container height")
	cmd.Flags().IntVar(&opts.frames, "frames", 0, "also write N frames of the last transition (svg)")
	cmd.Flags().BoolVar(&opts.popups, "popups", opts.popups, "embed metadata popups and the reset control (svg)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids, state and metadata (dot, png)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "include hidden nodes (dot, png)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["svg"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{formatSVG}
	}
	return strings.Split(s, ",")
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{formatSVG: true, formatPNG: true, formatDOT: true, formatJSON: true}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return cerrors.New(cerrors.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg', 'png', 'dot', or 'json')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and dataset name.
// A known format extension on output is stripped.
func basePath(output, name string) string {
	if output == "" {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// playback is a widget driven through a sequence of toggles.
type playback struct {
	w       *widget.Widget
	updates []widget.Update
}

// play mounts a widget on a fixed surface and applies toggles in order.
func play(ctx context.Context, items []tree.Item, opts widget.Options, size geom.Size, toggles []int) (*playback, error) {
	w := widget.New(items, opts)
	u, ok := w.Mount(ctx, widget.FixedSurface(size))
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeSurfaceNotReady, "container size %vx%v is empty", size.W, size.H)
	}
	pb := &playback{w: w, updates: []widget.Update{u}}
	for _, id := range toggles {
		u, err := w.Toggle(ctx, tree.ID(id))
		if err != nil {
			return nil, fmt.Errorf("toggle %d: %w", id, err)
		}
		pb.updates = append(pb.updates, u)
	}
	return pb, nil
}

func (c *CLI) runRender(ctx context.Context, cfg *config.Config, items []tree.Item, name string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	wopts := cfg.WidgetOptions()
	wopts.Logger = logger
	pb, err := play(ctx, items, wopts, geom.Size{W: opts.width, H: opts.height}, opts.toggles)
	if err != nil {
		return err
	}
	logger.Debugf("Played %d toggles, %d nodes visible", len(opts.toggles), len(pb.w.Tree().Visible()))

	base := basePath(opts.output, name)
	for _, format := range opts.formats {
		data, err := c.renderFormat(ctx, pb, format, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
		path := base + "." + format
		if opts.output == stdoutPath {
			path = stdoutPath
		} else if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := c.writeOutput(path, data); err != nil {
			return err
		}
	}

	if opts.frames > 0 {
		if opts.output == stdoutPath {
			return cerrors.New(cerrors.ErrCodeInvalidInput, "--frames needs a file output")
		}
		if err := c.writeFrames(pb, base, opts); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Rendered %s", name))
	return nil
}

func (c *CLI) renderFormat(ctx context.Context, pb *playback, format string, opts *renderOpts) ([]byte, error) {
	switch format {
	case formatSVG:
		return svg.RenderBytes(pb.w.Tree(), pb.w.Settled(), c.svgOptions(pb, opts)...), nil
	case formatJSON:
		return json.MarshalIndent(pb.updates, "", "  ")
	case formatDOT:
		return []byte(c.dot(pb, opts)), nil
	case formatPNG:
		spin := newSpinnerWithContext(ctx, "Rendering PNG with Graphviz")
		spin.Start()
		data, err := nodelink.RenderPNG(ctx, c.dot(pb, opts))
		spin.Stop()
		return data, err
	}
	return nil, cerrors.New(cerrors.ErrCodeUnsupported, "format %s", format)
}

func (c *CLI) dot(pb *playback, opts *renderOpts) string {
	return nodelink.ToDOT(pb.w.Tree(), nodelink.Options{Detailed: opts.detailed, All: opts.all})
}

func (c *CLI) svgOptions(pb *playback, opts *renderOpts) []svg.Option {
	out := []svg.Option{
		svg.WithTransform(pb.w.Transform()),
		svg.WithSize(pb.w.Surface()),
		svg.WithTitle(appName),
	}
	if opts.popups {
		out = append(out, svg.WithPopups())
	}
	return out
}

// writeFrames writes base_frame_NN.svg for each sampled frame of the last
// transition.
func (c *CLI) writeFrames(pb *playback, base string, opts *renderOpts) error {
	frames := pb.w.Frames(opts.frames)
	sopts := c.svgOptions(pb, opts)
	for i, f := range frames {
		path := fmt.Sprintf("%s_frame_%02d.svg", base, i)
		if err := c.writeOutput(path, svg.RenderBytes(pb.w.Tree(), f, sopts...)); err != nil {
			return err
		}
	}
	return nil
}

func (c *CLI) writeOutput(path string, data []byte) error {
	if path == stdoutPath {
		_, err := io.Copy(c.out, bytes.NewReader(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(c.out, path)
	return nil
}
