package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"

	svgo "github.com/ajstarks/svgo/float"

	"github.com/matzehuels/canopy/pkg/geom"
	"github.com/matzehuels/canopy/pkg/layout"
	"github.com/matzehuels/canopy/pkg/transition"
	"github.com/matzehuels/canopy/pkg/tree"
	"github.com/matzehuels/canopy/pkg/viewport"
	"github.com/matzehuels/canopy/pkg/widget"
)

// Node box geometry, relative to the node position.
const (
	BoxWidth  = 100.0
	BoxHeight = 20.0
	BoxRadius = 5.0
	InfoX     = BoxWidth/2 + 8
	InfoR     = 6.0
)

// Colors.
const (
	ColorBranch = "#555"
	ColorLeaf   = "#999"
	ColorLink   = "#555"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	transform viewport.Transform
	size      geom.Size
	popups    bool
	title     string
}

// WithTransform applies a viewport transform to the diagram group.
func WithTransform(t viewport.Transform) Option { return func(r *renderer) { r.transform = t } }

// WithSize sets the document size. Defaults to the frame's extent plus the
// default layout margins.
func WithSize(s geom.Size) Option { return func(r *renderer) { r.size = s } }

// WithPopups embeds metadata popups and the reset-view control.
func WithPopups() Option { return func(r *renderer) { r.popups = true } }

// WithTitle sets the document title.
func WithTitle(s string) Option { return func(r *renderer) { r.title = s } }

// RenderBytes renders to a byte slice.
func RenderBytes(t *tree.Tree, f transition.Frame, opts ...Option) []byte {
	var buf bytes.Buffer
	_ = Render(&buf, t, f, opts...)
	return buf.Bytes()
}

// Render writes one frame as an SVG document.
func Render(w io.Writer, t *tree.Tree, f transition.Frame, opts ...Option) error {
	r := renderer{transform: viewport.Identity}
	for _, opt := range opts {
		opt(&r)
	}
	if r.size.Empty() {
		r.size = frameSize(f)
	}

	ew := &errWriter{w: w}
	canvas := svgo.New(ew)
	canvas.Decimals = 3
	canvas.Start(r.size.W, r.size.H,
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(r.size.W), num(r.size.H)),
		`style="font: 12px sans-serif; user-select: none"`)
	if r.title != "" {
		canvas.Title(r.title)
	}

	canvas.Group(`id="viewport"`, fmt.Sprintf(`transform="%s"`, r.transform))
	renderLinks(canvas, f)
	renderNodes(canvas, t, f)
	canvas.Gend()

	if r.popups {
		renderPopups(canvas, t, f, r.size)
		renderReset(canvas, r.size, r.transform)
		canvas.Script("application/javascript", popupJS)
	}
	canvas.End()
	return ew.err
}

func renderLinks(canvas *svgo.SVG, f transition.Frame) {
	canvas.Group(`class="links"`, `fill="none"`, fmt.Sprintf(`stroke="%s"`, ColorLink), `stroke-opacity="0.4"`, `stroke-width="1.5"`)
	for _, e := range f.Edges {
		canvas.Path(e.Path, fmt.Sprintf(`id="link-%d"`, e.Key), fmt.Sprintf(`data-parent="%d"`, e.Parent))
	}
	canvas.Gend()
}

func renderNodes(canvas *svgo.SVG, t *tree.Tree, f transition.Frame) {
	canvas.Group(`class="nodes"`, `cursor="pointer"`, `pointer-events="all"`)
	for _, nf := range f.Nodes {
		n, ok := t.Node(nf.ID)
		if !ok {
			continue
		}
		fill := ColorLeaf
		if n.HasDescendants() {
			fill = ColorBranch
		}
		op := num(nf.Opacity)
		canvas.Group(
			fmt.Sprintf(`id="node-%d"`, nf.ID),
			`class="node"`,
			fmt.Sprintf(`data-id="%d"`, nf.ID),
			fmt.Sprintf(`data-state="%s"`, n.State),
			fmt.Sprintf(`transform="translate(%s,%s)"`, num(nf.Pos.X), num(nf.Pos.Y)),
			fmt.Sprintf(`fill-opacity="%s"`, op),
			fmt.Sprintf(`stroke-opacity="%s"`, op),
		)
		canvas.Title(n.Name)
		canvas.Roundrect(-BoxWidth/2, -BoxHeight/2, BoxWidth, BoxHeight, BoxRadius, BoxRadius,
			fmt.Sprintf(`fill="%s"`, fill), `stroke="#000"`, `stroke-width="1"`)
		canvas.Text(0, 0, n.Name, `dy="0.31em"`, `text-anchor="middle"`, `fill="white"`)
		canvas.Group(`class="info"`, fmt.Sprintf(`data-id="%d"`, nf.ID))
		canvas.Circle(InfoX, 0, InfoR, `fill="#fff"`, `stroke="#555"`)
		canvas.Text(InfoX, 0, "i", `dy="0.31em"`, `text-anchor="middle"`, `font-size="9"`, `fill="#555"`)
		canvas.Gend()
		canvas.Gend()
	}
	canvas.Gend()
}

func renderPopups(canvas *svgo.SVG, t *tree.Tree, f transition.Frame, size geom.Size) {
	const w, h = 260.0, 90.0
	x := math.Max(8, (size.W-w)/2)
	y := 8.0
	for _, nf := range f.Nodes {
		n, ok := t.Node(nf.ID)
		if !ok {
			continue
		}
		meta := n.Metadata
		if meta == "" {
			meta = widget.NoMetadata
		}
		canvas.Group(fmt.Sprintf(`id="popup-%d"`, nf.ID), `class="popup"`, `visibility="hidden"`)
		canvas.Roundrect(x, y, w, h, 6, 6, `fill="#fff"`, `stroke="#333"`)
		canvas.Text(x+12, y+22, n.Name, `font-weight="bold"`)
		canvas.Text(x+12, y+46, meta, `class="popup-metadata"`)
		canvas.Text(x+w-52, y+h-12, "Close", `class="popup-close"`, `fill="#06c"`, `cursor="pointer"`)
		canvas.Gend()
	}
}

func renderReset(canvas *svgo.SVG, size geom.Size, t viewport.Transform) {
	cx, cy := size.W-24, 24.0
	canvas.Group(`id="reset-view"`, `cursor="pointer"`, fmt.Sprintf(`data-fit="%s"`, t))
	canvas.Title("Reset view")
	canvas.Circle(cx, cy, 14, `fill="#fff"`, `stroke="#555"`)
	canvas.Text(cx, cy, "⟲", `dy="0.35em"`, `text-anchor="middle"`, `font-size="16"`, `fill="#555"`)
	canvas.Gend()
}

// frameSize mirrors the layout surface rule: extent plus right/bottom margin.
func frameSize(f transition.Frame) geom.Size {
	m := layout.DefaultMargin
	maxX, maxY := m.Left, m.Top
	for _, n := range f.Nodes {
		maxX = math.Max(maxX, n.Pos.X)
		maxY = math.Max(maxY, n.Pos.Y)
	}
	return geom.Size{W: maxX + m.Right, H: maxY + m.Bottom}
}

func num(v float64) string {
	v = math.Round(v*1000) / 1000
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

const popupJS = `(function () {
  var doc = document;
  function show(id) {
    doc.querySelectorAll('.popup').forEach(function (p) { p.setAttribute('visibility', 'hidden'); });
    var p = doc.getElementById('popup-' + id);
    if (p) p.setAttribute('visibility', 'visible');
  }
  doc.querySelectorAll('.info').forEach(function (el) {
    el.addEventListener('click', function (ev) { ev.stopPropagation(); show(el.dataset.id); });
  });
  doc.querySelectorAll('.popup-close').forEach(function (el) {
    el.addEventListener('click', function () { el.parentNode.setAttribute('visibility', 'hidden'); });
  });
  var reset = doc.getElementById('reset-view');
  if (reset) reset.addEventListener('click', function () {
    doc.getElementById('viewport').setAttribute('transform', reset.dataset.fit);
  });
})();`
