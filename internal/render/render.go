// Package render draws bead grids as printable pattern sheets.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jmylchreest/beadgrid/internal/colour"
	"github.com/jmylchreest/beadgrid/internal/pixelate"
)

const (
	// DefaultCellSize is the edge length of one bead in pixels.
	DefaultCellSize = 30

	// DefaultGridInterval is the number of cells between thick grid lines.
	DefaultGridInterval = 10

	titleBarHeight = 40
	statsPadding   = 20
	statsRowHeight = 24
	statsSwatch    = 18
	statsItemWidth = 140
	minLabelCell   = 14
)

// DefaultGridLineColour is the colour of the thick grid lines.
var DefaultGridLineColour = colour.MustParseHex("#555555")

var (
	cellBorder  = colour.MustParseHex("#DDDDDD")
	axisFill    = colour.MustParseHex("#F5F5F5")
	axisText    = colour.MustParseHex("#333333")
	axisBorder  = colour.MustParseHex("#AAAAAA")
	statsText   = colour.MustParseHex("#333333")
	titleStops  = []colour.RGB{colour.MustParseHex("#4F46E5"), colour.MustParseHex("#7C3AED"), colour.MustParseHex("#C026D3")}
	face        = basicfont.Face7x13
	faceAscent  = face.Metrics().Ascent.Ceil()
	faceDescent = face.Metrics().Descent.Ceil()
	faceAdvance = face.Advance
)

// Options configures GridImage.
type Options struct {
	// CellSize is the bead size in pixels. Default: DefaultCellSize.
	CellSize int

	// HideKeys suppresses the key label drawn on each bead.
	HideKeys bool

	// ShowGrid draws a thick line every GridInterval cells.
	ShowGrid bool

	// GridInterval is the spacing of thick grid lines and coordinate labels.
	// Default: DefaultGridInterval.
	GridInterval int

	// GridLineColour is the thick grid line colour. nil uses DefaultGridLineColour.
	GridLineColour *colour.RGB

	// ShowCoordinates adds numbered axes above and left of the grid.
	ShowCoordinates bool

	// IncludeStats appends the bead count legend below the grid.
	IncludeStats bool

	// Title adds a title bar when not empty.
	Title string
}

func (o Options) withDefaults() Options {
	if o.CellSize <= 0 {
		o.CellSize = DefaultCellSize
	}
	if o.GridInterval <= 0 {
		o.GridInterval = DefaultGridInterval
	}
	if o.GridLineColour == nil {
		c := DefaultGridLineColour
		o.GridLineColour = &c
	}
	return o
}

// layout holds the computed geometry of a pattern sheet.
type layout struct {
	width, height int
	title         int
	axis          int
	gridOrigin    image.Point
	gridW, gridH  int
	statsTop      int
	statsHeight   int
}

func computeLayout(res *pixelate.Result, o Options) layout {
	l := layout{
		gridW: res.Grid.Cols * o.CellSize,
		gridH: res.Grid.Rows * o.CellSize,
	}
	if o.Title != "" {
		l.title = titleBarHeight
	}
	if o.ShowCoordinates {
		l.axis = max(30, o.CellSize)
	}
	l.gridOrigin = image.Pt(l.axis, l.title+l.axis)
	l.width = l.axis + l.gridW
	l.statsTop = l.gridOrigin.Y + l.gridH

	if o.IncludeStats && len(res.Counts) > 0 {
		l.width = max(l.width, statsItemWidth+2*statsPadding)
		l.statsHeight = statsHeight(len(res.Counts), l.width)
	}
	l.height = l.statsTop + l.statsHeight
	return l
}

// GridImage renders res as a pattern sheet.
func GridImage(res *pixelate.Result, opts Options) (*image.RGBA, error) {
	if res == nil || res.Grid == nil {
		return nil, fmt.Errorf("no grid to render")
	}
	o := opts.withDefaults()
	l := computeLayout(res, o)

	img := image.NewRGBA(image.Rect(0, 0, l.width, l.height))
	fillRect(img, img.Bounds(), colour.White)

	if l.title > 0 {
		drawTitleBar(img, image.Rect(0, 0, l.width, l.title), o.Title)
	}
	if o.ShowCoordinates {
		drawAxes(img, l, res.Grid.Cols, res.Grid.Rows, o)
	}
	drawCells(img, l, res.Grid, o)
	if o.ShowGrid {
		drawGridLines(img, l, res.Grid.Cols, res.Grid.Rows, o)
	}
	strokeRect(img, image.Rectangle{Min: l.gridOrigin, Max: l.gridOrigin.Add(image.Pt(l.gridW, l.gridH))}, colour.Black, 2)

	if l.statsHeight > 0 {
		drawStats(img, image.Rect(0, l.statsTop, l.width, l.statsTop+l.statsHeight), res.Counts, res.Total)
	}

	return img, nil
}

// StatsImage renders only the bead count legend.
func StatsImage(counts pixelate.ColourCounts, width int) (*image.RGBA, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("no colour counts to render")
	}
	if width <= 0 {
		width = 4*statsItemWidth + 2*statsPadding
	}
	h := statsHeight(len(counts), width)
	img := image.NewRGBA(image.Rect(0, 0, width, h))
	fillRect(img, img.Bounds(), colour.White)
	drawStats(img, img.Bounds(), counts, counts.Total())
	return img, nil
}

// Preview renders one pixel per bead, external cells white, scaled up with
// nearest neighbour sampling to at most maxWidth pixels wide.
func Preview(res *pixelate.Result, maxWidth int) (*image.RGBA, error) {
	if res == nil || res.Grid == nil {
		return nil, fmt.Errorf("no grid to render")
	}
	g := res.Grid

	small := image.NewRGBA(image.Rect(0, 0, g.Cols, g.Rows))
	for row := range g.Rows {
		for col := range g.Cols {
			small.SetRGBA(col, row, cellColour(g.At(col, row)).RGBA())
		}
	}

	scale := 1
	if maxWidth > g.Cols {
		scale = maxWidth / g.Cols
	}
	if scale == 1 {
		return small, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, g.Cols*scale, g.Rows*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), small, small.Bounds(), draw.Src, nil)
	return dst, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// cellColour returns the fill of a cell: its bead colour, or white for
// external cells and unparsable colours.
func cellColour(c pixelate.Cell) colour.RGB {
	if c.External {
		return colour.White
	}
	rgb, ok := colour.ParseHex(c.Hex)
	if !ok {
		return colour.White
	}
	return rgb
}

func drawTitleBar(img *image.RGBA, r image.Rectangle, title string) {
	stops := make([]colorful.Color, len(titleStops))
	for i, s := range titleStops {
		stops[i] = colorful.Color{R: float64(s.R) / 255, G: float64(s.G) / 255, B: float64(s.B) / 255}
	}

	w := max(1, r.Dx()-1)
	segments := len(stops) - 1
	for x := r.Min.X; x < r.Max.X; x++ {
		t := float64(x-r.Min.X) / float64(w) * float64(segments)
		seg := min(int(t), segments-1)
		c := stops[seg].BlendRgb(stops[seg+1], t-float64(seg)).Clamped()
		r8, g8, b8 := c.RGB255()
		fillRect(img, image.Rect(x, r.Min.Y, x+1, r.Max.Y), colour.RGB{R: r8, G: g8, B: b8})
	}

	drawText(img, title, r.Min.X+r.Dy()/2, textBaseline(r.Min.Y, r.Dy()), colour.White)
}

func drawAxes(img *image.RGBA, l layout, cols, rows int, o Options) {
	top := image.Rect(l.gridOrigin.X, l.title, l.gridOrigin.X+l.gridW, l.gridOrigin.Y)
	left := image.Rect(0, l.gridOrigin.Y, l.axis, l.gridOrigin.Y+l.gridH)
	fillRect(img, top, axisFill)
	fillRect(img, left, axisFill)

	for i := range cols {
		if !axisLabelled(i, cols, o.GridInterval) {
			continue
		}
		label := strconv.Itoa(i + 1)
		cx := l.gridOrigin.X + i*o.CellSize + o.CellSize/2
		drawText(img, label, cx-textWidth(label)/2, textBaseline(top.Min.Y, top.Dy()), axisText)
	}
	for j := range rows {
		if !axisLabelled(j, rows, o.GridInterval) {
			continue
		}
		label := strconv.Itoa(j + 1)
		y := l.gridOrigin.Y + j*o.CellSize
		drawText(img, label, l.axis-4-textWidth(label), textBaseline(y, o.CellSize), axisText)
	}

	fillRect(img, image.Rect(top.Min.X, top.Max.Y-1, top.Max.X, top.Max.Y), axisBorder)
	fillRect(img, image.Rect(left.Max.X-1, left.Min.Y, left.Max.X, left.Max.Y), axisBorder)
}

// axisLabelled reports whether index i gets a coordinate label: the first and
// last cells and every interval-th cell.
func axisLabelled(i, n, interval int) bool {
	return i == 0 || i == n-1 || (i+1)%interval == 0
}

func drawCells(img *image.RGBA, l layout, g *pixelate.Grid, o Options) {
	showKeys := !o.HideKeys && o.CellSize >= minLabelCell
	for row := range g.Rows {
		for col := range g.Cols {
			c := g.At(col, row)
			x := l.gridOrigin.X + col*o.CellSize
			y := l.gridOrigin.Y + row*o.CellSize
			r := image.Rect(x, y, x+o.CellSize, y+o.CellSize)

			fill := cellColour(c)
			fillRect(img, r, fill)
			if showKeys && !c.External {
				tw := textWidth(c.Key)
				drawText(img, c.Key, x+(o.CellSize-tw)/2, textBaseline(y, o.CellSize), colour.ContrastText(fill))
			}
			strokeRect(img, r, cellBorder, 1)
		}
	}
}

func drawGridLines(img *image.RGBA, l layout, cols, rows int, o Options) {
	lc := *o.GridLineColour
	for i := o.GridInterval; i < cols; i += o.GridInterval {
		x := l.gridOrigin.X + i*o.CellSize
		fillRect(img, image.Rect(x-1, l.gridOrigin.Y, x+1, l.gridOrigin.Y+l.gridH), lc)
	}
	for j := o.GridInterval; j < rows; j += o.GridInterval {
		y := l.gridOrigin.Y + j*o.CellSize
		fillRect(img, image.Rect(l.gridOrigin.X, y-1, l.gridOrigin.X+l.gridW, y+1), lc)
	}
}

// statsColumns returns how many legend columns fit in width.
func statsColumns(width int) int {
	return max(1, min(4, (width-2*statsPadding)/statsItemWidth))
}

func statsHeight(entries, width int) int {
	rows := (entries + statsColumns(width) - 1) / statsColumns(width)
	return 2*statsPadding + statsRowHeight*(rows+2)
}

func drawStats(img *image.RGBA, r image.Rectangle, counts pixelate.ColourCounts, total int) {
	x0 := r.Min.X + statsPadding
	y := r.Min.Y + statsPadding

	drawText(img, fmt.Sprintf("Colours: %d", len(counts)), x0, textBaseline(y, statsRowHeight), statsText)
	fillRect(img, image.Rect(x0, y+statsRowHeight-2, r.Max.X-statsPadding, y+statsRowHeight-1), cellBorder)
	y += statsRowHeight

	cols := statsColumns(r.Dx())
	itemWidth := (r.Dx() - 2*statsPadding) / cols
	for i, key := range counts.SortedKeys() {
		entry := counts[key]
		ix := x0 + (i%cols)*itemWidth
		iy := y + (i/cols)*statsRowHeight
		swatchTop := iy + (statsRowHeight-statsSwatch)/2

		swatch := image.Rect(ix, swatchTop, ix+statsSwatch, swatchTop+statsSwatch)
		rgb, ok := colour.ParseHex(entry.Hex)
		if !ok {
			rgb = colour.White
		}
		fillRect(img, swatch, rgb)
		strokeRect(img, swatch, colour.Black, 1)
		drawText(img, fmt.Sprintf("%s: %d", key, entry.Count), ix+statsSwatch+6, textBaseline(iy, statsRowHeight), statsText)
	}

	rows := (len(counts) + cols - 1) / cols
	y += rows * statsRowHeight
	drawText(img, fmt.Sprintf("Total: %d beads", total), x0, textBaseline(y, statsRowHeight), statsText)
}

func fillRect(img *image.RGBA, r image.Rectangle, c colour.RGB) {
	draw.Draw(img, r, image.NewUniform(c.RGBA()), image.Point{}, draw.Src)
}

// strokeRect draws the inside edge of r with the given thickness.
func strokeRect(img *image.RGBA, r image.Rectangle, c colour.RGB, thickness int) {
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thickness), c)
	fillRect(img, image.Rect(r.Min.X, r.Max.Y-thickness, r.Max.X, r.Max.Y), c)
	fillRect(img, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thickness, r.Max.Y), c)
	fillRect(img, image.Rect(r.Max.X-thickness, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawText(img *image.RGBA, s string, x, baseline int, c colour.RGB) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.RGBA()),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// textBaseline returns the baseline that centres a line of text vertically in
// a band starting at top.
func textBaseline(top, height int) int {
	return top + (height+faceAscent-faceDescent)/2
}

func textWidth(s string) int {
	return len(s) * faceAdvance
}
