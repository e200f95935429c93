package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/brick/block"
	"github.com/ByLCY/brick/layout"
	"github.com/ByLCY/brick/renderer"
)

// 布局单位为像素，canvas 使用毫米。
const pxToMm = 25.4 / 96

const (
	outlineWidth   = 1.0 // px
	defaultMargin  = 10.0
	defaultColour  = "#5b80a5"
	highlightAlpha = 0.35
)

// Format selects the output document type.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "svg" or "pdf" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSVG, FormatPDF:
		return f, nil
	case "":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("不支持的输出格式 %q（可选 svg、pdf）", s)
	}
}

// Renderer paints workspace path descriptions via github.com/tdewolff/canvas.
// With a font loaded it also measures field text; without one it falls back
// to block.EstimateMeasurer and draws placeholder boxes instead of glyphs.
type Renderer struct {
	format   Format
	margin   float64
	fontSize float64 // px

	fontMu sync.Mutex
	family *canvas.FontFamily
	faces  map[string]*canvas.FontFace
}

var (
	_ renderer.Renderer  = (*Renderer)(nil)
	_ block.TextMeasurer = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	Format Format
	// FontPath 指向 TTF/OTF 字体文件；为空时不绘制文字。
	FontPath string
	// FontBytes 优先于 FontPath。
	FontBytes []byte
	FontSize  float64 // px
	Margin    float64 // px
}

// New creates a renderer. A font that cannot be read or parsed is an error.
func New(opts Options) (*Renderer, error) {
	r := &Renderer{
		format:   opts.Format,
		margin:   opts.Margin,
		fontSize: opts.FontSize,
		faces:    map[string]*canvas.FontFace{},
	}
	if r.format == "" {
		r.format = FormatSVG
	}
	if r.margin <= 0 {
		r.margin = defaultMargin
	}
	if r.fontSize <= 0 {
		r.fontSize = block.DefaultFontSize
	}
	data := opts.FontBytes
	if len(data) == 0 && opts.FontPath != "" {
		var err error
		if data, err = os.ReadFile(opts.FontPath); err != nil {
			return nil, fmt.Errorf("读取字体 %s 失败: %w", opts.FontPath, err)
		}
	}
	if len(data) > 0 {
		family := canvas.NewFontFamily("brick")
		if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体失败: %w", err)
		}
		r.family = family
	}
	return r, nil
}

// HasFont reports whether text is measured and drawn with a real font.
func (r *Renderer) HasFont() bool { return r.family != nil }

// MeasureText implements block.TextMeasurer in layout pixels.
func (r *Renderer) MeasureText(text string) (float64, float64) {
	face := r.face(color.Black)
	if face == nil {
		return block.EstimateMeasurer{FontSize: r.fontSize}.MeasureText(text)
	}
	m := face.Metrics()
	return face.TextWidth(text) / pxToMm, m.LineHeight / pxToMm
}

func (r *Renderer) face(col color.Color) *canvas.FontFace {
	if r.family == nil {
		return nil
	}
	key := colourKey(col)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if face, ok := r.faces[key]; ok {
		return face
	}
	// 字号以 pt 计：1px = 0.75pt
	face := r.family.Face(r.fontSize*0.75, col, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = face
	return face
}

// Render renders the result into the configured format.
func (r *Renderer) Render(result *layout.Result) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	var buf bytes.Buffer
	if err := r.RenderTo(&buf, result); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderTo writes the document to w.
func (r *Renderer) RenderTo(w io.Writer, result *layout.Result) error {
	if result == nil {
		return fmt.Errorf("渲染结果为空")
	}
	bounds := result.Bounds
	width := (bounds.Width + 2*r.margin) * pxToMm
	height := (bounds.Height + 2*r.margin) * pxToMm

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 与布局一致，左上角为原点
	offX, offY := r.margin-bounds.X, r.margin-bounds.Y
	for _, br := range result.Blocks {
		if br.Failed() {
			continue
		}
		r.drawBlock(ctx, br, offX+br.X, offY+br.Y)
	}

	switch r.format {
	case FormatPDF:
		writer := pdf.New(w, width, height, nil)
		writer.SetInfo("brick", "", "", "", "brick")
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case FormatSVG:
		writer := svg.New(w, width, height, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的输出格式 %q", r.format)
	}
	return nil
}

func (r *Renderer) drawBlock(ctx *canvas.Context, br *layout.BlockResult, x, y float64) {
	d := br.Drawing
	fill := ParseColour(br.Colour)
	stroke := darken(fill, 0.7)

	ctx.SetFillColor(fill)
	ctx.SetStrokeColor(stroke)
	ctx.SetStrokeWidth(outlineWidth * pxToMm)
	ctx.DrawPath(x*pxToMm, y*pxToMm, toCanvasPath(d.Outline))

	if d.Highlight != nil {
		ctx.SetFillColor(color.RGBA{})
		ctx.SetStrokeColor(lighten(fill, highlightAlpha))
		ctx.DrawPath(x*pxToMm, y*pxToMm, toCanvasPath(*d.Highlight))
	}

	ctx.SetFillColor(darken(fill, 0.85))
	ctx.SetStrokeColor(stroke)
	for _, cut := range d.Inline {
		ctx.DrawPath(x*pxToMm, y*pxToMm, toCanvasPath(cut.Path))
	}

	for _, pl := range d.Placements {
		r.drawPlacement(ctx, pl, x, y)
	}
}

func (r *Renderer) drawPlacement(ctx *canvas.Context, pl layout.Placement, x, y float64) {
	px, py := (x+pl.X)*pxToMm, (y+pl.Y)*pxToMm
	text := ""
	if s, ok := pl.Field.(fmt.Stringer); ok {
		text = s.String()
	}
	face := r.face(canvas.White)
	if face == nil || text == "" || pl.Kind != layout.KindField {
		// 没有字体（或图标、图片）时画出占位框。
		ctx.SetFillColor(color.RGBA{A: 0})
		ctx.SetStrokeColor(canvas.RGBA(1, 1, 1, 0.6))
		ctx.SetStrokeWidth(0.5 * pxToMm)
		ctx.DrawPath(px, py, canvas.Rectangle(pl.Width*pxToMm, pl.Height*pxToMm))
		return
	}
	align := canvas.Left
	anchor := px
	if pl.MirrorContent {
		align = canvas.Right
		anchor = px + pl.Width*pxToMm
	}
	m := face.Metrics()
	baseline := py + (pl.Height*pxToMm-m.LineHeight)/2 + m.Ascent
	ctx.DrawText(anchor, baseline, canvas.NewTextLine(face, text, align))
}

// toCanvasPath 把相对指令换算为 canvas 的绝对指令，单位转换为毫米。
func toCanvasPath(p layout.Path) *canvas.Path {
	out := &canvas.Path{}
	var pen, start, ctrl layout.Point
	hasCtrl := false
	for _, s := range p.Steps {
		a := s.Args
		smooth := false
		switch s.Op {
		case layout.OpMoveTo:
			pen = layout.Point{X: a[0], Y: a[1]}
			start = pen
			out.MoveTo(mm(pen.X), mm(pen.Y))
		case layout.OpHorizontal:
			pen.X = a[0]
			out.LineTo(mm(pen.X), mm(pen.Y))
		case layout.OpVertical:
			pen.Y = a[0]
			out.LineTo(mm(pen.X), mm(pen.Y))
		case layout.OpLine:
			pen = layout.Point{X: pen.X + a[0], Y: pen.Y + a[1]}
			out.LineTo(mm(pen.X), mm(pen.Y))
		case layout.OpCubic:
			c1 := layout.Point{X: pen.X + a[0], Y: pen.Y + a[1]}
			c2 := layout.Point{X: pen.X + a[2], Y: pen.Y + a[3]}
			pen = layout.Point{X: pen.X + a[4], Y: pen.Y + a[5]}
			out.CubeTo(mm(c1.X), mm(c1.Y), mm(c2.X), mm(c2.Y), mm(pen.X), mm(pen.Y))
			ctrl, smooth = c2, true
		case layout.OpSmoothCubic:
			c1 := pen
			if hasCtrl {
				c1 = layout.Point{X: 2*pen.X - ctrl.X, Y: 2*pen.Y - ctrl.Y}
			}
			c2 := layout.Point{X: pen.X + a[0], Y: pen.Y + a[1]}
			pen = layout.Point{X: pen.X + a[2], Y: pen.Y + a[3]}
			out.CubeTo(mm(c1.X), mm(c1.Y), mm(c2.X), mm(c2.Y), mm(pen.X), mm(pen.Y))
			ctrl, smooth = c2, true
		case layout.OpArc:
			pen = layout.Point{X: pen.X + a[2], Y: pen.Y + a[3]}
			out.ArcTo(mm(a[0]), mm(a[1]), 0, false, s.Sweep, mm(pen.X), mm(pen.Y))
		case layout.OpClose:
			out.Close()
			pen = start
		}
		hasCtrl = smooth
	}
	return out
}

func mm(px float64) float64 { return px * pxToMm }

// ParseColour 支持 #rgb、#rrggbb 与 0-360 的色相值；无法解析时使用默认颜色。
func ParseColour(s string) color.RGBA {
	s = strings.TrimSpace(s)
	if s == "" {
		s = defaultColour
	}
	if strings.HasPrefix(s, "#") {
		return canvas.Hex(s)
	}
	if hue, err := strconv.ParseFloat(s, 64); err == nil {
		return hueColour(hue)
	}
	return canvas.Hex(defaultColour)
}

// hueColour 按固定饱和度与明度把色相转换为 RGB。
func hueColour(hue float64) color.RGBA {
	const s, v = 0.45, 0.65
	h := math.Mod(math.Mod(hue, 360)+360, 360) / 60
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h, 2)-1))
	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = c, x
	case 1:
		r, g = x, c
	case 2:
		g, b = c, x
	case 3:
		g, b = x, c
	case 4:
		r, b = x, c
	default:
		r, b = c, x
	}
	m := v - c
	return color.RGBA{R: to8(r + m), G: to8(g + m), B: to8(b + m), A: 255}
}

func to8(v float64) uint8 { return uint8(math.Round(v * 255)) }

func darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

func lighten(c color.RGBA, f float64) color.RGBA {
	mix := func(v uint8) uint8 { return uint8(float64(v) + (255-float64(v))*f) }
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}

func colourKey(c color.Color) string {
	r, g, b, a := c.RGBA()
	return fmt.Sprintf("%d,%d,%d,%d", r, g, b, a)
}
