package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// 输出文件名(不含扩展名)
const (
	LineFile    = "energy_imports_lines"
	ScatterFile = "energy_imports_compare"
	BoxPlotFile = "energy_imports_boxplot"
)

// PlotRenderer 使用gonum/plot把图表写入文件，不阻塞
type PlotRenderer struct {
	Dir    string  // 输出目录
	Format string  // png / svg / pdf / jpg / tif / eps
	Width  float64 // 英寸
	Height float64 // 英寸

	Written []string // 已写出的文件
}

// NewPlotRenderer 创建文件渲染器
func NewPlotRenderer(dir, format string, width, height float64) *PlotRenderer {
	if format == "" {
		format = "png"
	}
	return &PlotRenderer{Dir: dir, Format: strings.ToLower(format), Width: width, Height: height}
}

func (r *PlotRenderer) RenderLineChart(c LineChart) error {
	p, err := LinePlot(c)
	if err != nil {
		return err
	}
	return r.save(p, LineFile)
}

func (r *PlotRenderer) RenderScatter(c ScatterChart) error {
	p, err := ScatterPlot(c)
	if err != nil {
		return err
	}
	return r.save(p, ScatterFile)
}

func (r *PlotRenderer) RenderBoxPlot(c BoxPlotChart) error {
	p, err := BoxPlot(c)
	if err != nil {
		return err
	}
	return r.save(p, BoxPlotFile)
}

func (r *PlotRenderer) save(p *plot.Plot, name string) error {
	if err := os.MkdirAll(r.Dir, 0755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(r.Dir, name+"."+r.Format)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := WritePlot(f, p, r.Width, r.Height, r.Format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.Written = append(r.Written, path)
	return nil
}

// WritePlot 按格式把图写入w，宽高单位为英寸
func WritePlot(w io.Writer, p *plot.Plot, width, height float64, format string) error {
	wt, err := p.WriterTo(vg.Length(width)*vg.Inch, vg.Length(height)*vg.Inch, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.TextStyle.Font.Size = vg.Points(14)
	p.Add(plotter.NewGrid())
	return p
}

// LinePlot 构建多序列折线图，横轴为分类位置 0..n-1
func LinePlot(c LineChart) (*plot.Plot, error) {
	p := newPlot(c.Title, c.XLabel, c.YLabel)

	for _, s := range c.Series {
		pts := make(plotter.XYs, 0, len(s.Values))
		for i, v := range s.Values {
			if math.IsNaN(v) {
				continue
			}
			pts = append(pts, plotter.XY{X: float64(i), Y: v})
		}
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", s.Name, err)
		}
		line.Color = s.Color
		line.Width = vg.Points(2)
		points.Shape = draw.CircleGlyph{}
		points.Color = s.Color
		points.Radius = vg.Points(3)

		p.Add(line, points)
		p.Legend.Add(s.Name, line, points)
	}

	nominalX(p, c.Categories)
	p.Legend.Top = true
	return p, nil
}

// ScatterPlot 构建散点对比图，并在绘图区内标注 Annotation
func ScatterPlot(c ScatterChart) (*plot.Plot, error) {
	p := newPlot(c.Title, c.XLabel, c.YLabel)

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, set := range c.Sets {
		if len(set.X) != len(set.Y) {
			return nil, fmt.Errorf("scatter %q: %d x values, %d y values", set.Name, len(set.X), len(set.Y))
		}
		xys := make(plotter.XYs, len(set.X))
		for i := range set.X {
			xys[i] = plotter.XY{X: set.X[i], Y: set.Y[i]}
			minX, maxX = math.Min(minX, set.X[i]), math.Max(maxX, set.X[i])
			minY, maxY = math.Min(minY, set.Y[i]), math.Max(maxY, set.Y[i])
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("scatter %q: %w", set.Name, err)
		}
		s.GlyphStyle.Color = set.Color
		s.GlyphStyle.Radius = vg.Points(6)
		s.GlyphStyle.Shape = glyph(set.Shape)
		p.Add(s)
		p.Legend.Add(set.Name, s)
	}

	if len(c.XTicks) > 0 {
		ticks := make([]plot.Tick, len(c.XTicks))
		for i, x := range c.XTicks {
			ticks[i] = plot.Tick{Value: x, Label: strconv.FormatFloat(x, 'f', -1, 64)}
		}
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	if c.Annotation != "" && !math.IsInf(minX, 1) {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: minX + 0.5*(maxX-minX), Y: minY + 0.1*(maxY-minY)}},
			Labels: []string{c.Annotation},
		})
		if err != nil {
			return nil, err
		}
		labels.TextStyle[0].Color = color.RGBA{R: 220, A: 255}
		labels.TextStyle[0].Font.Size = vg.Points(12)
		p.Add(labels)
	}

	p.Legend.Top = true
	return p, nil
}

// BoxPlot 构建组合箱线图，每个Box占一个分类位置
// 箱体统计量使用调用方给出的值，不用gonum重新计算
func BoxPlot(c BoxPlotChart) (*plot.Plot, error) {
	p := newPlot(c.Title, c.XLabel, c.YLabel)

	labels := make([]string, len(c.Boxes))
	if c.LegendTitle != "" {
		p.Legend.Add(c.LegendTitle)
	}
	for i, b := range c.Boxes {
		labels[i] = b.Label
		if len(b.Values) == 0 {
			continue
		}
		bp, err := plotter.NewBoxPlot(vg.Points(20), float64(i), plotter.Values(b.Values))
		if err != nil {
			return nil, fmt.Errorf("box %q: %w", b.Label, err)
		}
		bp.Min, bp.Max = b.Min, b.Max
		bp.Quartile1, bp.Median, bp.Quartile3 = b.Q1, b.Median, b.Q3
		bp.AdjLow, bp.AdjHigh = b.WhiskerLow, b.WhiskerHigh
		bp.Outside = append([]int(nil), b.Outliers...)
		bp.FillColor = b.Color
		p.Add(bp)
		p.Legend.Add(b.Label, swatch{c: b.Color})
	}

	nominalX(p, labels)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Legend.Top = true
	return p, nil
}

// nominalX 分类横轴，所有分类都保留位置
func nominalX(p *plot.Plot, names []string) {
	if len(names) == 0 {
		return
	}
	p.NominalX(names...)
	p.X.Min = -0.5
	p.X.Max = float64(len(names)) - 0.5
}

// swatch 图例中的纯色方块
type swatch struct {
	c color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	if s.c == nil {
		return
	}
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.c, pts)
}

func glyph(s Shape) draw.GlyphDrawer {
	switch s {
	case Triangle:
		return draw.TriangleGlyph{}
	default:
		return draw.CircleGlyph{}
	}
}
