// Package render 定义图表渲染能力
//
// 绘图流程只产出图表描述(LineChart / ScatterChart / BoxPlotChart)，
// 由 Renderer 决定写文件、写缓冲区还是什么都不做。
package render

import "image/color"

// Renderer 三种图表的渲染能力
type Renderer interface {
	RenderLineChart(c LineChart) error
	RenderScatter(c ScatterChart) error
	RenderBoxPlot(c BoxPlotChart) error
}

// LineSeries 折线图中的一条线，Values 与 LineChart.Categories 一一对应
type LineSeries struct {
	Name   string
	Values []float64
	Color  color.Color
}

// LineChart 多序列折线图，横轴为分类(年份标签)
type LineChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Categories []string
	Series     []LineSeries
}

// ScatterSet 散点图中的一组点
type ScatterSet struct {
	Name  string
	X     []float64
	Y     []float64
	Color color.Color
	Shape Shape
}

// ScatterChart 散点图，Annotation 显示在绘图区内
type ScatterChart struct {
	Title      string
	XLabel     string
	YLabel     string
	Sets       []ScatterSet
	XTicks     []float64
	Annotation string
}

// Box 一个箱线图，Outliers 为 Values 中离群点的下标
type Box struct {
	Label       string
	Values      []float64
	Min         float64
	Q1          float64
	Median      float64
	Q3          float64
	Max         float64
	WhiskerLow  float64
	WhiskerHigh float64
	Outliers    []int
	Color       color.Color
}

// BoxPlotChart 多个箱线图共享同一坐标轴，按顺序从左到右排列
type BoxPlotChart struct {
	Title       string
	XLabel      string
	YLabel      string
	LegendTitle string
	Boxes       []Box
}

// Shape 散点形状
type Shape int

const (
	Circle Shape = iota
	Triangle
)

// Nop 不做任何渲染
type Nop struct{}

func (Nop) RenderLineChart(LineChart) error  { return nil }
func (Nop) RenderScatter(ScatterChart) error { return nil }
func (Nop) RenderBoxPlot(BoxPlotChart) error { return nil }

// Capture 记录收到的图表描述，用于测试和快照
type Capture struct {
	Lines    []LineChart
	Scatters []ScatterChart
	Boxes    []BoxPlotChart
}

func (c *Capture) RenderLineChart(ch LineChart) error {
	c.Lines = append(c.Lines, ch)
	return nil
}

func (c *Capture) RenderScatter(ch ScatterChart) error {
	c.Scatters = append(c.Scatters, ch)
	return nil
}

func (c *Capture) RenderBoxPlot(ch BoxPlotChart) error {
	c.Boxes = append(c.Boxes, ch)
	return nil
}
