package processor

import (
	"fmt"

	"EnergyImports/src/render"
	"EnergyImports/src/table"
)

// PlotYearlyBoxplots 每个年份列一个箱线图，组合在同一张图中
// 缺失值只在当前年份列内剔除；没有取值的年份保留位置但不画箱体
// 返回值:
//
//	[]BoxSummary: 按列顺序的统计结果
//	error: 渲染错误
func (p *DataProcessor) PlotYearlyBoxplots(t *table.Table) ([]BoxSummary, error) {
	years := t.YearColumns()
	if t.Nrow() == 0 || len(years) == 0 {
		p.info(fmt.Sprintf("箱线图跳过: %d 行, %d 个年份列", t.Nrow(), len(years)))
		return nil, nil
	}

	summaries := make([]BoxSummary, 0, len(years))
	for _, y := range years {
		values := t.PresentValues(y)
		fmt.Fprintf(p.out, "Data for %s: %v\n", y, values)

		s := Summarize(y, values)
		if s.Empty() {
			p.info(fmt.Sprintf("年份 %s 没有数据，不绘制箱体", y))
		} else if len(s.Outliers) > 0 {
			p.info(fmt.Sprintf("年份 %s 离群点: %v", y, s.Outliers))
		}
		summaries = append(summaries, s)
	}

	colors := render.Gradient(len(years))
	chart := render.BoxPlotChart{
		Title:       BoxPlotTitle,
		XLabel:      XLabel,
		YLabel:      YLabel,
		LegendTitle: BoxPlotLegend,
		Boxes:       make([]render.Box, len(summaries)),
	}
	for i, s := range summaries {
		chart.Boxes[i] = render.Box{
			Label:       s.Year,
			Values:      s.Values,
			Min:         s.Min,
			Q1:          s.Q1,
			Median:      s.Median,
			Q3:          s.Q3,
			Max:         s.Max,
			WhiskerLow:  s.WhiskerLow,
			WhiskerHigh: s.WhiskerHigh,
			Outliers:    s.OutlierIdx,
			Color:       colors[i],
		}
	}

	if err := p.renderer.RenderBoxPlot(chart); err != nil {
		return summaries, fmt.Errorf("render box plot: %w", err)
	}
	return summaries, nil
}
