package processor

import (
	"fmt"

	"EnergyImports/src/render"
	"EnergyImports/src/table"
)

// LineTitle 折线图标题，first/last 为首尾年份标签
func LineTitle(first, last string) string {
	return fmt.Sprintf("Energy Imports as a Percentage of Energy Use (%s-%s)", first, last)
}

// PlotAllSeries 每个国家一条折线，横轴为全部年份列
// 参数:
//
//	t: 通常为清洗后的数据表，缺失点会被跳过
//
// 返回值:
//
//	error: 渲染错误；空表或没有年份列时不出图，返回nil
func (p *DataProcessor) PlotAllSeries(t *table.Table) error {
	years := t.YearColumns()
	if t.Nrow() == 0 || len(years) == 0 {
		p.info(fmt.Sprintf("折线图跳过: %d 行, %d 个年份列", t.Nrow(), len(years)))
		return nil
	}

	rows := t.Nrow()
	if limit := p.dcfg.MaxSeries; limit > 0 && rows > limit {
		p.warn(fmt.Sprintf("折线图只绘制前 %d 个国家，省略 %d 个", limit, rows-limit))
		rows = limit
	}

	colors := render.SeriesColors(rows)
	chart := render.LineChart{
		Title:      LineTitle(years[0], years[len(years)-1]),
		XLabel:     XLabel,
		YLabel:     YLabel,
		Categories: years,
		Series:     make([]render.LineSeries, 0, rows),
	}
	for r := 0; r < rows; r++ {
		s := t.YearSeries(r)
		values := make([]float64, len(s.Points))
		for i, pt := range s.Points {
			// 缺失点为NaN，渲染时跳过
			values[i] = pt.Value
		}
		chart.Series = append(chart.Series, render.LineSeries{
			Name:   s.Country,
			Values: values,
			Color:  colors[r],
		})
	}

	if err := p.renderer.RenderLineChart(chart); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	p.info(fmt.Sprintf("折线图完成: %d 条线, 年份 %s-%s", len(chart.Series), years[0], years[len(years)-1]))
	return nil
}
