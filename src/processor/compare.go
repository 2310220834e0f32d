package processor

import (
	"fmt"
	"image/color"
	"strconv"

	"EnergyImports/src/errs"
	"EnergyImports/src/render"
	"EnergyImports/src/table"
)

// YearPair 同一年份两国的取值
type YearPair struct {
	Year string
	A    float64
	B    float64
}

// CorrelationResult 两国对比结果
type CorrelationResult struct {
	CountryA    string
	CountryB    string
	StartYear   int
	EndYear     int
	Pairs       []YearPair // 两国都有取值的年份
	Correlation float64    // 任一方方差为0时为NaN
}

// XS 国家A的取值
func (r *CorrelationResult) XS() []float64 {
	out := make([]float64, len(r.Pairs))
	for i, p := range r.Pairs {
		out[i] = p.A
	}
	return out
}

// YS 国家B的取值
func (r *CorrelationResult) YS() []float64 {
	out := make([]float64, len(r.Pairs))
	for i, p := range r.Pairs {
		out[i] = p.B
	}
	return out
}

// InsufficientDataMessage 对比数据不足时的提示
func InsufficientDataMessage(minPoints int) string {
	return fmt.Sprintf("Error: Insufficient data for comparison. Minimum %d years of data required for both countries.", minPoints)
}

// CompareTitle 散点图标题
func CompareTitle(a, b string) string {
	return fmt.Sprintf("Energy Imports Comparison\n(%s vs %s)", a, b)
}

// 散点颜色
var (
	compareColorA = color.RGBA{G: 128, A: 255}
	compareColorB = color.RGBA{B: 255, A: 255}
)

// Compare 对比两个国家在[start, end]年份间的能源进口
// 参数:
//
//	t: 数据表(未清洗，缺失值按年份成对剔除)
//	countryA, countryB: 国家名，精确匹配，重名取第一行
//	start, end: 起止年份(含)
//
// 返回值:
//
//	*CorrelationResult: 对比结果
//	error: 国家或年份不存在返回 errs.NotFoundError；
//	       年份范围颠倒或有效年份少于 MinPoints 返回 errs.ValidationError
func (p *DataProcessor) Compare(t *table.Table, countryA, countryB string, start, end int) (*CorrelationResult, error) {
	if start > end {
		return nil, errs.NewValidation("year_range", "start year %d is after end year %d", start, end)
	}

	rowA, err := p.rowFor(t, countryA)
	if err != nil {
		return nil, err
	}
	rowB, err := p.rowFor(t, countryB)
	if err != nil {
		return nil, err
	}

	from, err := yearIndex(t, start)
	if err != nil {
		return nil, err
	}
	to, err := yearIndex(t, end)
	if err != nil {
		return nil, err
	}

	sa := t.SliceSeries(rowA, from, to)
	sb := t.SliceSeries(rowB, from, to)
	res := &CorrelationResult{CountryA: countryA, CountryB: countryB, StartYear: start, EndYear: end}
	for i := range sa.Points {
		a, b := sa.Points[i], sb.Points[i]
		if !a.Present || !b.Present {
			continue
		}
		res.Pairs = append(res.Pairs, YearPair{Year: a.Year, A: a.Value, B: b.Value})
	}

	minPoints := p.dcfg.MinPoints
	if len(res.Pairs) < minPoints {
		fmt.Fprintln(p.out, InsufficientDataMessage(minPoints))
		return nil, errs.NewValidation("compare", "%d usable years for %s and %s, need at least %d",
			len(res.Pairs), countryA, countryB, minPoints)
	}

	var ok bool
	res.Correlation, ok = Pearson(res.XS(), res.YS())
	if !ok {
		p.warn(fmt.Sprintf("%s 与 %s 的数据方差为0，相关系数为NaN", countryA, countryB))
	}

	fmt.Fprintf(p.out, "Correlation between %s and %s for the years %d-%d: %.2f\n",
		countryA, countryB, start, end, res.Correlation)
	for _, pr := range res.Pairs {
		fmt.Fprintf(p.out, "Data for %s in %s: %s%%\n", countryA, pr.Year, formatValue(pr.A))
		fmt.Fprintf(p.out, "Data for %s in %s: %s%%\n", countryB, pr.Year, formatValue(pr.B))
		fmt.Fprintln(p.out, "---")
	}

	if err := p.renderer.RenderScatter(scatterChart(res)); err != nil {
		return res, fmt.Errorf("render scatter: %w", err)
	}
	return res, nil
}

func scatterChart(res *CorrelationResult) render.ScatterChart {
	years := make([]float64, len(res.Pairs))
	for i, pr := range res.Pairs {
		years[i], _ = strconv.ParseFloat(pr.Year, 64)
	}
	return render.ScatterChart{
		Title:  CompareTitle(res.CountryA, res.CountryB),
		XLabel: XLabel,
		YLabel: YLabel,
		Sets: []render.ScatterSet{
			{Name: res.CountryA, X: years, Y: res.XS(), Color: compareColorA, Shape: render.Circle},
			{Name: res.CountryB, X: years, Y: res.YS(), Color: compareColorB, Shape: render.Triangle},
		},
		XTicks:     years,
		Annotation: fmt.Sprintf("Correlation: %.2f", res.Correlation),
	}
}

func (p *DataProcessor) rowFor(t *table.Table, country string) (int, error) {
	rows := t.RowsFor(country)
	if len(rows) == 0 {
		return -1, errs.NewNotFound("country", country)
	}
	if len(rows) > 1 {
		p.warn(fmt.Sprintf("国家 %q 出现 %d 次，使用第 %d 行", country, len(rows), rows[0]+1))
	}
	return rows[0], nil
}

// yearIndex 返回年份标签所在列，元数据列不算
func yearIndex(t *table.Table, year int) (int, error) {
	label := strconv.Itoa(year)
	c := t.ColumnIndex(label)
	if c < t.Layout().MetadataColumns {
		return -1, errs.NewNotFound("year", label)
	}
	return c, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
