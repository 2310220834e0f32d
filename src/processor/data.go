// data.go
package processor

import (
	"fmt"
	"io"
	"os"

	"EnergyImports/src/config"
	"EnergyImports/src/render"
	"EnergyImports/src/storage"
	"EnergyImports/src/table"
)

// 图表文字
const (
	XLabel        = "Year"
	YLabel        = "Energy Imports (% of Energy Use)"
	BoxPlotTitle  = "Combined Box Plot of Energy Imports for All Years"
	BoxPlotLegend = "Year"
)

// DataProcessor 对能源进口数据表做选取、统计并交给Renderer出图
type DataProcessor struct {
	dcfg     *config.DataConfig
	renderer render.Renderer
	out      io.Writer       // 诊断输出(列名、相关系数、逐年数据)
	logger   *storage.Logger // 可为nil
}

// NewDataProcessor 创建数据处理器
// 参数:
//
//	dcfg: 列结构配置，nil时使用默认值
//	r: 渲染器，nil时不出图
//	logger: 日志记录器，可为nil
func NewDataProcessor(dcfg *config.DataConfig, r render.Renderer, logger *storage.Logger) *DataProcessor {
	if dcfg == nil {
		dcfg = config.DefaultData()
	}
	if r == nil {
		r = render.Nop{}
	}
	return &DataProcessor{dcfg: dcfg, renderer: r, out: os.Stdout, logger: logger}
}

// SetOutput 设置诊断输出
func (p *DataProcessor) SetOutput(w io.Writer) {
	p.out = w
}

// PrintColumns 按表头顺序打印列名
func (p *DataProcessor) PrintColumns(t *table.Table) {
	fmt.Fprintf(p.out, "Columns: %q\n", t.Names())
}

// CleanData 删除含缺失值的行并记录删除数量
func (p *DataProcessor) CleanData(t *table.Table) *table.Table {
	cleaned := table.Clean(t)
	p.info(fmt.Sprintf("清洗数据: %d 行 -> %d 行", t.Nrow(), cleaned.Nrow()))
	return cleaned
}

// Metrics 数据表概况
type Metrics struct {
	Rows         int
	CompleteRows int
	YearColumns  int
	FirstYear    string
	LastYear     string
	Mean         float64 // 全部非缺失取值的平均值
	Span         float64 // 全部非缺失取值的 max-min
}

// CalculateMetrics 计算数据表概况
func (p *DataProcessor) CalculateMetrics(t *table.Table) Metrics {
	years := t.YearColumns()
	m := Metrics{
		Rows:         t.Nrow(),
		CompleteRows: table.Clean(t).Nrow(),
		YearColumns:  len(years),
	}
	if len(years) > 0 {
		m.FirstYear, m.LastYear = years[0], years[len(years)-1]
	}
	var all []float64
	for _, y := range years {
		all = append(all, t.PresentValues(y)...)
	}
	m.Mean = Mean(all)
	m.Span = Span(all)
	return m
}

func (p *DataProcessor) info(msg string) {
	if p.logger != nil {
		p.logger.Info(msg)
	}
}

func (p *DataProcessor) warn(msg string) {
	if p.logger != nil {
		p.logger.Warning(msg)
	}
}
