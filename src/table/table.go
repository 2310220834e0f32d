// Package table 封装按国家、按年份组织的能源进口数据表
//
// 数据表底层使用 gota DataFrame，列顺序与输入文件表头一致：
// 前 MetadataColumns 列为元数据(至少包含国家名列)，其余列为年份列。
package table

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Layout 描述数据表的列结构
type Layout struct {
	CountryColumn   string // 国家名列，默认 "Country Name"
	MetadataColumns int    // 元数据列数，默认4
}

// DefaultLayout 返回默认列结构
func DefaultLayout() Layout {
	return Layout{CountryColumn: "Country Name", MetadataColumns: 4}
}

// Table 一行对应一个国家的记录
type Table struct {
	df     dataframe.DataFrame
	layout Layout
}

// Point 年份序列中的一个点
type Point struct {
	Year    string
	Value   float64
	Present bool
}

// YearSeries 某个国家在各年份列上的取值
type YearSeries struct {
	Country string
	Points  []Point
}

// Values 返回非缺失的取值
func (s YearSeries) Values() []float64 {
	vals := make([]float64, 0, len(s.Points))
	for _, p := range s.Points {
		if p.Present {
			vals = append(vals, p.Value)
		}
	}
	return vals
}

// Complete 所有年份均有取值
func (s YearSeries) Complete() bool {
	for _, p := range s.Points {
		if !p.Present {
			return false
		}
	}
	return true
}

// New 基于DataFrame构建Table并校验列结构
func New(df dataframe.DataFrame, layout Layout) (*Table, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if layout.MetadataColumns < 1 {
		return nil, fmt.Errorf("metadata column count must be at least 1, got %d", layout.MetadataColumns)
	}
	names := df.Names()
	if len(names) < layout.MetadataColumns {
		return nil, fmt.Errorf("table has %d columns, expected at least %d metadata columns", len(names), layout.MetadataColumns)
	}
	found := false
	for _, n := range names[:layout.MetadataColumns] {
		if n == layout.CountryColumn {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("country column %q not among the first %d columns %v", layout.CountryColumn, layout.MetadataColumns, names[:layout.MetadataColumns])
	}
	return &Table{df: df, layout: layout}, nil
}

// FromRecords 由首行为表头的字符串记录构建Table
// missing 中的单元格内容被视为缺失值。
// 所有列按字符串载入：整列缺失时gota无法推断类型，数值在读取时再解析。
func FromRecords(records [][]string, layout Layout, missing []string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no header row")
	}
	if len(records) == 1 {
		// 只有表头：gota不接受空记录，直接构造0行表
		cols := make([]series.Series, 0, len(records[0]))
		for _, name := range records[0] {
			cols = append(cols, series.New([]string{}, series.String, name))
		}
		return New(dataframe.New(cols...), layout)
	}
	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(missing),
	)
	return New(df, layout)
}

// Layout 返回列结构
func (t *Table) Layout() Layout { return t.layout }

// DataFrame 返回底层DataFrame(只读使用)
func (t *Table) DataFrame() dataframe.DataFrame { return t.df }

// Names 返回全部列名，顺序与输入一致
func (t *Table) Names() []string { return t.df.Names() }

// Nrow 行数
func (t *Table) Nrow() int { return t.df.Nrow() }

// Ncol 列数
func (t *Table) Ncol() int { return t.df.Ncol() }

// YearColumns 返回元数据之后的全部年份列名
func (t *Table) YearColumns() []string {
	names := t.df.Names()
	if len(names) <= t.layout.MetadataColumns {
		return nil
	}
	return append([]string(nil), names[t.layout.MetadataColumns:]...)
}

// Country 返回第r行的国家名
func (t *Table) Country(r int) string {
	return t.df.Col(t.layout.CountryColumn).Elem(r).String()
}

// Countries 按行顺序返回国家名
func (t *Table) Countries() []string {
	col := t.df.Col(t.layout.CountryColumn)
	out := make([]string, col.Len())
	for i := range out {
		out[i] = col.Elem(i).String()
	}
	return out
}

// RowsFor 返回国家名精确匹配的行号
func (t *Table) RowsFor(country string) []int {
	var rows []int
	for i, c := range t.Countries() {
		if c == country {
			rows = append(rows, i)
		}
	}
	return rows
}

// ColumnIndex 返回列位置，不存在返回-1
func (t *Table) ColumnIndex(name string) int {
	for i, n := range t.df.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// IsMissing 判断(r, c)单元格是否缺失
func (t *Table) IsMissing(r, c int) bool {
	return t.df.Elem(r, c).IsNA()
}

// Float 返回(r, c)单元格的数值，缺失或非数值时ok为false
func (t *Table) Float(r, c int) (float64, bool) {
	el := t.df.Elem(r, c)
	if el.IsNA() {
		return math.NaN(), false
	}
	v := el.Float()
	if math.IsNaN(v) {
		return v, false
	}
	return v, true
}

// YearSeries 返回第r行在全部年份列上的序列
func (t *Table) YearSeries(r int) YearSeries {
	return t.seriesBetween(r, t.layout.MetadataColumns, t.df.Ncol()-1)
}

// SliceSeries 返回第r行从from列到to列(含)的序列
func (t *Table) SliceSeries(r, from, to int) YearSeries {
	return t.seriesBetween(r, from, to)
}

func (t *Table) seriesBetween(r, from, to int) YearSeries {
	names := t.df.Names()
	s := YearSeries{Country: t.Country(r)}
	for c := from; c <= to && c < len(names); c++ {
		v, ok := t.Float(r, c)
		s.Points = append(s.Points, Point{Year: names[c], Value: v, Present: ok})
	}
	return s
}

// PresentValues 返回某列中所有非缺失的数值，保持行顺序
func (t *Table) PresentValues(col string) []float64 {
	c := t.ColumnIndex(col)
	if c < 0 {
		return nil
	}
	vals := make([]float64, 0, t.df.Nrow())
	for r := 0; r < t.df.Nrow(); r++ {
		if v, ok := t.Float(r, c); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// Records 返回含表头的字符串记录，缺失值为"NaN"
func (t *Table) Records() [][]string {
	return t.df.Records()
}

// subset 返回只包含指定行的新Table
func (t *Table) subset(rows []int) *Table {
	if len(rows) == 0 {
		return &Table{df: emptyLike(t.df), layout: t.layout}
	}
	return &Table{df: t.df.Subset(rows), layout: t.layout}
}

// emptyLike 构造列名、类型相同的0行DataFrame
func emptyLike(df dataframe.DataFrame) dataframe.DataFrame {
	cols := make([]series.Series, 0, df.Ncol())
	for _, name := range df.Names() {
		cols = append(cols, series.New([]string{}, df.Col(name).Type(), name))
	}
	return dataframe.New(cols...)
}
