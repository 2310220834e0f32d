package utils

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"EnergyImports/src/processor"
	"EnergyImports/src/table"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

// 报告工作表名
const (
	SummarySheet     = "Summary"
	CorrelationSheet = "Correlation"
	CleanedSheet     = "Cleaned"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// Report 一次运行的统计结果
type Report struct {
	Summaries   []processor.BoxSummary
	Correlation *processor.CorrelationResult // 没有运行对比时为nil
	Cleaned     *table.Table                 // 可为nil
}

// WriteReport 将统计结果写入xlsx
// 参数:
//
//	filePath: 输出路径
//	r: 统计结果
//
// 返回值:
//
//	error: 写入错误
func WriteReport(filePath string, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	// 默认的Sheet1改名为Summary
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if err := writeSummary(f, r.Summaries); err != nil {
		return fmt.Errorf("写入%s失败: %w", SummarySheet, err)
	}

	if r.Correlation != nil {
		if _, err := f.NewSheet(CorrelationSheet); err != nil {
			return err
		}
		if err := writeCorrelation(f, r.Correlation); err != nil {
			return fmt.Errorf("写入%s失败: %w", CorrelationSheet, err)
		}
	}

	if r.Cleaned != nil {
		if _, err := f.NewSheet(CleanedSheet); err != nil {
			return err
		}
		if err := writeFrame(f, CleanedSheet, r.Cleaned.DataFrame()); err != nil {
			return fmt.Errorf("写入%s失败: %w", CleanedSheet, err)
		}
	}

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("保存Excel文件失败: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, summaries []processor.BoxSummary) error {
	header := []interface{}{"Year", "Count", "Min", "Q1", "Median", "Q3", "Max", "IQR", "Whisker Low", "Whisker High", "Outliers"}
	if err := setRow(f, SummarySheet, 1, header); err != nil {
		return err
	}
	for i, s := range summaries {
		row := []interface{}{s.Year, len(s.Values)}
		if !s.Empty() {
			row = append(row, s.Min, s.Q1, s.Median, s.Q3, s.Max, s.IQR, s.WhiskerLow, s.WhiskerHigh, fmt.Sprint(s.Outliers))
		}
		if err := setRow(f, SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeCorrelation(f *excelize.File, c *processor.CorrelationResult) error {
	if err := setRow(f, CorrelationSheet, 1, []interface{}{"Year", c.CountryA, c.CountryB}); err != nil {
		return err
	}
	for i, p := range c.Pairs {
		if err := setRow(f, CorrelationSheet, i+2, []interface{}{p.Year, p.A, p.B}); err != nil {
			return err
		}
	}
	// 相关系数放在数据下方，NaN 写成文本
	var corr interface{} = c.Correlation
	if math.IsNaN(c.Correlation) {
		corr = "NaN"
	}
	return setRow(f, CorrelationSheet, len(c.Pairs)+3, []interface{}{"Correlation", corr})
}

// writeFrame 写入DataFrame，缺失值留空，数值按数字写入
func writeFrame(f *excelize.File, sheetName string, df dataframe.DataFrame) error {
	// 写入列名
	colNames := df.Names()
	for i, name := range colNames {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return err
		}
	}

	// 写入数据
	for rowIdx := 0; rowIdx < df.Nrow(); rowIdx++ {
		for colIdx := range colNames {
			el := df.Elem(rowIdx, colIdx)
			if el.IsNA() {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			var val interface{} = el.String()
			if v, err := strconv.ParseFloat(el.String(), 64); err == nil {
				val = v
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return err
			}
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
