// reader.go
package file

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"EnergyImports/src/config"
	"EnergyImports/src/errs"
	"EnergyImports/src/table"

	"github.com/tealeg/xlsx"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Options 输入文件读取选项
type Options struct {
	Sheet     string       // xlsx工作表名，空则取第一个
	Delimiter rune         // csv分隔符
	Encoding  string       // utf-8 / gbk / latin1 / utf-16
	SkipRows  int          // 表头前跳过的行数
	Layout    table.Layout // 列结构
	Missing   []string     // 缺失值标记
}

// DefaultOptions 逗号分隔、UTF-8、默认列结构
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Encoding:  "utf-8",
		Layout:    table.DefaultLayout(),
		Missing:   config.DefaultData().MissingValues,
	}
}

// OptionsFrom 根据配置生成读取选项
func OptionsFrom(cfg *config.Config, dcfg *config.DataConfig) Options {
	opts := DefaultOptions()
	if r := []rune(cfg.Input.Delimiter); len(r) == 1 {
		opts.Delimiter = r[0]
	}
	if cfg.Input.Encoding != "" {
		opts.Encoding = cfg.Input.Encoding
	}
	opts.Sheet = cfg.Input.Sheet
	opts.SkipRows = cfg.Input.SkipRows
	opts.Layout = table.Layout{CountryColumn: dcfg.CountryColumn, MetadataColumns: dcfg.MetadataColumns}
	if dcfg.MissingValues != nil {
		opts.Missing = dcfg.MissingValues
	}
	return opts
}

// Load 读取输入表格
// 参数:
//
//	filePath: .csv/.txt 分隔文本或 .xlsx 工作簿
//	opts: 读取选项
//
// 返回值:
//
//	*table.Table: 列顺序与表头一致的数据表
//	error: 文件不存在返回 errs.NotFoundError，内容格式错误返回 errs.ParseError
func Load(filePath string, opts Options) (*table.Table, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &errs.NotFoundError{Kind: "file", Name: filePath, Err: err}
		}
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}
	if info.IsDir() {
		return nil, &errs.ParseError{Path: filePath, Err: fmt.Errorf("is a directory")}
	}

	var (
		records [][]string
		lines   []int
	)
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		records, lines, err = ReadXLSX(filePath, opts.Sheet, opts.SkipRows)
	default:
		records, lines, err = ReadCSV(filePath, opts)
	}
	if err != nil {
		return nil, err
	}

	records, lines = dropEmptyTrailingColumn(records, lines)

	t, err := table.FromRecords(records, opts.Layout, opts.Missing)
	if err != nil {
		return nil, &errs.ParseError{Path: filePath, Line: lines[0], Err: err}
	}
	if err := checkNumeric(filePath, t, lines); err != nil {
		return nil, err
	}
	return t, nil
}

// ReadCSV 读取分隔文本，返回记录及每条记录所在的行号
func ReadCSV(filePath string, opts Options) ([][]string, []int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	dec, err := decoderFor(opts.Encoding)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(transform.NewReader(f, dec))

	// 跳过表头前的说明行
	for i := 0; i < opts.SkipRows; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, &errs.ParseError{Path: filePath, Line: i + 1, Err: err}
		}
	}

	reader := csv.NewReader(br)
	reader.Comma = opts.Delimiter
	if reader.Comma == 0 {
		reader.Comma = ','
	}

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, nil, &errs.ParseError{Path: filePath, Line: pe.Line + opts.SkipRows, Err: pe.Err}
			}
			return nil, nil, &errs.ParseError{Path: filePath, Err: err}
		}
		line, _ := reader.FieldPos(0)
		records = append(records, trimHeader(rec, len(records) == 0))
		lines = append(lines, line+opts.SkipRows)
	}

	if len(records) == 0 {
		return nil, nil, &errs.ParseError{Path: filePath, Err: fmt.Errorf("empty file, no header row")}
	}
	return records, lines, nil
}

// ReadXLSX 读取xlsx工作表，返回记录及每条记录所在的行号
func ReadXLSX(filePath, sheetName string, skipRows int) ([][]string, []int, error) {

	// 1. 使用tealeg/xlsx打开Excel文件
	xlFile, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, nil, &errs.ParseError{Path: filePath, Err: fmt.Errorf("xlsx open file false: %w", err)}
	}

	// 2. 获取工作表
	if len(xlFile.Sheets) == 0 {
		return nil, nil, &errs.ParseError{Path: filePath, Err: fmt.Errorf("excel文件中没有工作表")}
	}
	sheet := xlFile.Sheets[0]
	if sheetName != "" {
		s, ok := xlFile.Sheet[sheetName]
		if !ok {
			return nil, nil, &errs.NotFoundError{Kind: "sheet", Name: sheetName}
		}
		sheet = s
	}

	// 3. 转换为记录
	return convertSheetToRecords(filePath, sheet, skipRows)
}

// convertSheetToRecords 将xlsx.Sheet转换为字符串记录，跳过空行
func convertSheetToRecords(filePath string, sheet *xlsx.Sheet, skipRows int) ([][]string, []int, error) {
	var (
		records [][]string
		lines   []int
		width   int
	)
	for i, row := range sheet.Rows {
		if i < skipRows || row == nil {
			continue
		}
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, strings.TrimSpace(cell.Value))
		}
		cells = trimTrailingEmpty(cells)
		if len(cells) == 0 {
			continue
		}

		if len(records) == 0 {
			// 表头决定列数
			width = len(cells)
		} else if len(cells) > width {
			return nil, nil, &errs.ParseError{Path: filePath, Line: i + 1, Err: fmt.Errorf("row has %d cells, header has %d", len(cells), width)}
		}
		for len(cells) < width {
			cells = append(cells, "")
		}
		records = append(records, cells)
		lines = append(lines, i+1)
	}

	if len(records) == 0 {
		return nil, nil, &errs.ParseError{Path: filePath, Err: fmt.Errorf("sheet %q is empty", sheet.Name)}
	}
	return records, lines, nil
}

// checkNumeric 年份列中非缺失的单元格必须是数值
func checkNumeric(filePath string, t *table.Table, lines []int) error {
	names := t.Names()
	meta := t.Layout().MetadataColumns
	for c := meta; c < len(names); c++ {
		for r := 0; r < t.Nrow(); r++ {
			if t.IsMissing(r, c) {
				continue
			}
			if _, ok := t.Float(r, c); !ok {
				return &errs.ParseError{
					Path:   filePath,
					Line:   lines[r+1],
					Column: names[c],
					Err:    fmt.Errorf("non-numeric value %q", t.DataFrame().Elem(r, c).String()),
				}
			}
		}
	}
	return nil
}

// dropEmptyTrailingColumn 去掉无表头且全空的最后一列(行尾多余的分隔符)
func dropEmptyTrailingColumn(records [][]string, lines []int) ([][]string, []int) {
	last := len(records[0]) - 1
	if last < 0 || records[0][last] != "" {
		return records, lines
	}
	for _, rec := range records[1:] {
		if strings.TrimSpace(rec[last]) != "" {
			return records, lines
		}
	}
	for i := range records {
		records[i] = records[i][:last]
	}
	return records, lines
}

func trimHeader(rec []string, isHeader bool) []string {
	if !isHeader {
		return rec
	}
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	return rec
}

func trimTrailingEmpty(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

// decoderFor 按名称返回字符集解码器，UTF-8会去掉BOM
func decoderFor(name string) (transform.Transformer, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.ReplaceAll(name, "_", "-")) {
	case "", "utf-8", "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "utf-16", "utf16":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "gbk", "gb2312":
		enc = simplifiedchinese.GBK
	case "gb18030":
		enc = simplifiedchinese.GB18030
	case "latin1", "latin-1", "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, errs.NewValidation("input.encoding", "unsupported encoding %q", name)
	}
	return enc.NewDecoder(), nil
}
