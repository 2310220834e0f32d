package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix 环境变量前缀，例如 ENERGY_INPUT_PATH
const EnvPrefix = "ENERGY"

// Config 结构体定义了应用程序的配置结构
// 叶子字段不写envconfig标签，否则会回退读取 PATH、FORMAT 等无前缀变量
type Config struct {
	Input struct {
		Path      string `json:"path"`                         // 输入表格路径(.csv/.xlsx)
		Sheet     string `json:"sheet"`                        // xlsx工作表名，空则取第一个
		Delimiter string `json:"delimiter"`                    // 分隔符
		Encoding  string `json:"encoding"`                     // utf-8 / gbk / latin1
		SkipRows  int    `json:"skip_rows" split_words:"true"` // 表头前需要跳过的行数
	} `json:"input" envconfig:"INPUT"`

	Compare struct {
		Pair      []string `json:"compare_pair"`                  // 需要对比的两个国家
		YearRange []int    `json:"year_range" split_words:"true"` // 起止年份(含)
	} `json:"compare" envconfig:"COMPARE"`

	Output struct {
		Dir    string  `json:"dir"`    // 图表输出目录
		Format string  `json:"format"` // png / svg / pdf / jpg
		Width  float64 `json:"width"`  // 英寸
		Height float64 `json:"height"` // 英寸
		Render bool    `json:"render"` // false时只计算不出图
		Report string  `json:"report"` // 统计报告xlsx路径，空则不导出
	} `json:"output" envconfig:"OUTPUT"`

	LogName    string `json:"log_name" split_words:"true"`
	LogMaxSize string `json:"log_max_size" split_words:"true"`
	LogLevel   string `json:"log_level" split_words:"true"` // DEBUG / INFO / WARNING / ERROR
}

// DataConfig 描述输入表格的列结构
type DataConfig struct {
	CountryColumn   string   `json:"country_column"`   // 国家名所在列
	MetadataColumns int      `json:"metadata_columns"` // 前N列为元数据，之后均为年份列
	MissingValues   []string `json:"missing_values"`   // 视为缺失值的单元格内容
	MinPoints       int      `json:"min_points"`       // 两国对比所需的最少数据点
	MaxSeries       int      `json:"max_series"`       // 折线图最多绘制的国家数，0为不限
}

var (
	once               sync.Once
	instance           *Config
	dataConfigInstance *DataConfig
)

// Default 返回默认配置
func Default() *Config {
	cfg := &Config{}
	cfg.Input.Delimiter = ","
	cfg.Input.Encoding = "utf-8"
	cfg.Compare.Pair = []string{"United Kingdom", "United States"}
	cfg.Compare.YearRange = []int{2006, 2010}
	cfg.Output.Dir = "charts"
	cfg.Output.Format = "png"
	cfg.Output.Width = 12
	cfg.Output.Height = 8
	cfg.Output.Render = true
	cfg.LogName = "energyimports.log"
	cfg.LogMaxSize = "10 * 1024 * 1024"
	cfg.LogLevel = "INFO"
	return cfg
}

// DefaultData 返回默认的列结构配置
func DefaultData() *DataConfig {
	return &DataConfig{
		CountryColumn:   "Country Name",
		MetadataColumns: 4,
		MissingValues:   []string{"", "NA", "NaN", "nan", ".."},
		MinPoints:       5,
	}
}

// LoadConfig 加载配置，整个进程只加载一次
// 参数:
//
//	jsonFolder: 配置目录
//	jsonFile: 应用配置文件名
//	dataJsonFile: 列结构配置文件名
//
// 文件不存在时使用默认值，环境变量(ENERGY_*)优先级最高
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	var err error
	once.Do(func() {
		instance, dataConfigInstance, err = loadConfigs(jsonFolder, jsonFile, dataJsonFile)
	})
	return instance, dataConfigInstance, err
}

func loadConfigs(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	cfg := Default()
	dcfg := DefaultData()

	var errs []error
	if err := readInto(filepath.Join(jsonFolder, jsonFile), cfg); err != nil {
		errs = append(errs, fmt.Errorf("读取配置文件失败: %w", err))
	}
	if err := readInto(filepath.Join(jsonFolder, dataJsonFile), dcfg); err != nil {
		errs = append(errs, fmt.Errorf("读取数据配置文件失败: %w", err))
	}
	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	return cfg, dcfg, nil
}

// readInto 读取JSON文件并覆盖默认值，文件不存在时忽略
func readInto(filePath string, v interface{}) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("无法读取文件 %s: %w", filePath, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("解析 %s 失败: %w", filePath, err)
	}
	return nil
}

// Validate 校验配置，一次性返回全部问题
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Input.Path) == "" {
		errs = append(errs, fmt.Errorf("input.path is required"))
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		errs = append(errs, fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter))
	}
	if c.Input.SkipRows < 0 {
		errs = append(errs, fmt.Errorf("input.skip_rows must not be negative"))
	}
	if len(c.Compare.Pair) != 2 {
		errs = append(errs, fmt.Errorf("compare.compare_pair needs exactly 2 countries, got %d", len(c.Compare.Pair)))
	}
	if len(c.Compare.YearRange) != 2 {
		errs = append(errs, fmt.Errorf("compare.year_range needs [start, end], got %v", c.Compare.YearRange))
	} else if c.Compare.YearRange[0] > c.Compare.YearRange[1] {
		errs = append(errs, fmt.Errorf("compare.year_range start %d is after end %d", c.Compare.YearRange[0], c.Compare.YearRange[1]))
	}
	switch strings.ToLower(c.Output.Format) {
	case "png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps":
	default:
		errs = append(errs, fmt.Errorf("output.format %q is not supported", c.Output.Format))
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		errs = append(errs, fmt.Errorf("output size must be positive"))
	}
	if len(errs) > 0 {
		return combineErrors(errs)
	}
	return nil
}

// Validate 校验列结构配置
func (dc *DataConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(dc.CountryColumn) == "" {
		errs = append(errs, fmt.Errorf("country_column is required"))
	}
	if dc.MetadataColumns < 1 {
		errs = append(errs, fmt.Errorf("metadata_columns must be at least 1"))
	}
	if dc.MinPoints < 2 {
		errs = append(errs, fmt.Errorf("min_points must be at least 2"))
	}
	if dc.MaxSeries < 0 {
		errs = append(errs, fmt.Errorf("max_series must not be negative"))
	}
	if len(errs) > 0 {
		return combineErrors(errs)
	}
	return nil
}

// ComparePair 返回对比的两个国家
func (c *Config) ComparePair() (string, string) {
	if len(c.Compare.Pair) < 2 {
		return "", ""
	}
	return c.Compare.Pair[0], c.Compare.Pair[1]
}

// YearRange 返回对比的起止年份
func (c *Config) YearRange() (int, int) {
	if len(c.Compare.YearRange) < 2 {
		return 0, 0
	}
	return c.Compare.YearRange[0], c.Compare.YearRange[1]
}

func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	// 使用固定格式字符串
	msg := "配置加载遇到多个错误:"
	for _, err := range errs {
		msg = fmt.Sprintf("%s\n- %v", msg, err)
	}
	return fmt.Errorf("%s", msg)
}
