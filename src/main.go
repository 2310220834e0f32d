package main

import (
	"EnergyImports/src/config"
	"EnergyImports/src/datasource/file"
	"EnergyImports/src/errs"
	"EnergyImports/src/processor"
	"EnergyImports/src/render"
	"EnergyImports/src/storage"
	"EnergyImports/src/table"
	"EnergyImports/src/utils"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	jsonFile     = "config.json"
	dataJsonFile = "dataconfig.json"
)

var chartFormats = []string{"png", "svg", "pdf", "jpg", "jpeg", "tif", "tiff", "eps"}

func main() {
	a := newApp(os.Stdout, os.Stderr)
	if err := run(a, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// run 执行一条命令，结束后关闭日志
func run(a *app, args []string) error {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	defer a.close()
	return rootCmd.Execute()
}

// app 一次命令执行所需的全部状态
type app struct {
	stdout io.Writer
	stderr io.Writer

	// 命令行参数
	configDir string
	input     string
	sheet     string
	outDir    string
	format    string
	logName   string
	report    string
	noRender  bool
	verbose   bool
	countryA  string
	countryB  string
	start     int
	end       int

	cfg      *config.Config
	dcfg     *config.DataConfig
	logger   *storage.Logger
	renderer render.Renderer // 非nil时不再根据配置创建
	proc     *processor.DataProcessor
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "energyimports",
		Short:         "Explore energy imports (% of energy use) by country and year",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configDir, "config", "./config", "Directory holding config.json and dataconfig.json")
	pf.StringVarP(&a.input, "input", "i", "", "Input table (.csv or .xlsx)")
	pf.StringVar(&a.sheet, "sheet", "", "Worksheet name for .xlsx input")
	pf.StringVarP(&a.outDir, "out", "o", "", "Chart output directory")
	pf.StringVar(&a.format, "format", "", "Chart format: "+strings.Join(chartFormats, "|"))
	pf.StringVar(&a.logName, "log", "", "Log file path")
	pf.BoolVar(&a.noRender, "no-render", false, "Compute and print without writing charts")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Debug logging, mirrored to stderr")

	rootCmd.AddCommand(
		newLinesCmd(a),
		newCompareCmd(a),
		newBoxplotCmd(a),
		newAllCmd(a),
		newReportCmd(a),
	)
	return rootCmd
}

func addCompareFlags(cmd *cobra.Command, a *app) {
	cmd.Flags().StringVar(&a.countryA, "country-a", "", "First country to compare")
	cmd.Flags().StringVar(&a.countryB, "country-b", "", "Second country to compare")
	cmd.Flags().IntVar(&a.start, "start", 0, "First year of the comparison (inclusive)")
	cmd.Flags().IntVar(&a.end, "end", 0, "Last year of the comparison (inclusive)")
}

func newLinesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lines",
		Short: "Line chart of every complete country across all years",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			a.proc.PrintColumns(t)
			return a.proc.PlotAllSeries(a.proc.CleanData(t))
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Scatter comparison and Pearson correlation of two countries",
		Long: `Compare two countries over an inclusive range of years.

Years where either country has no value are skipped. At least min_points
(default 5) years must remain.

Example: energyimports compare --country-a "United Kingdom" --country-b "United States" --start 2006 --end 2010`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			a.proc.PrintColumns(t)
			if _, err := a.compare(t); err != nil {
				if !errors.Is(err, errs.ErrValidation) {
					return err
				}
				// 数据不足只在控制台提示，不视为失败
				a.logger.Warning("跳过对比: " + err.Error())
			}
			return nil
		},
	}
	addCompareFlags(cmd, a)
	return cmd
}

func newBoxplotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "boxplot",
		Short: "Combined box plot of every year column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			a.proc.PrintColumns(t)
			_, err = a.proc.PlotYearlyBoxplots(t)
			return err
		},
	}
}

func newAllCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Line chart, comparison and box plot in one run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load()
			if err != nil {
				return err
			}
			cleaned := a.proc.CleanData(t)
			if err := a.proc.PlotAllSeries(cleaned); err != nil {
				return err
			}
			a.proc.PrintColumns(t)

			corr, err := a.compare(t)
			if err != nil {
				if !errors.Is(err, errs.ErrValidation) {
					return err
				}
				// 数据不足时继续绘制箱线图
				a.logger.Warning("跳过对比: " + err.Error())
			}

			summaries, err := a.proc.PlotYearlyBoxplots(t)
			if err != nil {
				return err
			}
			if a.cfg.Output.Report == "" {
				return nil
			}
			return a.writeReport(utils.Report{Summaries: summaries, Correlation: corr, Cleaned: cleaned})
		},
	}
	addCompareFlags(cmd, a)
	cmd.Flags().StringVar(&a.report, "report", "", "Also write a statistics workbook (.xlsx)")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write box statistics, the comparison and the cleaned table to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Output.Report == "" {
				return errs.NewValidation("output.report", "no report path, use --report or ENERGY_OUTPUT_REPORT")
			}
			t, err := a.load()
			if err != nil {
				return err
			}

			corr, err := a.compare(t)
			if err != nil && !errors.Is(err, errs.ErrValidation) {
				return err
			}
			summaries, err := a.proc.PlotYearlyBoxplots(t)
			if err != nil {
				return err
			}
			return a.writeReport(utils.Report{Summaries: summaries, Correlation: corr, Cleaned: a.proc.CleanData(t)})
		},
	}
	addCompareFlags(cmd, a)
	cmd.Flags().StringVar(&a.report, "report", "", "Output workbook path (.xlsx)")
	return cmd
}

// setup 加载配置、应用命令行参数并初始化日志和处理器
func (a *app) setup(cmd *cobra.Command) error {
	// .env 不存在时忽略，已有的环境变量优先
	_ = godotenv.Load()

	cfg, dcfg, err := config.LoadConfig(a.configDir, jsonFile, dataJsonFile)
	if err != nil {
		return err
	}
	// 复制一份，命令行参数不影响全局配置
	c, dc := *cfg, *dcfg
	a.cfg, a.dcfg = &c, &dc
	a.applyFlags(cmd)

	if a.cfg.Output.Render && !utils.Contains(chartFormats, a.cfg.Output.Format) {
		return errs.NewValidation("output.format", "unsupported chart format %q", a.cfg.Output.Format)
	}
	if err := a.cfg.Validate(); err != nil {
		return &errs.ValidationError{Field: "config", Message: err.Error()}
	}
	if err := a.dcfg.Validate(); err != nil {
		return &errs.ValidationError{Field: "dataconfig", Message: err.Error()}
	}

	// 初始化日志系统
	a.logger, err = storage.NewLogger(a.cfg.LogName)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := a.logger.CheckRotate(a.cfg); err != nil {
		a.logger.Warning("日志轮转失败: " + err.Error())
	}
	a.logger.SetLevel(storage.ParseLevel(a.cfg.LogLevel))
	if a.verbose {
		a.logger.SetLevel(storage.DEBUG)
		a.logger.SetMirror(a.stderr)
	}
	a.logger.Debug(fmt.Sprintf("配置: %+v", *a.cfg))

	if a.renderer == nil {
		if a.cfg.Output.Render {
			a.renderer = render.NewPlotRenderer(a.cfg.Output.Dir, a.cfg.Output.Format, a.cfg.Output.Width, a.cfg.Output.Height)
		} else {
			a.renderer = render.Nop{}
		}
	}
	a.proc = processor.NewDataProcessor(a.dcfg, a.renderer, a.logger)
	a.proc.SetOutput(a.stdout)
	return nil
}

// applyFlags 只覆盖显式传入的参数
func (a *app) applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("input") {
		a.cfg.Input.Path = a.input
	}
	if flags.Changed("sheet") {
		a.cfg.Input.Sheet = a.sheet
	}
	if flags.Changed("out") {
		a.cfg.Output.Dir = a.outDir
	}
	if flags.Changed("format") {
		a.cfg.Output.Format = strings.ToLower(a.format)
	}
	if flags.Changed("log") {
		a.cfg.LogName = a.logName
	}
	if flags.Changed("no-render") {
		a.cfg.Output.Render = !a.noRender
	}
	if flags.Changed("report") {
		a.cfg.Output.Report = a.report
	}

	first, second := a.cfg.ComparePair()
	if flags.Changed("country-a") {
		first = a.countryA
	}
	if flags.Changed("country-b") {
		second = a.countryB
	}
	a.cfg.Compare.Pair = []string{first, second}

	start, end := a.cfg.YearRange()
	if flags.Changed("start") {
		start = a.start
	}
	if flags.Changed("end") {
		end = a.end
	}
	a.cfg.Compare.YearRange = []int{start, end}
}

func (a *app) load() (*table.Table, error) {
	path := a.cfg.Input.Path
	a.logger.Info("读取数据: " + path)

	t, err := file.Load(path, file.OptionsFrom(a.cfg, a.dcfg))
	if err != nil {
		a.logger.Fatal(err.Error())
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	m := a.proc.CalculateMetrics(t)
	a.logger.Info(fmt.Sprintf("读取完成: %d 行(完整 %d 行), %d 个年份列 %s-%s, 平均值 %.2f",
		m.Rows, m.CompleteRows, m.YearColumns, m.FirstYear, m.LastYear, m.Mean))
	return t, nil
}

func (a *app) compare(t *table.Table) (*processor.CorrelationResult, error) {
	countryA, countryB := a.cfg.ComparePair()
	start, end := a.cfg.YearRange()
	return a.proc.Compare(t, countryA, countryB, start, end)
}

func (a *app) writeReport(r utils.Report) error {
	if err := utils.WriteReport(a.cfg.Output.Report, r); err != nil {
		return err
	}
	a.logger.Info("统计报告已保存到: " + a.cfg.Output.Report)
	return nil
}

func (a *app) close() {
	if a.logger == nil {
		return
	}
	if pr, ok := a.renderer.(*render.PlotRenderer); ok {
		for _, path := range pr.Written {
			a.logger.Info("图表已保存到: " + path)
		}
	}
	a.logger.Close()
}
