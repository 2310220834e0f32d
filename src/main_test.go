package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"EnergyImports/src/errs"
	"EnergyImports/src/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const energyCSV = `Country Name,Country Code,Indicator Name,Indicator Code,2006,2007,2008,2009,2010
United Kingdom,GBR,"Energy imports, net (% of energy use)",EG.IMP.CONS.ZS,20.1,20.6,26.3,26.5,28.3
United States,USA,"Energy imports, net (% of energy use)",EG.IMP.CONS.ZS,29.9,28.9,25.6,22.6,21.8
Norway,NOR,"Energy imports, net (% of energy use)",EG.IMP.CONS.ZS,-750.2,,-689.5,-657.6,-660.1
Japan,JPN,"Energy imports, net (% of energy use)",EG.IMP.CONS.ZS,81.5,82,81.8,80.4,80.1
`

type harness struct {
	app     *app
	capture *render.Capture
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	dir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{capture: &render.Capture{}, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, dir: t.TempDir()}
	h.app = newApp(h.stdout, h.stderr)
	h.app.renderer = h.capture
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, "imports.csv"), []byte(energyCSV), 0o644))
	return h
}

func (h *harness) run(args ...string) error {
	base := []string{
		"--input", filepath.Join(h.dir, "imports.csv"),
		"--log", filepath.Join(h.dir, "logs", "test.log"),
		"--config", filepath.Join(h.dir, "config"),
	}
	return run(h.app, append(args[:1:1], append(base, args[1:]...)...))
}

func TestAllCommand(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("all"))

	out := h.stdout.String()
	assert.Contains(t, out, `Columns: ["Country Name"`)
	assert.Contains(t, out, "Correlation between United Kingdom and United States for the years 2006-2010: ")
	assert.Equal(t, 5, strings.Count(out, "---\n"))
	assert.Contains(t, out, "Data for 2007: [20.6 28.9 82]\n")

	require.Len(t, h.capture.Lines, 1)
	assert.Len(t, h.capture.Lines[0].Series, 3)
	assert.Len(t, h.capture.Scatters, 1)
	require.Len(t, h.capture.Boxes, 1)
	assert.Len(t, h.capture.Boxes[0].Boxes, 5)

	// 列名在折线图之后、对比之前打印
	assert.Less(t, strings.Index(out, "Columns:"), strings.Index(out, "Correlation between"))

	log, err := os.ReadFile(filepath.Join(h.dir, "logs", "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "INFO: 读取完成: 4 行(完整 3 行)")
}

func TestAllRecoversFromInsufficientData(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("all", "--country-b", "Norway"))

	out := h.stdout.String()
	assert.Contains(t, out, "Error: Insufficient data for comparison. Minimum 5 years of data required for both countries.\n")
	assert.Empty(t, h.capture.Scatters)
	assert.Len(t, h.capture.Boxes, 1)
}

func TestCompareUnknownCountry(t *testing.T) {
	h := newHarness(t)
	err := h.run("compare", "--country-a", "Atlantis")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
	assert.Empty(t, h.capture.Scatters)
}

func TestCompareYearFlags(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("compare", "--start", "2007", "--end", "2010"))
	assert.Contains(t, h.stdout.String(), "Error: Insufficient data for comparison. Minimum 5 years of data required for both countries.\n")
	assert.Empty(t, h.capture.Scatters)

	log, err := os.ReadFile(filepath.Join(h.dir, "logs", "test.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "WARNING: 跳过对比")

	h = newHarness(t)
	err = h.run("compare", "--start", "2010", "--end", "2006")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestLoadFailureIsFatal(t *testing.T) {
	h := newHarness(t)
	err := run(h.app, []string{"lines",
		"--input", filepath.Join(h.dir, "missing.csv"),
		"--log", filepath.Join(h.dir, "test.log"),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	log, rerr := os.ReadFile(filepath.Join(h.dir, "test.log"))
	require.NoError(t, rerr)
	assert.Contains(t, string(log), "FATAL:")
}

func TestBoxplotAndLinesCommands(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.run("boxplot"))
	assert.Len(t, h.capture.Boxes, 1)
	assert.Empty(t, h.capture.Lines)

	h = newHarness(t)
	require.NoError(t, h.run("lines"))
	assert.Len(t, h.capture.Lines, 1)
	assert.Empty(t, h.capture.Boxes)
}

func TestReportCommand(t *testing.T) {
	h := newHarness(t)
	err := h.run("report")
	assert.True(t, errors.Is(err, errs.ErrValidation), "report path is required")

	h = newHarness(t)
	path := filepath.Join(h.dir, "report.xlsx")
	require.NoError(t, h.run("report", "--report", path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Correlation", "Cleaned"}, f.GetSheetList())
}

func TestWritesChartFiles(t *testing.T) {
	h := newHarness(t)
	h.app.renderer = nil
	out := filepath.Join(h.dir, "charts")
	require.NoError(t, h.run("all", "--out", out, "--format", "svg"))

	for _, name := range []string{"energy_imports_lines.svg", "energy_imports_compare.svg", "energy_imports_boxplot.svg"} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	h := newHarness(t)
	err := h.run("lines", "--format", "bmp")
	assert.True(t, errors.Is(err, errs.ErrValidation))
}
