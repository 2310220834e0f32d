package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var missing = []string{"", "NA", ".."}

func sampleRecords() [][]string {
	return [][]string{
		{"Country Name", "Country Code", "Indicator Name", "Indicator Code", "2006", "2007", "2008"},
		{"United Kingdom", "GBR", "Energy imports", "EG.IMP", "10.5", "12", "20.25"},
		{"United States", "USA", "Energy imports", "EG.IMP", "29.9", "28.1", "25"},
		{"Norway", "NOR", "Energy imports", "EG.IMP", "-600", "", "-560"},
		{"France", "FRA", "", "EG.IMP", "51", "50", "49"},
		{"Japan", "JPN", "Energy imports", "EG.IMP", "81", "..", "NA"},
	}
}

func mustTable(t *testing.T, records [][]string) *Table {
	t.Helper()
	tbl, err := FromRecords(records, DefaultLayout(), missing)
	require.NoError(t, err)
	return tbl
}

func TestFromRecordsLayout(t *testing.T) {
	tbl := mustTable(t, sampleRecords())

	assert.Equal(t, 5, tbl.Nrow())
	assert.Equal(t, 7, tbl.Ncol())
	assert.Equal(t, []string{"2006", "2007", "2008"}, tbl.YearColumns())
	assert.Equal(t, []string{"United Kingdom", "United States", "Norway", "France", "Japan"}, tbl.Countries())
	assert.Equal(t, []int{1}, tbl.RowsFor("United States"))
	assert.Empty(t, tbl.RowsFor("united states"), "country match is exact")
	assert.Equal(t, 4, tbl.ColumnIndex("2006"))
	assert.Equal(t, -1, tbl.ColumnIndex("1999"))
}

func TestFromRecordsRejectsMissingCountryColumn(t *testing.T) {
	records := [][]string{
		{"Name", "Code", "Indicator", "Indicator Code", "2006"},
		{"Chile", "CHL", "x", "y", "70"},
	}
	_, err := FromRecords(records, DefaultLayout(), missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Country Name")

	_, err = FromRecords([][]string{{"Country Name", "2006"}}, DefaultLayout(), missing)
	require.Error(t, err, "fewer columns than metadata")
}

func TestHeaderOnlyIsEmptyTable(t *testing.T) {
	tbl := mustTable(t, sampleRecords()[:1])
	assert.Equal(t, 0, tbl.Nrow())
	assert.Equal(t, []string{"2006", "2007", "2008"}, tbl.YearColumns())
	assert.Equal(t, 0, Clean(tbl).Nrow())
}

func TestYearSeriesAndValues(t *testing.T) {
	tbl := mustTable(t, sampleRecords())

	uk := tbl.YearSeries(0)
	assert.Equal(t, "United Kingdom", uk.Country)
	assert.True(t, uk.Complete())
	assert.Equal(t, []float64{10.5, 12, 20.25}, uk.Values())
	assert.Equal(t, "2007", uk.Points[1].Year)

	jp := tbl.YearSeries(4)
	assert.False(t, jp.Complete())
	assert.Equal(t, []float64{81}, jp.Values())
	assert.True(t, math.IsNaN(jp.Points[1].Value))

	slice := tbl.SliceSeries(1, 5, 6)
	assert.Equal(t, []float64{28.1, 25}, slice.Values())

	assert.Equal(t, []float64{10.5, 29.9, -600, 51, 81}, tbl.PresentValues("2006"))
	assert.Equal(t, []float64{12, 28.1, 50}, tbl.PresentValues("2007"))
	assert.Nil(t, tbl.PresentValues("1999"))
}

func TestFloatRejectsText(t *testing.T) {
	records := sampleRecords()
	records[1][4] = "ten"
	tbl := mustTable(t, records)

	_, ok := tbl.Float(0, 4)
	assert.False(t, ok)
	assert.False(t, tbl.IsMissing(0, 4), "text is present, just not numeric")
}

func TestCleanDropsRowsWithAnyMissingCell(t *testing.T) {
	tbl := mustTable(t, sampleRecords())
	cleaned := Clean(tbl)

	// France is only missing metadata, and is dropped too.
	assert.Equal(t, []string{"United Kingdom", "United States"}, cleaned.Countries())
	for r := 0; r < cleaned.Nrow(); r++ {
		for c := 0; c < cleaned.Ncol(); c++ {
			assert.False(t, cleaned.IsMissing(r, c))
		}
	}
	assert.Equal(t, tbl.Names(), cleaned.Names())
	assert.Equal(t, 5, tbl.Nrow(), "input is not mutated")
}

func TestCleanRowsAreSubsetOfInput(t *testing.T) {
	tbl := mustTable(t, sampleRecords())
	cleaned := Clean(tbl)

	original := tbl.Records()[1:]
	for _, row := range cleaned.Records()[1:] {
		assert.Contains(t, original, row)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	tbl := mustTable(t, sampleRecords())
	once := Clean(tbl)
	twice := Clean(once)
	assert.Equal(t, once.Records(), twice.Records())
}

func TestCleanAllRowsDropped(t *testing.T) {
	records := [][]string{
		sampleRecords()[0],
		{"Norway", "NOR", "Energy imports", "EG.IMP", "-600", "", "-560"},
	}
	cleaned := Clean(mustTable(t, records))
	assert.Equal(t, 0, cleaned.Nrow())
	assert.Equal(t, 7, cleaned.Ncol())
	assert.Empty(t, cleaned.Countries())
}
