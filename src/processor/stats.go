package processor

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WhiskerFactor 须线范围为 [Q1 - 1.5*IQR, Q3 + 1.5*IQR]
const WhiskerFactor = 1.5

// BoxSummary 某一年份列的五数概括
type BoxSummary struct {
	Year        string
	Values      []float64 // 去掉缺失值后的原始取值，保持行顺序
	Min         float64
	Q1          float64
	Median      float64
	Q3          float64
	Max         float64
	IQR         float64
	WhiskerLow  float64
	WhiskerHigh float64
	Outliers    []float64
	OutlierIdx  []int // Outliers 在 Values 中的下标
}

// Empty 该年份没有任何取值
func (b BoxSummary) Empty() bool { return len(b.Values) == 0 }

// Pearson 计算两个等长序列的皮尔逊相关系数
// 任一序列方差为0时返回NaN，ok为false
func Pearson(x, y []float64) (r float64, ok bool) {
	if len(x) != len(y) || len(x) < 2 {
		return math.NaN(), false
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN(), false
	}
	r = stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return r, false
	}
	// 浮点误差可能略超出[-1, 1]
	return math.Max(-1, math.Min(1, r)), true
}

// Quantile 线性插值分位数，位置为 (n-1)*p，与numpy默认方法一致
// sorted 必须已升序排列
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Summarize 计算五数概括、须线和离群点
// 参数:
//
//	year: 年份标签
//	values: 非缺失取值
//
// 返回值:
//
//	BoxSummary: values 为空时只填 Year
func Summarize(year string, values []float64) BoxSummary {
	b := BoxSummary{Year: year, Values: append([]float64(nil), values...)}
	if len(values) == 0 {
		return b
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	b.Min, _ = stats.Min(sorted)
	b.Max, _ = stats.Max(sorted)
	b.Median, _ = stats.Median(sorted)
	b.Q1 = Quantile(sorted, 0.25)
	b.Q3 = Quantile(sorted, 0.75)
	b.IQR = b.Q3 - b.Q1

	lowFence := b.Q1 - WhiskerFactor*b.IQR
	highFence := b.Q3 + WhiskerFactor*b.IQR
	b.WhiskerLow, b.WhiskerHigh = b.Max, b.Min
	for i, v := range values {
		if v < lowFence || v > highFence {
			b.Outliers = append(b.Outliers, v)
			b.OutlierIdx = append(b.OutlierIdx, i)
			continue
		}
		b.WhiskerLow = math.Min(b.WhiskerLow, v)
		b.WhiskerHigh = math.Max(b.WhiskerHigh, v)
	}
	return b
}

// Mean 平均值，空序列返回NaN
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}

// Span 取值范围 max-min
func Span(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return floats.Max(values) - floats.Min(values)
}
