package render

import (
	"image/color"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// BasePalette 折线图的固定7色: 蓝 绿 红 青 品红 黄 黑
var BasePalette = []color.Color{
	color.RGBA{R: 0, G: 0, B: 255, A: 255},
	color.RGBA{R: 0, G: 128, B: 0, A: 255},
	color.RGBA{R: 255, G: 0, B: 0, A: 255},
	color.RGBA{R: 0, G: 191, B: 191, A: 255},
	color.RGBA{R: 191, G: 0, B: 191, A: 255},
	color.RGBA{R: 191, G: 191, B: 0, A: 255},
	color.RGBA{R: 0, G: 0, B: 0, A: 255},
}

// SeriesColors 返回n条线的颜色
// 前7条使用固定调色板，之后按色相均匀生成，不再截断
func SeriesColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, 0, n)
	for i := 0; i < n && i < len(BasePalette); i++ {
		out = append(out, BasePalette[i])
	}
	extra := n - len(out)
	if extra <= 0 {
		return out
	}
	end := palette.Hue(1 - 1/float64(extra+1))
	return append(out, palette.Rainbow(extra, 0, end, 0.85, 0.8, 1).Colors()...)
}

// Gradient 返回沿连续色带分布的n种颜色，第i种对应 i/n
func Gradient(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMax(1)
	cm.SetMin(0)
	out := make([]color.Color, n)
	for i := range out {
		c, err := cm.At(float64(i) / float64(n))
		if err != nil {
			c = color.Gray{Y: 128}
		}
		out[i] = c
	}
	return out
}
