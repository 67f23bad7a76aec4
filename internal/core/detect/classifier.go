package detect

import (
	"fmt"

	"github.com/gowvp/awss/pkg/vision"
	"github.com/samber/lo"
)

// colorRange 参考色及其 HSV 阈值
type colorRange struct {
	Color Color
	Range vision.Range
}

// Classifier 基于 HSV 阈值的袋子颜色分类器
// 纯函数式，除静态阈值外没有任何状态，结果可解释
type Classifier struct {
	// 判定顺序即切片顺序，兜底分支的并列取先出现者
	ranges []colorRange
}

// NewClassifier 使用修正后的阈值创建分类器
func NewClassifier() *Classifier {
	return &Classifier{
		ranges: []colorRange{
			// 蓝色袋经相机通道顺序修正后落在 H 15~50
			{ColorBlue, vision.Range{Lo: vision.HSV{H: 15, S: 50, V: 170}, Hi: vision.HSV{H: 50, S: 255, V: 255}}},
			// 绿色从 51 起，避开与蓝色的重叠区
			{ColorGreen, vision.Range{Lo: vision.HSV{H: 51, S: 40, V: 120}, Hi: vision.HSV{H: 90, S: 255, V: 255}}},
			// 黑色只看亮度
			{ColorBlack, vision.Range{Lo: vision.HSV{H: 0, S: 0, V: 0}, Hi: vision.HSV{H: 179, S: 255, V: 100}}},
		},
	}
}

// Classify 对帧的中心区域做颜色分类
// 调用方保证帧尺寸合法，零面积区域属于调用方违约
func (c *Classifier) Classify(f *vision.Frame) Classification {
	roi := vision.CenterROI(f)

	var sumH, sumS, sumV float64
	hits := make([]int, len(c.ranges))
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			p := vision.RGBToHSV(f.RGBAt(x, y))
			sumH += p.H
			sumS += p.S
			sumV += p.V
			for i, r := range c.ranges {
				if r.Range.Contains(p) {
					hits[i]++
				}
			}
		}
	}

	n := float64(roi.Dx() * roi.Dy())
	avgH, avgS, avgV := sumH/n, sumS/n, sumV/n

	type match struct {
		Color Color
		Pct   float64
	}
	matchList := make([]match, len(c.ranges))
	matches := make(map[string]float64, len(c.ranges))
	for i, r := range c.ranges {
		pct := float64(hits[i]) / n * 100
		matchList[i] = match{Color: r.Color, Pct: pct}
		matches[string(r.Color)] = pct
	}

	// 判定规则，顺序敏感：
	// 蓝色优先（高亮度袋），再按低亮度判黑色，然后绿色，最后兜底取最大匹配
	var (
		color      Color
		confidence float64
		reason     string
	)
	bluePct := matches[string(ColorBlue)]
	greenPct := matches[string(ColorGreen)]
	switch {
	case bluePct > 30:
		color = ColorBlue
		confidence = min(95, bluePct)
		reason = fmt.Sprintf("Blue range match: %.1f%%", bluePct)
	case avgV < 120:
		color = ColorBlack
		confidence = max(0, min(95, (120-avgV)/120*100))
		reason = fmt.Sprintf("V=%.1f < 120 (low brightness)", avgV)
	case greenPct > 20:
		color = ColorGreen
		confidence = min(95, greenPct)
		reason = fmt.Sprintf("Green range match: %.1f%%", greenPct)
	default:
		// 并列时 MaxBy 保留先遍历到的元素，即参考色声明顺序
		best := lo.MaxBy(matchList, func(a, b match) bool { return a.Pct > b.Pct })
		color = best.Color
		confidence = best.Pct
		reason = fmt.Sprintf("Best match: %.1f%%", best.Pct)
	}

	return Classification{
		Color:      color,
		Category:   CategoryOf(color),
		AvgH:       avgH,
		AvgS:       avgS,
		AvgV:       avgV,
		Confidence: confidence,
		Reason:     reason,
		Matches:    matches,
	}
}
