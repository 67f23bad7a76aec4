package detect

import (
	"math"
	"testing"

	"github.com/gowvp/awss/pkg/vision"
)

// 测试用参考色，各自恰好落在一个阈值带内
var (
	bagBlue  = [3]byte{255, 200, 50} // H~22 S~205 V255
	bagGreen = [3]byte{60, 220, 60}  // H~60 S~185 V220
	bagDark  = [3]byte{60, 60, 60}   // V60，只命中黑色
	bgGray   = [3]byte{160, 160, 160}
)

// roiFrame 构造 80x80 帧，按给定占比在中心 ROI 内依次填充各参考色，
// 剩余部分填充 base 背景色
func roiFrame(t *testing.T, base [3]byte, fills ...struct {
	rgb  [3]byte
	frac float64
}) *vision.Frame {
	t.Helper()
	f := vision.Solid(80, 80, base[0], base[1], base[2])
	roi := vision.CenterROI(f)
	total := roi.Dx() * roi.Dy()

	idx := 0
	put := func(rgb [3]byte, n int) {
		for ; n > 0 && idx < total; n-- {
			x := roi.Min.X + idx%roi.Dx()
			y := roi.Min.Y + idx/roi.Dx()
			f.SetRGB(x, y, rgb[0], rgb[1], rgb[2])
			idx++
		}
	}
	for _, fill := range fills {
		put(fill.rgb, int(math.Round(fill.frac*float64(total))))
	}
	return f
}

type fill = struct {
	rgb  [3]byte
	frac float64
}

func TestClassifyBlueWins(t *testing.T) {
	// 蓝色匹配 45% 且亮度充足：蓝色分支优先，置信度等于匹配百分比
	f := roiFrame(t, bgGray, fill{bagBlue, 0.45})
	got := NewClassifier().Classify(f)

	if got.Color != ColorBlue || got.Category != CategoryRecycling {
		t.Fatalf("got %s/%s, want blue/RECYCLING", got.Color, got.Category)
	}
	if math.Abs(got.Confidence-45) > 0.5 {
		t.Errorf("confidence = %.2f, want ~45", got.Confidence)
	}
}

func TestClassifyDarkFrame(t *testing.T) {
	// 蓝色不达标（0%），平均亮度 80 < 120：黑色分支
	f := vision.Solid(80, 80, bagDark[0]+20, bagDark[1]+20, bagDark[2]+20) // V=80
	got := NewClassifier().Classify(f)

	if got.Color != ColorBlack || got.Category != CategoryGarbage {
		t.Fatalf("got %s/%s, want black/GARBAGE", got.Color, got.Category)
	}
	// (120-80)/120*100 = 33.33
	if math.Abs(got.Confidence-33.33) > 0.1 {
		t.Errorf("confidence = %.2f, want ~33.33", got.Confidence)
	}
}

func TestClassifyGreenBranch(t *testing.T) {
	// 蓝 0%、亮度充足、绿 25%：绿色分支
	f := roiFrame(t, [3]byte{150, 150, 150}, fill{bagGreen, 0.25})
	got := NewClassifier().Classify(f)

	if got.Color != ColorGreen || got.Category != CategoryCompost {
		t.Fatalf("got %s/%s, want green/COMPOST", got.Color, got.Category)
	}
	if math.Abs(got.Confidence-25) > 0.5 {
		t.Errorf("confidence = %.2f, want ~25", got.Confidence)
	}
}

func TestClassifyFallbackArgmax(t *testing.T) {
	// 蓝 5%、绿 8%、黑 15%，所有规则都不命中：兜底取最大匹配
	f := roiFrame(t, bgGray, fill{bagDark, 0.15}, fill{bagGreen, 0.08}, fill{bagBlue, 0.05})
	got := NewClassifier().Classify(f)

	if got.Color != ColorBlack || got.Category != CategoryGarbage {
		t.Fatalf("got %s/%s, want black/GARBAGE", got.Color, got.Category)
	}
	if math.Abs(got.Confidence-15) > 0.5 {
		t.Errorf("confidence = %.2f, want ~15", got.Confidence)
	}
	if got.Reason == "" {
		t.Error("reason should explain the fallback")
	}
}

func TestClassifyConfidenceClamped(t *testing.T) {
	// 全黑帧：黑色分支原始置信度 100，必须钳到 95
	f := vision.Solid(80, 80, 0, 0, 0)
	got := NewClassifier().Classify(f)

	if got.Color != ColorBlack {
		t.Fatalf("got %s, want black", got.Color)
	}
	if got.Confidence != 95 {
		t.Errorf("confidence = %.2f, want clamp to 95", got.Confidence)
	}
}

func TestClassifyCategoryMappingTotal(t *testing.T) {
	frames := []*vision.Frame{
		vision.Solid(80, 80, bagBlue[0], bagBlue[1], bagBlue[2]),
		vision.Solid(80, 80, bagGreen[0], bagGreen[1], bagGreen[2]),
		vision.Solid(80, 80, bagDark[0], bagDark[1], bagDark[2]),
		roiFrame(t, bgGray, fill{bagBlue, 0.05}),
	}
	c := NewClassifier()
	for i, f := range frames {
		got := c.Classify(f)
		if want := CategoryOf(got.Color); got.Category != want {
			t.Errorf("frame %d: category %s inconsistent with color %s", i, got.Category, got.Color)
		}
		if got.Confidence < 0 || got.Confidence > 100 {
			t.Errorf("frame %d: confidence %.2f out of range", i, got.Confidence)
		}
		if len(got.Matches) != 3 {
			t.Errorf("frame %d: expected 3 color match entries, got %d", i, len(got.Matches))
		}
	}
}
