package vision

import (
	"bytes"
	"image"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b byte
		want    HSV
	}{
		{"red", 255, 0, 0, HSV{H: 0, S: 255, V: 255}},
		{"green", 0, 255, 0, HSV{H: 60, S: 255, V: 255}},
		{"blue", 0, 0, 255, HSV{H: 120, S: 255, V: 255}},
		{"white", 255, 255, 255, HSV{H: 0, S: 0, V: 255}},
		{"black", 0, 0, 0, HSV{H: 0, S: 0, V: 0}},
		{"gray", 128, 128, 128, HSV{H: 0, S: 0, V: 128}},
		// 橙黄色，落在"修正后"的蓝色袋阈值带内
		{"bag blue", 255, 200, 50, HSV{H: 21.95, S: 205, V: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RGBToHSV(tt.r, tt.g, tt.b)
			if !almostEqual(got.H, tt.want.H, 0.1) ||
				!almostEqual(got.S, tt.want.S, 0.5) ||
				!almostEqual(got.V, tt.want.V, 0.5) {
				t.Errorf("RGBToHSV(%d,%d,%d) = %+v, want %+v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	blue := Range{Lo: HSV{15, 50, 170}, Hi: HSV{50, 255, 255}}
	if !blue.Contains(HSV{H: 15, S: 50, V: 170}) {
		t.Error("lower bound should be inclusive")
	}
	if !blue.Contains(HSV{H: 50, S: 255, V: 255}) {
		t.Error("upper bound should be inclusive")
	}
	if blue.Contains(HSV{H: 51, S: 100, V: 200}) {
		t.Error("hue above range should not match")
	}
	if blue.Contains(HSV{H: 30, S: 100, V: 100}) {
		t.Error("value below range should not match")
	}
}

func TestCenterROI(t *testing.T) {
	f := NewFrame(1920, 1080)
	roi := CenterROI(f)
	want := image.Rect(480, 270, 1440, 810)
	if roi != want {
		t.Errorf("CenterROI = %v, want %v", roi, want)
	}
}

func TestJPEGRoundTrip(t *testing.T) {
	f := Solid(64, 48, 200, 120, 40)
	var buf bytes.Buffer
	if err := f.EncodeJPEG(&buf, 90); err != nil {
		t.Fatalf("EncodeJPEG: %v", err)
	}
	got, err := DecodeJPEG(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeJPEG: %v", err)
	}
	if got.Width != 64 || got.Height != 48 {
		t.Fatalf("decoded size = %dx%d, want 64x48", got.Width, got.Height)
	}
	// JPEG 有损，只验证颜色大致还原
	r, g, b := got.RGBAt(32, 24)
	if math.Abs(float64(r)-200) > 16 || math.Abs(float64(g)-120) > 16 || math.Abs(float64(b)-40) > 16 {
		t.Errorf("decoded center pixel = (%d,%d,%d), want ~(200,120,40)", r, g, b)
	}
}

func TestFillRectClipped(t *testing.T) {
	f := NewFrame(10, 10)
	f.FillRect(image.Rect(5, 5, 20, 20), 255, 0, 0)
	if r, _, _ := f.RGBAt(9, 9); r != 255 {
		t.Error("in-bounds pixel not filled")
	}
	if r, _, _ := f.RGBAt(4, 4); r != 0 {
		t.Error("outside pixel should stay zero")
	}
}
