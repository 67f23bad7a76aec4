package vision

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"time"
)

// Frame 一帧 RGB 图像（每像素 3 字节，行优先存储）
type Frame struct {
	Width, Height int
	Pix           []byte
	CapturedAt    time.Time
}

// NewFrame 创建指定分辨率的空白帧
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:      width,
		Height:     height,
		Pix:        make([]byte, width*height*3),
		CapturedAt: time.Now(),
	}
}

// Solid 创建纯色帧，主要用于模拟相机和测试
func Solid(width, height int, r, g, b byte) *Frame {
	f := NewFrame(width, height)
	for i := 0; i < len(f.Pix); i += 3 {
		f.Pix[i] = r
		f.Pix[i+1] = g
		f.Pix[i+2] = b
	}
	return f
}

// RGBAt 读取指定位置的像素，越界属于调用方错误，不做检查
func (f *Frame) RGBAt(x, y int) (r, g, b byte) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// SetRGB 写入指定位置的像素
func (f *Frame) SetRGB(x, y int, r, g, b byte) {
	i := (y*f.Width + x) * 3
	f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
}

// FillRect 用纯色填充矩形区域，用于构造测试帧
func (f *Frame) FillRect(rect image.Rectangle, r, g, b byte) {
	rect = rect.Intersect(image.Rect(0, 0, f.Width, f.Height))
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			f.SetRGB(x, y, r, g, b)
		}
	}
}

// CenterROI 返回中心 50%×50% 的感兴趣区域
// 取 1/4 到 3/4 边界，避开边缘伪影和背景干扰
func CenterROI(f *Frame) image.Rectangle {
	return image.Rect(f.Width/4, f.Height/4, f.Width/4*3, f.Height/4*3)
}

// HSV 色相/饱和度/明度，采用 OpenCV 的 8 位标度
// H 取值 [0,180)，S 和 V 取值 [0,255]
type HSV struct {
	H, S, V float64
}

// Range HSV 阈值范围，上下界均为闭区间
type Range struct {
	Lo, Hi HSV
}

// Contains 判断像素是否落在阈值范围内
func (r Range) Contains(p HSV) bool {
	return p.H >= r.Lo.H && p.H <= r.Hi.H &&
		p.S >= r.Lo.S && p.S <= r.Hi.S &&
		p.V >= r.Lo.V && p.V <= r.Hi.V
}

// RGBToHSV 将 8 位 RGB 转为 OpenCV 标度的 HSV
func RGBToHSV(r, g, b byte) HSV {
	rf, gf, bf := float64(r), float64(g), float64(b)

	maxV := max(rf, gf, bf)
	minV := min(rf, gf, bf)
	delta := maxV - minV

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxV == rf:
		h = 60 * (gf - bf) / delta
	case maxV == gf:
		h = 120 + 60*(bf-rf)/delta
	default:
		h = 240 + 60*(rf-gf)/delta
	}
	if h < 0 {
		h += 360
	}

	var s float64
	if maxV > 0 {
		s = delta / maxV * 255
	}

	return HSV{H: h / 2, S: s, V: maxV}
}

// ToImage 转为标准库图像，供 JPEG 编码使用
func (f *Frame) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGBAt(x, y)
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// EncodeJPEG 以指定质量编码为 JPEG
func (f *Frame) EncodeJPEG(w io.Writer, quality int) error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame size: %dx%d", f.Width, f.Height)
	}
	return jpeg.Encode(w, f.ToImage(), &jpeg.Options{Quality: quality})
}

// DecodeJPEG 解码 JPEG 数据为帧
func DecodeJPEG(data []byte) (*Frame, error) {
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode jpeg: %w", err)
	}
	return FromImage(img), nil
}

// FromImage 从标准库图像构造帧
func FromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	f := NewFrame(bounds.Dx(), bounds.Dy())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			f.SetRGB(x, y, byte(r>>8), byte(g>>8), byte(b>>8))
		}
	}
	return f
}
