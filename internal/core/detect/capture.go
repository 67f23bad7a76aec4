package detect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gowvp/awss/pkg/vision"
)

const jpegQuality = 90

// CaptureStore 负责把抓拍帧落盘为 JPEG，并向按天滚动的文本日志追加记录
type CaptureStore struct {
	captureDir string
	logDir     string
}

// NewCaptureStore 创建抓拍存储，目录不存在时自动建立
func NewCaptureStore(captureDir, logDir string) (*CaptureStore, error) {
	for _, dir := range []string{captureDir, logDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return &CaptureStore{captureDir: captureDir, logDir: logDir}, nil
}

// ImagePath 按时间戳生成抓拍文件名及完整路径
func (s *CaptureStore) ImagePath(t time.Time) (filename, path string) {
	filename = fmt.Sprintf("bag_%s.jpg", t.Format("20060102_150405"))
	return filename, filepath.Join(s.captureDir, filename)
}

// SaveImage 将帧编码为 JPEG 写入 path
// 写入失败对本次检测是致命的，错误原样上抛，不做重试
func (s *CaptureStore) SaveImage(f *vision.Frame, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image %s: %w", path, err)
	}
	defer file.Close()
	if err := f.EncodeJPEG(file, jpegQuality); err != nil {
		return fmt.Errorf("encode image %s: %w", path, err)
	}
	return nil
}

// LogPath 返回指定日期的日志文件路径
func (s *CaptureStore) LogPath(t time.Time) string {
	return filepath.Join(s.logDir, fmt.Sprintf("awss_log_%s.txt", t.Format("20060102")))
}

// AppendLog 向当天日志追加一条固定格式的检测记录
// 字段顺序固定：分隔线、时间、颜色、类别、HSV、置信度、原因、图片路径
func (s *CaptureStore) AppendLog(d *Detection) error {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("=", 60))
	fmt.Fprintf(&b, "Time: %s\n", d.CreatedAt.Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, "Color: %s\n", d.Color)
	fmt.Fprintf(&b, "Category: %s\n", d.Category)
	fmt.Fprintf(&b, "HSV: H=%.1f, S=%.1f, V=%.1f\n", d.AvgH, d.AvgS, d.AvgV)
	fmt.Fprintf(&b, "Confidence: %.1f%%\n", d.Confidence)
	fmt.Fprintf(&b, "Reason: %s\n", d.Reason)
	fmt.Fprintf(&b, "Image: %s\n", d.ImagePath)

	file, err := os.OpenFile(s.LogPath(d.CreatedAt), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer file.Close()
	if _, err := file.WriteString(b.String()); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

// CaptureDir 抓拍目录，供静态文件服务使用
func (s *CaptureStore) CaptureDir() string {
	return s.captureDir
}
