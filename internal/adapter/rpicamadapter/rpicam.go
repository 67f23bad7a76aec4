package rpicamadapter

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/gowvp/awss/internal/core/detect"
	"github.com/gowvp/awss/pkg/vision"
	"github.com/ixugo/goddd/pkg/queue"
)

var _ detect.Camera = (*Camera)(nil)

const captureTimeout = 10 * time.Second

// Camera 树莓派相机适配器，每次抓拍调用 rpicam-still 输出一张 JPEG 到 stdout
// 不维持常驻采集进程，静态抓拍场景下这是最省资源的方式
type Camera struct {
	width, height int
	binary        string

	m       sync.Mutex
	started bool

	// 保留最近的 stderr 输出，抓拍失败时方便定位
	cmdLog *queue.CirQueue[string]
}

// New 创建相机适配器
func New(width, height int) *Camera {
	if width <= 0 {
		width = 1920
	}
	if height <= 0 {
		height = 1080
	}
	return &Camera{
		width:  width,
		height: height,
		cmdLog: queue.NewCirQueue[string](100),
	}
}

// Start 定位抓拍命令，优先 rpicam-still，兼容旧系统的 libcamera-still
func (c *Camera) Start() error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.started {
		return nil
	}
	for _, name := range []string{"rpicam-still", "libcamera-still"} {
		if path, err := exec.LookPath(name); err == nil {
			c.binary = path
			c.started = true
			return nil
		}
	}
	return fmt.Errorf("rpicam-still not found in PATH")
}

func (c *Camera) Stop() error {
	c.m.Lock()
	defer c.m.Unlock()
	c.started = false
	return nil
}

// CaptureFrame 抓拍一帧并解码为 RGB 帧
func (c *Camera) CaptureFrame() (*vision.Frame, error) {
	c.m.Lock()
	binary, started := c.binary, c.started
	c.m.Unlock()
	if !started {
		return nil, fmt.Errorf("camera not started")
	}

	ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
	defer cancel()

	// -n 不开预览窗口，-t 1 立即抓拍
	args := []string{
		"-n",
		"-t", "1",
		"--width", strconv.Itoa(c.width),
		"--height", strconv.Itoa(c.height),
		"-e", "jpg",
		"-q", "90",
		"-o", "-",
	}
	cmd := exec.CommandContext(ctx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		for _, line := range bytes.Split(stderr.Bytes(), []byte("\n")) {
			if len(line) > 0 {
				c.cmdLog.Push(string(line))
			}
		}
		return nil, fmt.Errorf("run %s: %w", binary, err)
	}

	frame, err := vision.DecodeJPEG(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	frame.CapturedAt = time.Now()
	return frame, nil
}

// Log 最近的抓拍命令 stderr 输出
func (c *Camera) Log() []string {
	return c.cmdLog.Range()
}
