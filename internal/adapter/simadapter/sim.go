// Package simadapter 提供传感器与相机的模拟实现
// 和生产适配器满足同一套契约，通过配置选择，流水线代码无需分叉
package simadapter

import (
	"sync/atomic"
	"time"

	"github.com/gowvp/awss/internal/core/detect"
	"github.com/gowvp/awss/pkg/vision"
)

var (
	_ detect.BeamSensor = (*Sensor)(nil)
	_ detect.Camera     = (*Camera)(nil)
)

// Sensor 周期性模拟光束遮挡：每 interval 遮挡一次，持续 hold
type Sensor struct {
	interval time.Duration
	hold     time.Duration
	epoch    time.Time
}

// NewSensor 创建模拟传感器，参数不合法时使用 10s/500ms
func NewSensor(interval, hold time.Duration) *Sensor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if hold <= 0 || hold >= interval {
		hold = 500 * time.Millisecond
	}
	return &Sensor{interval: interval, hold: hold, epoch: time.Now()}
}

func (s *Sensor) IsBroken() (bool, error) {
	phase := time.Since(s.epoch) % s.interval
	return phase < s.hold, nil
}

func (s *Sensor) Close() error { return nil }

// Camera 轮流返回三种纯色帧，颜色各自落在一个分类阈值带内
type Camera struct {
	width, height int
	next          atomic.Int64
}

// 依次对应 blue/green/black 的阈值带
var simColors = [][3]byte{
	{255, 200, 50},
	{60, 220, 60},
	{30, 30, 30},
}

func NewCamera(width, height int) *Camera {
	if width <= 0 {
		width = 640
	}
	if height <= 0 {
		height = 480
	}
	return &Camera{width: width, height: height}
}

func (c *Camera) Start() error { return nil }
func (c *Camera) Stop() error  { return nil }

func (c *Camera) CaptureFrame() (*vision.Frame, error) {
	i := int(c.next.Add(1)-1) % len(simColors)
	rgb := simColors[i]
	return vision.Solid(c.width, c.height, rgb[0], rgb[1], rgb[2]), nil
}
