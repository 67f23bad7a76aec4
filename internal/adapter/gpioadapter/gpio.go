package gpioadapter

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gowvp/awss/internal/core/detect"
	"github.com/stianeikeland/go-rpio/v4"
)

var _ detect.BeamSensor = (*Sensor)(nil)

// Sensor 树莓派 GPIO 上的红外对射传感器
// 接法与电平约定：BCM 编号、内部上拉，高电平=畅通，低电平=遮挡
type Sensor struct {
	pin rpio.Pin

	m      sync.Mutex
	closed bool
}

// New 打开 GPIO 并初始化输入引脚
func New(bcmPin int) (*Sensor, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}
	pin := rpio.Pin(bcmPin)
	pin.Input()
	pin.PullUp()

	slog.Info("红外传感器初始化完成", "pin", bcmPin, "logic", "HIGH=clear, LOW=broken")
	return &Sensor{pin: pin}, nil
}

// IsBroken 低电平表示光束被遮挡
func (s *Sensor) IsBroken() (bool, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.closed {
		return false, fmt.Errorf("gpio sensor closed")
	}
	return s.pin.Read() == rpio.Low, nil
}

func (s *Sensor) Close() error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return rpio.Close()
}
