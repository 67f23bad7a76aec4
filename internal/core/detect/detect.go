package detect

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gowvp/awss/internal/conf"
	"github.com/ixugo/goddd/pkg/queue"
)

// Core 检测引擎，业务域入口
// 相机与传感器是单消费者硬件资源，在一次 start~stop 会话内由引擎独占，
// 引擎实例最多同时运行一个后台工作循环
type Core struct {
	store      Storer
	conf       *conf.Detect
	camera     Camera
	sensor     BeamSensor
	monitor    *Monitor
	capture    *CaptureStore
	classifier *Classifier
	status     *statusStore

	// 进程内最近结果留痕，与文本日志、数据库互为补充
	results *queue.CirQueue[*Detection]

	m      sync.Mutex // 保护 start/stop 的互斥
	cancel context.CancelFunc
	log    *slog.Logger
}

type Option func(*Core)

// WithCamera 注入相机实现
func WithCamera(c Camera) Option {
	return func(core *Core) { core.camera = c }
}

// WithSensor 注入光束传感器实现
func WithSensor(s BeamSensor) Option {
	return func(core *Core) { core.sensor = s }
}

// WithConfig 注入检测配置
func WithConfig(c *conf.Detect) Option {
	return func(core *Core) { core.conf = c }
}

// NewCore create business domain
func NewCore(store Storer, opts ...Option) (*Core, error) {
	c := Core{
		store:      store,
		classifier: NewClassifier(),
		results:    queue.NewCirQueue[*Detection](100),
		log:        slog.With("module", "detect"),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.conf == nil {
		c.conf = &conf.Default().Detect
	}
	if c.camera == nil || c.sensor == nil {
		return nil, fmt.Errorf("detect: camera and sensor are required")
	}

	capture, err := NewCaptureStore(c.conf.CaptureDir, c.conf.LogDir)
	if err != nil {
		return nil, err
	}
	c.capture = capture
	c.monitor = NewMonitor(c.sensor, c.conf.Debounce.Duration())
	c.status = newStatusStore(c.conf.HistorySize)
	return &c, nil
}

// Start 启动相机并拉起后台工作循环，重复调用是幂等的
func (c *Core) Start() error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.status.isRunning() {
		c.log.Info("检测已在运行，忽略重复启动")
		return nil
	}

	if err := c.camera.Start(); err != nil {
		return fmt.Errorf("start camera: %w", err)
	}
	time.Sleep(c.conf.CameraWarmup.Duration())

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.status.reset(time.Now())

	// 传感器自检只记日志，不阻止启动
	go func() {
		pct, err := c.monitor.Verify(ctx, 2*time.Second)
		if err != nil {
			c.log.Warn("传感器自检失败", "err", err)
			return
		}
		if pct < 0.9 {
			c.log.Warn("光束疑似被遮挡或未对准", "clear_pct", fmt.Sprintf("%.1f%%", pct*100))
			return
		}
		c.log.Info("传感器自检通过", "clear_pct", fmt.Sprintf("%.1f%%", pct*100))
	}()

	go c.run(ctx)
	c.log.Info("检测引擎已启动")
	return nil
}

// Stop 通知工作循环退出并释放相机，重复调用是幂等的
// 停止是协作式的：循环在下一个检查点退出，最长延迟约为
// 稳定延迟 + 抓拍耗时 + 冷却超时
func (c *Core) Stop() error {
	c.m.Lock()
	defer c.m.Unlock()
	if !c.status.isRunning() {
		return nil
	}
	c.status.setRunning(false)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if err := c.camera.Stop(); err != nil {
		c.log.Warn("停止相机失败", "err", err)
	}
	c.log.Info("检测引擎已停止")
	return nil
}

// Close 释放硬件资源，进程退出前调用
func (c *Core) Close() error {
	_ = c.Stop()
	return c.sensor.Close()
}

// Status 返回状态快照
func (c *Core) Status() Status {
	return c.status.snapshot()
}

// RecentResults 进程内留痕的最近结果，测试与诊断用
func (c *Core) RecentResults() []*Detection {
	return c.results.Range()
}

// Verify 传感器自检，返回畅通时间占比
func (c *Core) Verify(ctx context.Context, d time.Duration) (float64, error) {
	return c.monitor.Verify(ctx, d)
}

// ProcessOnce 跳过触发等待，同步执行一次完整流水线
// 供测试与模拟场景使用，结果同样进入状态与历史
func (c *Core) ProcessOnce(ctx context.Context) (*Detection, error) {
	det, err := c.processBag(ctx)
	if err != nil {
		c.status.push(errorDetection(err))
		return nil, err
	}
	c.status.push(det)
	return det, nil
}

// errorDetection 把流水线失败包装成 ERROR 类别的状态记录
func errorDetection(err error) *Detection {
	return &Detection{
		CreatedAt:  time.Now(),
		Color:      ColorError,
		Category:   CategoryError,
		Confidence: 0,
		Reason:     err.Error(),
	}
}
