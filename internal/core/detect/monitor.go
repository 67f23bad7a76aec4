package detect

import (
	"context"
	"time"
)

const (
	clearPollInterval  = 10 * time.Millisecond // 畅通状态下的轮询间隔
	windowPollInterval = 5 * time.Millisecond  // 防抖窗口内的轮询间隔
	verifyPollInterval = 100 * time.Millisecond
)

// Monitor 把抖动的光束信号整形成一次确认触发
//
// 状态机：CLEAR -> CANDIDATE（光束刚被遮挡，防抖窗口计时中）-> CONFIRMED
// 窗口内信号一旦恢复畅通即视为噪声，回到 CLEAR 重新等待
// 这里用迭代循环而不是递归重试，信号抖动再剧烈也不会加深调用栈
type Monitor struct {
	sensor   BeamSensor
	debounce time.Duration
}

// NewMonitor 创建触发监视器，debounce 为防抖窗口时长
func NewMonitor(sensor BeamSensor, debounce time.Duration) *Monitor {
	if debounce <= 0 {
		debounce = 80 * time.Millisecond
	}
	return &Monitor{sensor: sensor, debounce: debounce}
}

// WaitForBag 阻塞等待一次确认触发
// 没有超时，只能通过取消 ctx 在下一个轮询点退出
// 传感器读取出错时立即返回错误，由调用方决定重试
func (m *Monitor) WaitForBag(ctx context.Context) error {
	for {
		// CLEAR：等待光束被遮挡
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			broken, err := m.sensor.IsBroken()
			if err != nil {
				return err
			}
			if broken {
				break
			}
			sleepCtx(ctx, clearPollInterval)
		}

		// CANDIDATE：防抖窗口内必须持续遮挡
		deadline := time.Now().Add(m.debounce)
		reverted := false
		for time.Now().Before(deadline) {
			if err := ctx.Err(); err != nil {
				return err
			}
			broken, err := m.sensor.IsBroken()
			if err != nil {
				return err
			}
			if !broken {
				reverted = true
				break
			}
			sleepCtx(ctx, windowPollInterval)
		}
		if reverted {
			continue // 噪声，回到 CLEAR
		}

		// CONFIRMED
		return nil
	}
}

// IsActive 返回光束当前是否被遮挡，读取失败按畅通处理
func (m *Monitor) IsActive() bool {
	broken, err := m.sensor.IsBroken()
	return err == nil && broken
}

// Verify 在指定时长内采样信号，返回畅通时间占比（0..1）
// 仅用于启动自检，不影响状态机
func (m *Monitor) Verify(ctx context.Context, d time.Duration) (float64, error) {
	var clear, total int
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		broken, err := m.sensor.IsBroken()
		if err != nil {
			return 0, err
		}
		if !broken {
			clear++
		}
		total++
		sleepCtx(ctx, verifyPollInterval)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(clear) / float64(total), nil
}

// sleepCtx 可被 ctx 打断的休眠
func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
