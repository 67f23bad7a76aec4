package detect

import (
	"context"
	"time"
)

const (
	sensorRetryDelay  = time.Second
	cooldownPollIntvl = 50 * time.Millisecond
)

// run 后台工作循环，核心里唯一的长驻控制流
//
// 任何一次迭代内的失败都会被转成状态记录后继续下一轮，
// 绝不允许失败悄悄终止循环；退出只发生在 running 标志翻转之后
func (c *Core) run(ctx context.Context) {
	c.log.Info("工作循环开始")
	defer c.log.Info("工作循环退出")

	for {
		if ctx.Err() != nil || !c.status.isRunning() {
			return
		}

		// 阻塞等待确认触发；瞬时读取错误记入状态后稍等重试
		if err := c.monitor.WaitForBag(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			c.status.setLastError(err.Error())
			c.log.Warn("等待触发出错，稍后重试", "err", err)
			sleepCtx(ctx, sensorRetryDelay)
			continue
		}

		// 等待期间收到停止请求时，必须在做任何工作前退出
		if ctx.Err() != nil || !c.status.isRunning() {
			return
		}

		det, err := c.processBag(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.status.push(errorDetection(err))
			c.log.Error("流水线执行失败", "err", err)
		} else {
			c.status.push(det)
		}

		c.cooldown(ctx)
	}
}

// cooldown 等光束恢复畅通（有超时上限，防传感器卡死），再附加固定延迟
// 避免同一个袋子触发多次
func (c *Core) cooldown(ctx context.Context) {
	deadline := time.Now().Add(c.conf.ClearTimeout.Duration())
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}
		broken, err := c.sensor.IsBroken()
		if err != nil || !broken {
			break
		}
		sleepCtx(ctx, cooldownPollIntvl)
	}
	sleepCtx(ctx, c.conf.CooldownDelay.Duration())
}
