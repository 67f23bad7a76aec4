package detect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// processBag 把一次确认触发变成一条落盘的检测记录
//
// 顺序：稳定延迟 -> 抓拍 -> JPEG 落盘 -> 分类 -> 组装记录 -> 留痕与日志
// 图片写入失败对本次调用是致命的；分类在合法帧上不会失败
// 每次调用相互独立，不依赖任何跨调用状态
func (c *Core) processBag(ctx context.Context) (*Detection, error) {
	// 等袋子在画面里停稳，用成像质量换延迟
	sleepCtx(ctx, c.conf.SettleDelay.Duration())
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := c.camera.CaptureFrame()
	if err != nil {
		return nil, fmt.Errorf("capture frame: %w", err)
	}

	now := time.Now()
	filename, path := c.capture.ImagePath(now)
	if err := c.capture.SaveImage(frame, path); err != nil {
		return nil, err
	}

	// 分类直接读内存帧，落盘只是旁路留档
	cls := c.classifier.Classify(frame)

	det := Detection{
		ID:            uuid.NewString(),
		CreatedAt:     now,
		ImagePath:     path,
		ImageFilename: filename,
	}
	if err := copier.Copy(&det, &cls); err != nil {
		return nil, fmt.Errorf("assemble detection: %w", err)
	}

	c.results.Push(&det)
	if err := c.capture.AppendLog(&det); err != nil {
		return nil, err
	}

	// 数据库是补充存储，失败不影响本次检测结果
	if c.store != nil {
		if err := c.store.Detection().Add(ctx, &det); err != nil {
			slog.ErrorContext(ctx, "保存检测记录失败", "id", det.ID, "err", err)
		}
	}

	c.log.Info("检测完成",
		"color", det.Color,
		"category", det.Category,
		"confidence", fmt.Sprintf("%.1f%%", det.Confidence),
		"image", det.ImageFilename,
	)
	return &det, nil
}
