package detect

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ixugo/goddd/pkg/conc"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

// StartCleanupWorker 定期删除过期的检测记录和抓拍图片，阻塞到 ctx 取消
// days 指定保留天数，<=0 关闭清理；调用方用 go 拉起
func (c *Core) StartCleanupWorker(ctx context.Context, days int) {
	if days <= 0 {
		c.log.Info("检测记录清理未启用", "days", days)
		return
	}
	if c.store == nil {
		return
	}

	c.log.Info("检测记录清理协程启动", "retain_days", days)

	// 启动时先执行一次
	c.cleanupExpired(days)

	conc.Timer(ctx, 24*time.Hour, 24*time.Hour, func() {
		c.cleanupExpired(days)
	})
}

// cleanupExpired 分批删除过期记录，先删图片文件再删数据库行
func (c *Core) cleanupExpired(days int) {
	ctx := context.Background()
	cutoff := time.Now().AddDate(0, 0, -days)

	const batchSize = 100
	var totalRows, totalFiles int

	for {
		var items []*Detection
		pager := web.PagerFilter{Page: 1, Size: batchSize}
		_, err := c.store.Detection().Find(ctx, &items, &pager,
			orm.Where("created_at < ?", cutoff),
		)
		if err != nil {
			slog.Error("查询过期检测记录失败", "err", err)
			break
		}
		if len(items) == 0 {
			break
		}

		ids := make([]string, 0, len(items))
		for _, d := range items {
			ids = append(ids, d.ID)
			if d.ImagePath == "" {
				continue
			}
			if err := os.Remove(d.ImagePath); err != nil {
				if !os.IsNotExist(err) {
					slog.Warn("删除抓拍图片失败", "path", d.ImagePath, "err", err)
				}
			} else {
				totalFiles++
			}
		}

		err = c.store.Detection().Session(ctx, func(tx *gorm.DB) error {
			return tx.Where("id IN ?", ids).Delete(&Detection{}).Error
		})
		if err != nil {
			slog.Warn("批量删除检测记录失败", "count", len(ids), "err", err)
			break
		}
		totalRows += len(ids)
	}

	c.log.Info("检测记录清理完成",
		"rows_deleted", totalRows,
		"files_deleted", totalFiles,
		"cutoff", cutoff.Format(time.DateTime),
	)
}
