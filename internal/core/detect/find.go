package detect

import (
	"context"
	"fmt"

	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

// FindDetectionInput 检测记录查询条件
type FindDetectionInput struct {
	web.PagerFilter
	Category string `form:"category"`
	Color    string `form:"color"`
}

// FindDetections 分页查询历史检测记录，按时间倒序
func (c *Core) FindDetections(ctx context.Context, in *FindDetectionInput) ([]*Detection, int64, error) {
	if c.store == nil {
		return nil, 0, fmt.Errorf("database store not configured")
	}
	opts := make([]func(*gorm.DB) *gorm.DB, 0, 2)
	if in.Category != "" {
		opts = append(opts, orm.Where("category = ?", in.Category))
	}
	if in.Color != "" {
		opts = append(opts, orm.Where("color = ?", in.Color))
	}
	items := make([]*Detection, 0)
	total, err := c.store.Detection().Find(ctx, &items, &in.PagerFilter, opts...)
	return items, total, err
}

// GetDetection 按 id 查询单条记录
func (c *Core) GetDetection(ctx context.Context, id string) (*Detection, error) {
	if c.store == nil {
		return nil, fmt.Errorf("database store not configured")
	}
	var det Detection
	if err := c.store.Detection().Get(ctx, &det, orm.Where("id = ?", id)); err != nil {
		return nil, err
	}
	return &det, nil
}
