package detect

import (
	"context"

	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

// Storer data persistence
type Storer interface {
	Detection() DetectionStorer
}

// DetectionStorer 检测记录存储口
type DetectionStorer interface {
	Add(ctx context.Context, d *Detection) error
	Get(ctx context.Context, d *Detection, opts ...func(*gorm.DB) *gorm.DB) error
	Find(ctx context.Context, items *[]*Detection, pager *web.PagerFilter, opts ...func(*gorm.DB) *gorm.DB) (int64, error)
	Session(ctx context.Context, fn func(*gorm.DB) error) error
}
