package detectdb

import (
	"context"

	"github.com/gowvp/awss/internal/core/detect"
	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

var _ detect.Storer = DB{}

// DB 检测域的数据库存储实现
type DB struct {
	db *gorm.DB
}

func NewDB(db *gorm.DB) DB {
	return DB{db: db}
}

// AutoMigrate 按需建表
func (d DB) AutoMigrate(ok bool) DB {
	if ok {
		if err := d.db.AutoMigrate(new(detect.Detection)); err != nil {
			panic(err)
		}
	}
	return d
}

func (d DB) Detection() detect.DetectionStorer {
	return Detection{db: d.db}
}

// Detection 检测记录表操作
type Detection struct {
	db *gorm.DB
}

func (d Detection) Add(ctx context.Context, det *detect.Detection) error {
	return d.db.WithContext(ctx).Create(det).Error
}

func (d Detection) Get(ctx context.Context, det *detect.Detection, opts ...func(*gorm.DB) *gorm.DB) error {
	db := d.db.WithContext(ctx)
	for _, opt := range opts {
		db = opt(db)
	}
	return db.First(det).Error
}

// Find 分页查询，按时间倒序，返回总数
func (d Detection) Find(ctx context.Context, items *[]*detect.Detection, pager *web.PagerFilter, opts ...func(*gorm.DB) *gorm.DB) (int64, error) {
	db := d.db.WithContext(ctx).Model(new(detect.Detection))
	for _, opt := range opts {
		db = opt(db)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return 0, err
	}

	page, size := pager.Page, pager.Size
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	err := db.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(items).Error
	return total, err
}

func (d Detection) Session(ctx context.Context, fn func(*gorm.DB) error) error {
	return fn(d.db.WithContext(ctx))
}
