package detect

import (
	"time"

	"github.com/gowvp/awss/pkg/vision"
)

// Color 袋子颜色
type Color string

const (
	ColorBlue  Color = "blue"
	ColorGreen Color = "green"
	ColorBlack Color = "black"
	// ColorError 流水线失败时的占位颜色，只出现在状态记录里，不会入库
	ColorError Color = "error"
)

// Category 垃圾分类类别
type Category string

const (
	CategoryRecycling Category = "RECYCLING"
	CategoryCompost   Category = "COMPOST"
	CategoryGarbage   Category = "GARBAGE"
	CategoryError     Category = "ERROR"
)

// categories 颜色到类别的固定映射
var categories = map[Color]Category{
	ColorBlue:  CategoryRecycling,
	ColorGreen: CategoryCompost,
	ColorBlack: CategoryGarbage,
}

// CategoryOf 返回颜色对应的类别
func CategoryOf(c Color) Category {
	return categories[c]
}

// Classification 分类结果，由分类器纯函数产出后不再修改
type Classification struct {
	Color      Color              `json:"color"`
	Category   Category           `json:"category"`
	AvgH       float64            `json:"avg_h"`
	AvgS       float64            `json:"avg_s"`
	AvgV       float64            `json:"avg_v"`
	Confidence float64            `json:"confidence"` // 0..100
	Reason     string             `json:"reason"`
	Matches    map[string]float64 `json:"color_matches"` // 各参考色匹配像素百分比
}

// Detection 一次检测的完整记录，同时是入库模型
type Detection struct {
	ID            string             `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time          `gorm:"column:created_at;index" json:"timestamp"`
	Color         Color              `gorm:"column:color" json:"color"`
	Category      Category           `gorm:"column:category;index" json:"category"`
	AvgH          float64            `gorm:"column:avg_h" json:"avg_h"`
	AvgS          float64            `gorm:"column:avg_s" json:"avg_s"`
	AvgV          float64            `gorm:"column:avg_v" json:"avg_v"`
	Confidence    float64            `gorm:"column:confidence" json:"confidence"`
	Reason        string             `gorm:"column:reason" json:"reason"`
	Matches       map[string]float64 `gorm:"column:matches;serializer:json" json:"color_matches"`
	ImagePath     string             `gorm:"column:image_path" json:"image_path"`
	ImageFilename string             `gorm:"column:image_filename" json:"image_filename"`
}

func (*Detection) TableName() string {
	return "detections"
}

// Status 系统状态快照，对外只读
type Status struct {
	Running   bool         `json:"running"`
	StartedAt *time.Time   `json:"started_at"`
	Last      *Detection   `json:"last"`
	History   []*Detection `json:"history"` // 最新在前，容量有限
	LastError string       `json:"last_error"`
	TotalBags int64        `json:"total_bags"`
}

// BeamSensor 红外对射传感器的原始读取口
// 生产实现为树莓派 GPIO，开发环境用模拟实现
type BeamSensor interface {
	// IsBroken 返回光束当前是否被遮挡
	IsBroken() (bool, error)
	Close() error
}

// Camera 单帧相机口，硬件由检测引擎独占
type Camera interface {
	Start() error
	Stop() error
	CaptureFrame() (*vision.Frame, error)
}
