package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/gowvp/awss/internal/adapter/gpioadapter"
	"github.com/gowvp/awss/internal/adapter/rpicamadapter"
	"github.com/gowvp/awss/internal/adapter/simadapter"
	"github.com/gowvp/awss/internal/conf"
	"github.com/gowvp/awss/internal/core/detect"
	"github.com/gowvp/awss/internal/core/detect/store/detectdb"
	"github.com/ixugo/goddd/domain/version/versionapi"
	"github.com/ixugo/goddd/pkg/orm"
	"github.com/ixugo/goddd/pkg/web"
	"gorm.io/gorm"
)

var (
	ProviderVersionSet = wire.NewSet(versionapi.NewVersionCore)
	ProviderSet        = wire.NewSet(
		wire.Struct(new(Usecase), "*"),
		NewHTTPHandler,
		versionapi.New,
		NewDetectStore, NewDetectCore, NewDetectAPI,
		NewUserAPI,
	)
)

type Usecase struct {
	Conf      *conf.Bootstrap
	DB        *gorm.DB
	Version   versionapi.API
	DetectAPI DetectAPI
	UserAPI   UserAPI
}

// NewHTTPHandler 生成Gin框架路由内容
func NewHTTPHandler(uc *Usecase) http.Handler {
	cfg := uc.Conf.Server
	if cfg.HTTP.JwtSecret == "" {
		uc.Conf.Server.HTTP.JwtSecret = orm.GenerateRandomString(32)
	}
	if !uc.Conf.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()
	// 如果启用了 Pprof，设置 Pprof 监控
	if cfg.HTTP.PProf.Enabled {
		web.SetupPProf(g, &cfg.HTTP.PProf.AccessIps)
	}

	setupRouter(g, uc)
	uc.Version.RecordVersion()
	return g
}

// NewDetectStore 创建检测记录存储层
func NewDetectStore(db *gorm.DB) detect.Storer {
	return detectdb.NewDB(db).AutoMigrate(orm.GetEnabledAutoMigrate())
}

// NewDetectCore 按配置装配硬件驱动并创建检测引擎
// 返回的清理函数负责停止检测并释放 GPIO 与相机
func NewDetectCore(bc *conf.Bootstrap, store detect.Storer) (*detect.Core, func(), error) {
	cfg := &bc.Detect

	sensor, err := newSensor(cfg)
	if err != nil {
		return nil, nil, err
	}
	camera := newCamera(cfg)

	core, err := detect.NewCore(store,
		detect.WithSensor(sensor),
		detect.WithCamera(camera),
		detect.WithConfig(cfg),
	)
	if err != nil {
		_ = sensor.Close()
		return nil, nil, err
	}

	go core.StartCleanupWorker(context.Background(), cfg.RetainDays)

	if cfg.AutoStart {
		if err := core.Start(); err != nil {
			slog.Warn("自动启动检测失败，可通过接口手动启动", "err", err)
		}
	}
	return core, func() { _ = core.Close() }, nil
}

func newSensor(cfg *conf.Detect) (detect.BeamSensor, error) {
	switch cfg.SensorDriver {
	case "sim":
		return simadapter.NewSensor(10*time.Second, 500*time.Millisecond), nil
	default:
		return gpioadapter.New(cfg.IRPin)
	}
}

func newCamera(cfg *conf.Detect) detect.Camera {
	switch cfg.CameraDriver {
	case "sim":
		return simadapter.NewCamera(cfg.Width, cfg.Height)
	default:
		return rpicamadapter.New(cfg.Width, cfg.Height)
	}
}
