package api

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gowvp/awss/internal/conf"
	"github.com/gowvp/awss/internal/core/detect"
	"github.com/ixugo/goddd/pkg/web"
)

// DetectAPI 为 http 提供检测控制与查询方法
type DetectAPI struct {
	core *detect.Core
	conf *conf.Bootstrap
}

func NewDetectAPI(core *detect.Core, conf *conf.Bootstrap) DetectAPI {
	return DetectAPI{core: core, conf: conf}
}

func RegisterDetect(g gin.IRouter, api DetectAPI, mid ...gin.HandlerFunc) {
	// 查询接口开放给面板轮询
	group := g.Group("/detect")
	group.GET("/status", web.WrapH(api.getStatus))
	group.GET("/records", web.WrapH(api.findRecords))
	group.GET("/records/:id", web.WrapH(api.getRecord))
	group.GET("/latest-image", api.latestImage)

	// 控制接口需要登录
	ctrl := g.Group("/detect", mid...)
	ctrl.POST("/start", web.WrapH(api.start))
	ctrl.POST("/stop", web.WrapH(api.stop))
	ctrl.POST("/process", web.WrapH(api.processOnce))
	ctrl.GET("/verify", web.WrapH(api.verify))

	// 抓拍图片静态服务，Gin Static 支持 HTTP Range 请求
	if api.conf != nil && api.conf.Detect.CaptureDir != "" {
		g.Static("/static/captures", api.conf.Detect.CaptureDir)
	}
}

func (a DetectAPI) start(_ *gin.Context, _ *struct{}) (detect.Status, error) {
	if err := a.core.Start(); err != nil {
		return detect.Status{}, err
	}
	return a.core.Status(), nil
}

func (a DetectAPI) stop(_ *gin.Context, _ *struct{}) (detect.Status, error) {
	if err := a.core.Stop(); err != nil {
		return detect.Status{}, err
	}
	return a.core.Status(), nil
}

func (a DetectAPI) getStatus(_ *gin.Context, _ *struct{}) (detect.Status, error) {
	return a.core.Status(), nil
}

// processOnce 跳过触发等待，立即执行一次检测，调试与演示用
func (a DetectAPI) processOnce(c *gin.Context, _ *struct{}) (*detect.Detection, error) {
	return a.core.ProcessOnce(c.Request.Context())
}

// findRecords 分页查询历史检测记录
func (a DetectAPI) findRecords(c *gin.Context, in *detect.FindDetectionInput) (any, error) {
	items, total, err := a.core.FindDetections(c.Request.Context(), in)
	return gin.H{"items": items, "total": total}, err
}

func (a DetectAPI) getRecord(c *gin.Context, _ *struct{}) (*detect.Detection, error) {
	return a.core.GetDetection(c.Request.Context(), c.Param("id"))
}

type verifyInput struct {
	Seconds int `form:"seconds"`
}

type verifyOutput struct {
	ClearPercent float64 `json:"clear_percent"`
	Duration     string  `json:"duration"`
}

// verify 采样一段时间的传感器读数，用于安装对准
func (a DetectAPI) verify(c *gin.Context, in *verifyInput) (*verifyOutput, error) {
	d := time.Duration(in.Seconds) * time.Second
	if d <= 0 {
		d = 2 * time.Second
	}
	if d > 30*time.Second {
		d = 30 * time.Second
	}
	pct, err := a.core.Verify(c.Request.Context(), d)
	if err != nil {
		return nil, err
	}
	return &verifyOutput{ClearPercent: pct * 100, Duration: d.String()}, nil
}

// latestImage 返回最近一次抓拍的原图
func (a DetectAPI) latestImage(c *gin.Context) {
	snap := a.core.Status()

	// 最新在前，跳过没有图片的错误记录
	var path string
	for _, d := range snap.History {
		if d.ImagePath != "" {
			path = d.ImagePath
			break
		}
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"msg": "暂无抓拍图片"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "图片文件不存在"})
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(path)
}
