package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

type getStatsOutput struct {
	CPUPercent  float64 `json:"cpu_percent"`
	MemPercent  float64 `json:"mem_percent"`
	MemUsed     uint64  `json:"mem_used"`
	MemTotal    uint64  `json:"mem_total"`
	DiskPercent float64 `json:"disk_percent"` // 抓拍目录所在磁盘
	DiskFree    uint64  `json:"disk_free"`
	Uptime      uint64  `json:"uptime"`
	Hostname    string  `json:"hostname"`
}

// getStats 主机资源占用，运维面板用
// 树莓派 SD 卡容量有限，磁盘占用以抓拍目录所在分区为准
func (uc *Usecase) getStats(_ *gin.Context, _ *struct{}) (*getStatsOutput, error) {
	var out getStatsOutput
	if percents, err := cpu.Percent(200*time.Millisecond, false); err == nil && len(percents) > 0 {
		out.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		out.MemPercent = vm.UsedPercent
		out.MemUsed = vm.Used
		out.MemTotal = vm.Total
	}
	if du, err := disk.Usage(uc.Conf.Detect.CaptureDir); err == nil {
		out.DiskPercent = du.UsedPercent
		out.DiskFree = du.Free
	}
	if info, err := host.Info(); err == nil {
		out.Hostname = info.Hostname
		out.Uptime = info.Uptime
	}
	return &out, nil
}
