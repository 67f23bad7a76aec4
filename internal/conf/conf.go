package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Duration 支持 toml 字符串写法的时长类型，如 "500ms"、"2s"
type Duration time.Duration

// Duration 转为标准库时长
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Bootstrap 程序启动配置
type Bootstrap struct {
	ConfigPath   string `toml:"-" env:"-"`
	BuildVersion string `toml:"-" env:"-"`

	Debug  bool   `toml:"debug" env:"AWSS_DEBUG"`
	Server Server `toml:"server"`
	Data   Data   `toml:"data"`
	Detect Detect `toml:"detect"`
}

type Server struct {
	// 登录账号密码，为空时使用默认值 admin/admin
	Username string `toml:"username" env:"AWSS_USERNAME"`
	Password string `toml:"password" env:"AWSS_PASSWORD"`
	HTTP     HTTP   `toml:"http"`
}

type HTTP struct {
	Port      int    `toml:"port" env:"AWSS_HTTP_PORT"`
	JwtSecret string `toml:"jwt_secret" env:"AWSS_JWT_SECRET"`
	PProf     PProf  `toml:"pprof"`
}

type PProf struct {
	Enabled   bool     `toml:"enabled"`
	AccessIps []string `toml:"access_ips"`
}

type Data struct {
	Database Database `toml:"database"`
}

type Database struct {
	// Dsn 以 postgres/mysql 开头时连接对应数据库，否则视为 sqlite 文件路径
	Dsn             string   `toml:"dsn" env:"AWSS_DB_DSN"`
	MaxIdleConns    int      `toml:"max_idle_conns"`
	MaxOpenConns    int      `toml:"max_open_conns"`
	ConnMaxLifetime Duration `toml:"conn_max_lifetime"`
	SlowThreshold   Duration `toml:"slow_threshold"`
}

// Detect 检测流水线配置
type Detect struct {
	// 硬件驱动选择，gpio/rpicam 为树莓派实机，sim 为模拟实现
	SensorDriver string `toml:"sensor_driver" env:"AWSS_SENSOR_DRIVER"`
	CameraDriver string `toml:"camera_driver" env:"AWSS_CAMERA_DRIVER"`

	IRPin  int `toml:"ir_pin"` // BCM 编号，高电平=畅通，低电平=遮挡
	Width  int `toml:"width"`
	Height int `toml:"height"`

	CaptureDir string `toml:"capture_dir"`
	LogDir     string `toml:"log_dir"`

	Debounce      Duration `toml:"debounce"`       // 防抖窗口
	SettleDelay   Duration `toml:"settle_delay"`   // 触发后等物体稳定的延迟
	CameraWarmup  Duration `toml:"camera_warmup"`  // 相机启动预热
	CooldownDelay Duration `toml:"cooldown_delay"` // 光束恢复后的额外冷却
	ClearTimeout  Duration `toml:"clear_timeout"`  // 等待光束恢复的超时上限

	HistorySize int `toml:"history_size"` // 状态快照保留的最近记录数
	RetainDays  int `toml:"retain_days"`  // 检测记录与图片保留天数，<=0 关闭清理

	AutoStart bool `toml:"auto_start" env:"AWSS_AUTO_START"` // 进程启动后自动开始检测
}

// Default 返回内置默认配置
func Default() *Bootstrap {
	return &Bootstrap{
		Server: Server{
			HTTP: HTTP{Port: 5050},
		},
		Data: Data{
			Database: Database{
				Dsn:             "awss.db",
				MaxIdleConns:    10,
				MaxOpenConns:    50,
				ConnMaxLifetime: Duration(6 * time.Hour),
				SlowThreshold:   Duration(500 * time.Millisecond),
			},
		},
		Detect: Detect{
			SensorDriver:  "gpio",
			CameraDriver:  "rpicam",
			IRPin:         23,
			Width:         1920,
			Height:        1080,
			CaptureDir:    filepath.Join("data", "captures"),
			LogDir:        filepath.Join("data", "logs"),
			Debounce:      Duration(80 * time.Millisecond),
			SettleDelay:   Duration(time.Second),
			CameraWarmup:  Duration(1500 * time.Millisecond),
			CooldownDelay: Duration(time.Second),
			ClearTimeout:  Duration(2 * time.Second),
			HistorySize:   20,
			RetainDays:    30,
		},
	}
}

// Load 读取配置文件并套用环境变量覆盖
// 文件不存在时写出默认配置，方便首次部署
func Load(path string) (*Bootstrap, error) {
	bc := Default()
	bc.ConfigPath = path

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, bc); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if err := WriteConfig(bc, path); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(bc); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return bc, nil
}

// WriteConfig 将配置写回文件
func WriteConfig(bc *Bootstrap, path string) error {
	data, err := toml.Marshal(bc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
