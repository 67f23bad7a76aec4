package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gowvp/awss/internal/app"
	"github.com/gowvp/awss/internal/conf"
	"github.com/ixugo/goddd/pkg/system"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
)

// 编译期通过 -ldflags 注入
var (
	buildVersion = "dev"
	gitBranch    = "unknown"
	gitHash      = "unknown"
)

func main() {
	var confPath string
	flag.StringVar(&confPath, "conf", filepath.Join(system.Getwd(), "configs", "config.toml"), "配置文件路径")
	flag.Parse()

	bc, err := conf.Load(confPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "加载配置失败:", err)
		os.Exit(1)
	}
	bc.BuildVersion = buildVersion

	log, err := setupLogger(bc.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "初始化日志失败:", err)
		os.Exit(1)
	}

	expvar.NewString("git_branch").Set(gitBranch)
	expvar.NewString("git_hash").Set(gitHash)
	log.Info("启动", "version", buildVersion, "branch", gitBranch, "hash", gitHash, "conf", confPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, bc, log); err != nil {
		log.Error("服务异常退出", "err", err)
		os.Exit(1)
	}
}

// setupLogger 日志按天切割，保留 7 天；调试模式额外输出到控制台
func setupLogger(debug bool) (*slog.Logger, error) {
	logDir := filepath.Join(system.Getwd(), "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	writer, err := rotatelogs.New(
		filepath.Join(logDir, "awss.%Y%m%d.log"),
		rotatelogs.WithMaxAge(7*24*time.Hour),
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		return nil, err
	}

	var out io.Writer = writer
	level := slog.LevelInfo
	if debug {
		out = io.MultiWriter(writer, os.Stderr)
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return log, nil
}
