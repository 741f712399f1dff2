package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/palemoky/electric-chair/internal/config"
	"github.com/palemoky/electric-chair/internal/logger"
	"github.com/palemoky/electric-chair/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	logDir := flag.String("log-dir", "", "日志目录（默认 ~/.electric-chair）")
	flag.Parse()

	if err := logger.Init(*logDir, true); err != nil {
		log.Printf("初始化日志文件失败，仅输出到终端: %v", err)
	}
	defer logger.Close()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("加载配置文件失败: %v", err)
		}
		log.Printf("未找到配置文件 %s，使用默认配置", *configPath)
		cfg = config.Default()
	}

	// 创建服务器
	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("创建服务器失败: %v", err)
	}

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-quit
		log.Println("正在关闭服务器...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("关闭服务器出错: %v", err)
		}
	}()

	// 启动服务器
	log.Println("⚡ 电椅游戏服务器启动中...")
	if err := srv.Start(); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
	<-stopped
}
