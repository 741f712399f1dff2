package main

import (
	"flag"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/electric-chair/internal/logger"
	"github.com/palemoky/electric-chair/internal/sound"
	"github.com/palemoky/electric-chair/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:3000", "服务器地址")
	soundDir := flag.String("sounds", sound.DefaultDir, "音效目录")
	flag.Parse()

	// 终端界面占用标准输出，日志只写文件
	if err := logger.Init("", false); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)

	model := ui.NewOnlineModel(serverURL, *soundDir)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
