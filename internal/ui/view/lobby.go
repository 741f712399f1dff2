package view

import (
	"strings"

	"github.com/palemoky/electric-chair/internal/ui/common"
)

// Lobby 大厅：输入昵称与房间号
func Lobby(nameField, codeField, errMsg string) string {
	var sb strings.Builder
	sb.WriteString(common.TitleStyle("⚡ 电椅游戏 ⚡"))
	sb.WriteString("\n\n")
	sb.WriteString("昵称:   " + nameField + "\n")
	sb.WriteString("房间号: " + codeField + "\n")
	sb.WriteString(common.PromptStyle.Render(common.NoticeStyle.Render(
		"Tab 切换输入框 · 房间号留空回车创建房间，填写后回车加入 · Esc 退出")))
	if errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(common.ErrorStyle.Render(errMsg))
	}
	return sb.String()
}
