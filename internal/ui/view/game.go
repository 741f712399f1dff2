// Package view renders game screens as plain strings.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/ui/common"
)

// Chairs 渲染 12 把椅子，已被坐过的显示为空位
// trap 大于 0 时在该位置标出陷阱（仅设置方或揭晓时）
func Chairs(chairs []bool, trap int) string {
	var rows []string
	var row []string
	for i, available := range chairs {
		n := i + 1
		var cell string
		switch {
		case n == trap:
			cell = common.ChairStyle.Render(fmt.Sprintf("%s%d", common.TrapIcon, n))
		case available:
			cell = common.ChairStyle.Render(fmt.Sprintf("%d", n))
		default:
			cell = common.GoneStyle.Render("·")
		}
		row = append(row, cell)
		if len(row) == common.ChairsPerRow {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

// InningCell 一局结果的文字表示
func InningCell(mark protocol.InningMark) string {
	switch {
	case mark == 0:
		return "-"
	case mark < 0:
		return common.OutIcon
	default:
		return fmt.Sprintf("%d", int(mark))
	}
}

// Scoreboard 记分板：每局结果、总分、出局数
func Scoreboard(state protocol.GameState, p1Name, p2Name string) string {
	var sb strings.Builder

	header := []string{fmt.Sprintf("%-10s", "")}
	for i := range len(state.Innings.P1) {
		header = append(header, fmt.Sprintf("%3d", i+1))
	}
	header = append(header, "  分", " 出局")
	sb.WriteString(common.HeaderStyle.Render(strings.Join(header, "")))
	sb.WriteString("\n")

	line := func(name string, marks []protocol.InningMark, score, outs int) string {
		cells := []string{fmt.Sprintf("%-10s", name)}
		for _, m := range marks {
			cells = append(cells, fmt.Sprintf("%3s", InningCell(m)))
		}
		cells = append(cells, fmt.Sprintf("%4d", score), fmt.Sprintf("%4d", outs))
		return strings.Join(cells, "")
	}

	sb.WriteString(line(p1Name, state.Innings.P1, state.Scores.P1, state.Outs.P1))
	sb.WriteString("\n")
	sb.WriteString(line(p2Name, state.Innings.P2, state.Scores.P2, state.Outs.P2))
	return common.BoxStyle.Render(sb.String())
}

// RevealLine 揭晓结果的一行描述
func RevealLine(r *protocol.RevealPayload, sitterName string) string {
	if r.Result == "OUT" {
		return common.ShockStyle.Render(fmt.Sprintf("%s %s 坐上了 %d 号椅子……触电了！", common.TrapIcon, sitterName, r.ChosenChair))
	}
	return common.SafeStyle.Render(fmt.Sprintf("%s %s 坐上了 %d 号椅子，安全！+%d 分（陷阱在 %d 号）",
		common.SatIcon, sitterName, r.ChosenChair, r.ScoreGained, r.TrapChair))
}

// GameOverLine 对局结果描述
func GameOverLine(g *protocol.GameOverPayload, youWon bool) string {
	reason := map[string]string{
		"score":   "先到 40 分",
		"outs":    "对手三次出局",
		"innings": "8 局结束比较总分",
	}[g.Reason]

	switch {
	case g.WinnerID == "draw":
		return fmt.Sprintf("%s 平局！（%s）", common.DrawIcon, reason)
	case youWon:
		return common.SafeStyle.Render(fmt.Sprintf("%s 你赢了！（%s）", common.WinnerIcon, reason))
	default:
		return common.ShockStyle.Render(fmt.Sprintf("%s 获胜（%s）", g.WinnerName, reason))
	}
}
