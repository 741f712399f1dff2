package model

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/electric-chair/internal/logger"
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
	"github.com/palemoky/electric-chair/internal/sound"
)

// handleServerMessage 处理服务器消息
func (m *OnlineModel) handleServerMessage(msg *protocol.Message) tea.Cmd {
	switch msg.Type {
	case protocol.MsgRoomCreated:
		p, err := codec.ParsePayload[protocol.RoomCreatedPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.enterRoom(p.RoomCode, p.YourID)
		m.notice = fmt.Sprintf("房间号 %s，等待对手加入...", p.RoomCode)

	case protocol.MsgRoomJoined:
		p, err := codec.ParsePayload[protocol.RoomJoinedPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.enterRoom(p.RoomCode, p.YourID)
		m.opponentName = p.OpponentName
		m.notice = fmt.Sprintf("已加入 %s 的房间，游戏即将开始", p.OpponentName)

	case protocol.MsgOpponentJoined:
		p, err := codec.ParsePayload[protocol.OpponentJoinedPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.opponentName = p.OpponentName
		m.opponentLeft = false
		m.notice = fmt.Sprintf("%s 加入了房间，游戏即将开始", p.OpponentName)

	case protocol.MsgYourTurnSetTrap, protocol.MsgWaitForTrap,
		protocol.MsgYourTurnChooseChair, protocol.MsgWaitForChoice:
		p, err := codec.ParsePayload[protocol.TurnPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.applyTurn(msg.Type, p)

	case protocol.MsgTrapSetOK:
		m.pending = ActionNone
		m.notice = fmt.Sprintf("陷阱已埋在 %d 号椅子，等待对手选择", m.trapChair)

	case protocol.MsgReveal:
		p, err := codec.ParsePayload[protocol.RevealPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.reveal = p
		m.pending = ActionNone
		m.state = p.GameState
		m.phase = PhaseReveal
		m.action = ActionNone
		m.notice = ""
		if p.Result == protocol.OutMark {
			m.sound.Play(sound.Shock)
		} else {
			m.sound.Play(sound.Safe)
		}
		return tea.Tick(m.revealDelay, func(time.Time) tea.Msg {
			return RevealDoneMsg{}
		})

	case protocol.MsgGameOver:
		p, err := codec.ParsePayload[protocol.GameOverPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.result = p
		m.state.Scores, m.state.Outs, m.state.Innings = p.Scores, p.Outs, p.Innings
		m.phase = PhaseGameOver
		m.action = ActionNone
		m.notice = ""
		switch p.WinnerID {
		case m.yourID:
			m.sound.Play(sound.Win)
		case "draw":
		default:
			m.sound.Play(sound.Lose)
		}

	case protocol.MsgGameReset:
		m.resetMatch()
		m.phase = PhaseWaiting
		m.notice = "新的一局即将开始..."

	case protocol.MsgOpponentDisconnected:
		m.opponentLeft = true
		m.opponentName = ""
		m.action = ActionNone
		if m.phase != PhaseGameOver {
			m.resetMatch()
			m.phase = PhaseWaiting
		}
		m.notice = "对手已离开，按 Esc 返回大厅"

	case protocol.MsgError:
		p, err := codec.ParsePayload[protocol.ErrorPayload](msg)
		if err != nil {
			return m.badPayload(msg, err)
		}
		m.err = p.Message
		// 提交被拒绝时恢复输入
		if m.pending != ActionNone && m.phase == PhasePlaying {
			m.action = m.pending
			m.pending = ActionNone
			if m.action == ActionSetTrap {
				m.trapChair = 0
			}
			m.chairInput.Reset()
			return m.chairInput.Focus()
		}
	}
	return nil
}

func (m *OnlineModel) badPayload(msg *protocol.Message, err error) tea.Cmd {
	logger.LogError("解析 %s 失败: %v", msg.Type, err)
	return nil
}

func (m *OnlineModel) enterRoom(code, yourID string) {
	m.roomCode = code
	m.yourID = yourID
	m.err = ""
	m.opponentLeft = false
	m.resetMatch()
	m.phase = PhaseWaiting
	m.nameInput.Blur()
	m.codeInput.Blur()
}

func (m *OnlineModel) resetMatch() {
	m.state = protocol.GameState{}
	m.reveal = nil
	m.result = nil
	m.trapChair = 0
	m.action = ActionNone
	m.pending = ActionNone
	m.setterName, m.sitterName = "", ""
}

// applyTurn 根据回合提示更新状态，并决定本方要做什么
func (m *OnlineModel) applyTurn(t protocol.MessageType, p *protocol.TurnPayload) {
	m.state = p.GameState
	m.setterName, m.sitterName = p.SetterName, p.SitterName
	m.phase = PhasePlaying
	m.pending = ActionNone
	m.err = ""

	switch t {
	case protocol.MsgYourTurnSetTrap:
		m.myName, m.opponentName = p.SetterName, p.SitterName
		m.trapChair = 0
		m.reveal = nil
		m.action = ActionSetTrap
		m.notice = ""
	case protocol.MsgWaitForTrap:
		m.myName, m.opponentName = p.SitterName, p.SetterName
		m.trapChair = 0
		m.reveal = nil
		m.action = ActionNone
		m.notice = fmt.Sprintf("等待 %s 设置陷阱...", p.SetterName)
	case protocol.MsgYourTurnChooseChair:
		m.action = ActionChooseChair
		m.notice = ""
	case protocol.MsgWaitForChoice:
		m.action = ActionNone
	}

	if m.action != ActionNone {
		m.chairInput.Reset()
		m.chairInput.Focus()
	} else {
		m.chairInput.Blur()
	}
}
