package model

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const chairCount = 12

// handleKey 处理键盘输入
func (m *OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		if m.opponentLeft && (m.phase == PhaseWaiting || m.phase == PhaseGameOver) {
			return m, m.backToLobby()
		}
		if m.phase == PhaseConnecting || m.phase == PhaseLobby || m.phase == PhaseGameOver {
			return m, tea.Quit
		}
	}

	switch m.phase {
	case PhaseLobby:
		return m.handleLobbyKey(msg)
	case PhasePlaying:
		if m.action != ActionNone {
			return m.handleChairKey(msg)
		}
	case PhaseGameOver:
		switch strings.ToLower(msg.String()) {
		case "r":
			m.err = ""
			m.sendOrReport(m.client.PlayAgain())
		case "q":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *OnlineModel) handleLobbyKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		m.focusCode = !m.focusCode
		if m.focusCode {
			m.nameInput.Blur()
			return m, m.codeInput.Focus()
		}
		m.codeInput.Blur()
		return m, m.nameInput.Focus()

	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput.Value())
		code := strings.TrimSpace(m.codeInput.Value())
		m.err = ""
		if code == "" {
			m.sendOrReport(m.client.CreateRoom(name))
		} else {
			m.sendOrReport(m.client.JoinRoom(code, name))
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusCode {
		m.codeInput, cmd = m.codeInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m *OnlineModel) handleChairKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyEnter {
		var cmd tea.Cmd
		m.chairInput, cmd = m.chairInput.Update(msg)
		return m, cmd
	}

	chair, ok := m.parseChairInput()
	m.chairInput.Reset()
	if !ok {
		m.err = "请输入一把还空着的椅子 (1-12)"
		return m, nil
	}

	m.err = ""
	switch m.action {
	case ActionSetTrap:
		m.trapChair = chair
		m.sendOrReport(m.client.SetTrap(chair))
	case ActionChooseChair:
		m.sendOrReport(m.client.ChooseChair(chair))
	}
	m.pending = m.action
	m.action = ActionNone
	m.chairInput.Blur()
	return m, nil
}

// parseChairInput 本地预检：范围与是否已被坐过，最终以服务端校验为准
func (m *OnlineModel) parseChairInput() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(m.chairInput.Value()))
	if err != nil || n < 1 || n > chairCount {
		return 0, false
	}
	if len(m.state.Chairs) == chairCount && !m.state.Chairs[n-1] {
		return 0, false
	}
	return n, true
}

// backToLobby 回到大厅，下次创建或加入房间时服务端会先离开当前房间
func (m *OnlineModel) backToLobby() tea.Cmd {
	m.resetMatch()
	m.phase = PhaseLobby
	m.roomCode = ""
	m.opponentLeft = false
	m.notice = ""
	m.err = ""
	m.focusCode = false
	m.codeInput.Reset()
	m.codeInput.Blur()
	return m.nameInput.Focus()
}
