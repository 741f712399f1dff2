package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/ui/common"
	"github.com/palemoky/electric-chair/internal/ui/view"
)

// DefaultRevealDelay 揭晓结果在屏幕上停留的时间，之后自动确认
const DefaultRevealDelay = 2500 * time.Millisecond

// OnlineModel is the bubbletea model of an online match.
type OnlineModel struct {
	client GameClient
	sound  SoundPlayer

	phase   GamePhase
	action  Action
	pending Action // 已提交、等待服务端确认的操作
	err     string
	notice  string

	roomCode     string
	yourID       string // p1 / p2
	myName       string
	opponentName string
	opponentLeft bool

	state      protocol.GameState
	setterName string
	sitterName string
	trapChair  int // 本方设置的陷阱，仅自己可见
	reveal     *protocol.RevealPayload
	result     *protocol.GameOverPayload

	nameInput  textinput.Model
	codeInput  textinput.Model
	chairInput textinput.Model
	focusCode  bool

	revealDelay time.Duration
	width       int
	height      int
}

// NewOnlineModel creates the model.
func NewOnlineModel(c GameClient, sp SoundPlayer) *OnlineModel {
	name := textinput.New()
	name.Placeholder = "你的昵称"
	name.CharLimit = 20
	name.Width = 20
	name.Focus()

	code := textinput.New()
	code.Placeholder = "留空创建房间"
	code.CharLimit = 4
	code.Width = 20

	chair := textinput.New()
	chair.Placeholder = "1-12"
	chair.CharLimit = 2
	chair.Width = 6

	return &OnlineModel{
		client:      c,
		sound:       sp,
		phase:       PhaseConnecting,
		nameInput:   name,
		codeInput:   code,
		chairInput:  chair,
		revealDelay: DefaultRevealDelay,
	}
}

// SetRevealDelay 调整揭晓停留时间
func (m *OnlineModel) SetRevealDelay(d time.Duration) { m.revealDelay = d }

// Phase returns the current phase.
func (m *OnlineModel) Phase() GamePhase { return m.phase }

// Action returns the action the player is expected to take.
func (m *OnlineModel) Action() Action { return m.action }

// Err returns the last error text.
func (m *OnlineModel) Err() string { return m.err }

// RoomCode returns the joined room code.
func (m *OnlineModel) RoomCode() string { return m.roomCode }

func (m *OnlineModel) Init() tea.Cmd {
	go func() {
		_ = m.sound.Init()
	}()

	return tea.Batch(
		m.connectToServer(),
		textinput.Blink,
	)
}

func (m *OnlineModel) connectToServer() tea.Cmd {
	return func() tea.Msg {
		if err := m.client.Connect(); err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ConnectedMsg{}
	}
}

func (m *OnlineModel) listenForMessages() tea.Cmd {
	return func() tea.Msg {
		msg, err := m.client.Receive()
		if err != nil {
			return ConnectionErrorMsg{Err: err}
		}
		return ServerMessage{Msg: msg}
	}
}

// Update handles tea messages.
func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case ConnectedMsg:
		m.phase = PhaseLobby
		m.err = ""
		cmds = append(cmds, m.listenForMessages())

	case ConnectionErrorMsg:
		m.err = fmt.Sprintf("与服务器的连接中断: %v\n\n按 ESC 退出", msg.Err)
		m.phase = PhaseConnecting
		m.action = ActionNone

	case ServerMessage:
		if cmd := m.handleServerMessage(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, m.listenForMessages())

	case RevealDoneMsg:
		if m.phase == PhaseReveal {
			m.sendOrReport(m.client.AckReveal())
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

// sendOrReport 发送失败时把错误显示出来
func (m *OnlineModel) sendOrReport(err error) {
	if err != nil {
		m.err = fmt.Sprintf("发送失败: %v", err)
	}
}

// seatNames 按座位返回双方昵称
func (m *OnlineModel) seatNames() (p1, p2 string) {
	me, other := m.myName, m.opponentName
	if me == "" {
		me = "你"
	}
	if other == "" {
		other = "对手"
	}
	if m.yourID == "p2" {
		return other, me
	}
	return me, other
}

func (m *OnlineModel) View() string {
	var sb strings.Builder

	switch m.phase {
	case PhaseConnecting:
		if m.err != "" {
			sb.WriteString(common.ErrorStyle.Render(m.err))
		} else {
			sb.WriteString("正在连接服务器...")
		}
		return common.DocStyle.Render(sb.String())

	case PhaseLobby:
		name, code := m.nameInput.View(), m.codeInput.View()
		if m.focusCode {
			code = common.FocusedStyle.Render("▶ ") + code
		} else {
			name = common.FocusedStyle.Render("▶ ") + name
		}
		return common.DocStyle.Render(view.Lobby(name, code, m.err))
	}

	sb.WriteString(common.TitleStyle(fmt.Sprintf("⚡ 电椅游戏 · 房间 %s ⚡", m.roomCode)))
	sb.WriteString("\n\n")

	if m.phase == PhaseWaiting {
		sb.WriteString(m.notice)
		if m.err != "" {
			sb.WriteString("\n" + common.ErrorStyle.Render(m.err))
		}
		return common.DocStyle.Render(sb.String())
	}

	p1, p2 := m.seatNames()
	sb.WriteString(view.Scoreboard(m.state, p1, p2))
	sb.WriteString("\n\n")

	if m.state.Inning > 0 && m.phase != PhaseGameOver {
		sb.WriteString(fmt.Sprintf("第 %d 局  %s %s 设置陷阱  %s %s 选椅子\n\n",
			m.state.Inning, common.SetterIcon, m.setterName, common.SitterIcon, m.sitterName))
	}

	trap := m.trapChair
	if m.reveal != nil && m.phase == PhaseReveal {
		trap = m.reveal.TrapChair
	}
	if len(m.state.Chairs) > 0 {
		sb.WriteString(view.Chairs(m.state.Chairs, trap))
		sb.WriteString("\n")
	}

	switch m.phase {
	case PhaseReveal:
		if m.reveal != nil {
			sb.WriteString("\n" + view.RevealLine(m.reveal, m.sitterName) + "\n")
		}
	case PhaseGameOver:
		if m.result != nil {
			sb.WriteString("\n" + view.GameOverLine(m.result, m.result.WinnerID == m.yourID) + "\n")
		}
		sb.WriteString(common.NoticeStyle.Render("按 R 再来一局，按 Q 退出"))
	case PhasePlaying:
		switch m.action {
		case ActionSetTrap:
			sb.WriteString(common.PromptStyle.Render("选择埋下陷阱的椅子: " + m.chairInput.View()))
		case ActionChooseChair:
			sb.WriteString(common.PromptStyle.Render("选择要坐的椅子: " + m.chairInput.View()))
		}
	}

	if m.notice != "" {
		sb.WriteString("\n" + common.NoticeStyle.Render(m.notice))
	}
	if m.err != "" {
		sb.WriteString("\n" + common.ErrorStyle.Render(m.err))
	}
	return common.DocStyle.Render(sb.String())
}
