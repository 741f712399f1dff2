// Package model defines the online game model for the terminal UI.
package model

import (
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/sound"
)

// GamePhase represents the current UI phase.
type GamePhase int

const (
	PhaseConnecting GamePhase = iota
	PhaseLobby
	PhaseWaiting // 房间内，等待对手或开局
	PhasePlaying
	PhaseReveal
	PhaseGameOver
)

// Action 当前需要本玩家执行的操作
type Action int

const (
	ActionNone Action = iota
	ActionSetTrap
	ActionChooseChair
)

// GameClient is the subset of the network client the model drives.
type GameClient interface {
	Connect() error
	Receive() (*protocol.Message, error)
	CreateRoom(playerName string) error
	JoinRoom(roomCode, playerName string) error
	SetTrap(chair int) error
	ChooseChair(chair int) error
	AckReveal() error
	PlayAgain() error
	Close()
}

// SoundPlayer plays named sound effects.
type SoundPlayer interface {
	Init() error
	Play(name sound.Sound)
	Close()
}

// --- Tea Messages ---

// ServerMessage wraps a protocol message for tea.Msg.
type ServerMessage struct {
	Msg *protocol.Message
}

// ConnectedMsg indicates successful connection.
type ConnectedMsg struct{}

// ConnectionErrorMsg indicates a connection error.
type ConnectionErrorMsg struct {
	Err error
}

// RevealDoneMsg 揭晓展示时间结束
type RevealDoneMsg struct{}
