package client

import (
	"github.com/palemoky/electric-chair/internal/protocol"
	"github.com/palemoky/electric-chair/internal/protocol/codec"
)

// --- 便捷方法 ---

// CreateRoom 创建房间
func (c *Client) CreateRoom(playerName string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgCreateRoom, protocol.CreateRoomPayload{
		PlayerName: playerName,
	}))
}

// JoinRoom 加入房间
func (c *Client) JoinRoom(roomCode, playerName string) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgJoinRoom, protocol.JoinRoomPayload{
		RoomCode:   roomCode,
		PlayerName: playerName,
	}))
}

// SetTrap 设置陷阱
func (c *Client) SetTrap(chair int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgSetTrap, protocol.NewChairPayload(chair)))
}

// ChooseChair 选择椅子
func (c *Client) ChooseChair(chair int) error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgChooseChair, protocol.NewChairPayload(chair)))
}

// AckReveal 揭晓动画播放完毕
func (c *Client) AckReveal() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgRevealAck, nil))
}

// PlayAgain 再来一局
func (c *Client) PlayAgain() error {
	return c.SendMessage(codec.MustNewMessage(protocol.MsgPlayAgain, nil))
}
