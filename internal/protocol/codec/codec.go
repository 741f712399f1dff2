package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/palemoky/electric-chair/internal/protocol"
)

var (
	// ErrMissingType 消息缺少 type 字段
	ErrMissingType = errors.New("message type is missing")
	// ErrPayloadNotObject payload 必须编码为 JSON 对象
	ErrPayloadNotObject = errors.New("payload must encode to a JSON object")
)

// NewMessage 创建一个新消息，payload 为 nil 时只有 type 字段
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("编码 %s 失败: %w", msgType, err)
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrPayloadNotObject
	}
	msg.Payload = data
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为扁平 JSON：type 字段在前，payload 字段展开在后
func Encode(m *protocol.Message) ([]byte, error) {
	typ, err := json.Marshal(m.Type)
	if err != nil {
		return nil, err
	}

	buf := GetBuffer()
	defer PutBuffer(buf)

	buf.WriteString(`{"type":`)
	buf.Write(typ)

	body := bytes.TrimSpace(m.Payload)
	switch {
	case len(body) == 0 || bytes.Equal(body, []byte("{}")):
		buf.WriteByte('}')
	case body[0] != '{':
		return nil, ErrPayloadNotObject
	default:
		buf.WriteByte(',')
		buf.Write(body[1:])
	}

	return bytes.Clone(buf.Bytes()), nil
}

// Decode 从 JSON 文本解码消息
// 注意: 使用完毕后应调用 PutMessage 归还对象到池
func Decode(data []byte) (*protocol.Message, error) {
	var head struct {
		Type protocol.MessageType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	if head.Type == "" {
		return nil, ErrMissingType
	}

	msg := GetMessage()
	msg.Type = head.Type
	msg.Payload = append([]byte(nil), data...) // 复制避免引用读缓冲区
	return msg, nil
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if len(msg.Payload) == 0 {
		return &payload, nil
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}
