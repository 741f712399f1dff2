package room

import (
	"math/rand/v2"
	"strings"
)

const (
	roomCodeLength = 4                                 // 房间号长度
	roomCodeChars  = "ABCDEFGHJKMNPQRSTUVWXYZ23456789" // 去掉了容易混淆的 I、L、O、0、1
)

// generateRoomCode 生成房间号，调用方需持有 rm.mu
func (rm *RoomManager) generateRoomCode() string {
	for {
		code := make([]byte, roomCodeLength)
		for i := range code {
			code[i] = roomCodeChars[rand.IntN(len(roomCodeChars))]
		}
		codeStr := string(code)
		if _, exists := rm.rooms[codeStr]; !exists {
			return codeStr
		}
	}
}

// NormalizeCode 用户输入的房间号不区分大小写，并忽略首尾空白
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
