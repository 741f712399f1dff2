package sound

import (
	"path/filepath"
	"strings"
)

// Sound 音效名，对应音效目录下的同名 .mp3 / .wav 文件
type Sound string

const (
	Shock Sound = "shock" // 触电
	Safe  Sound = "safe"  // 安全坐下
	Win   Sound = "win"
	Lose  Sound = "lose"
)

// DefaultDir 默认音效目录
const DefaultDir = "assets/sounds"

// parseSoundFile 从文件名得到音效名和格式，不支持的格式返回 false
func parseSoundFile(fileName string) (Sound, string, bool) {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".mp3" && ext != ".wav" {
		return "", "", false
	}
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if base == "" {
		return "", "", false
	}
	return Sound(base), ext, true
}
