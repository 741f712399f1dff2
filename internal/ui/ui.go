// Package ui wires the terminal client together.
package ui

import (
	"github.com/palemoky/electric-chair/internal/network/client"
	"github.com/palemoky/electric-chair/internal/sound"
	"github.com/palemoky/electric-chair/internal/ui/model"
)

// NewOnlineModel 创建连接到 serverURL 的联机模型
func NewOnlineModel(serverURL, soundDir string) *model.OnlineModel {
	return model.NewOnlineModel(client.NewClient(serverURL), sound.NewSoundManager(soundDir))
}
