//go:build ci

package sound

// SoundManager CI 环境下的空实现
type SoundManager struct{}

func NewSoundManager(string) *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Play(Sound) {}

func (sm *SoundManager) Close() {}
