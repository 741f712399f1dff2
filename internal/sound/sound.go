//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager 预加载并播放音效
// Init 之前或没有音效文件时 Play 为空操作
type SoundManager struct {
	dir     string
	buffers map[Sound]*beep.Buffer
	enabled bool
	mu      sync.RWMutex
}

// NewSoundManager 创建音效管理器，dir 为空时使用 DefaultDir
func NewSoundManager(dir string) *SoundManager {
	if dir == "" {
		dir = DefaultDir
	}
	return &SoundManager{
		dir:     dir,
		buffers: make(map[Sound]*beep.Buffer),
	}
}

// Init 初始化扬声器并加载音效目录
func (sm *SoundManager) Init() error {
	files, err := os.ReadDir(sm.dir)
	if err != nil {
		// 没有音效目录就不播放
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	// 缓冲区较小，降低延迟
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	buffers := make(map[Sound]*beep.Buffer)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name, ext, ok := parseSoundFile(file.Name())
		if !ok {
			continue
		}
		buffer, err := loadSoundFile(filepath.Join(sm.dir, file.Name()), ext)
		if err != nil {
			// 单个文件失败不影响其他音效
			continue
		}
		buffers[name] = buffer
	}

	sm.mu.Lock()
	sm.buffers = buffers
	sm.enabled = true
	sm.mu.Unlock()
	return nil
}

// loadSoundFile 解码并重采样到统一格式
func loadSoundFile(path, ext string) (*beep.Buffer, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	buffer := beep.NewBuffer(beep.Format{
		SampleRate:  sampleRate,
		NumChannels: 2,
		Precision:   4,
	})
	buffer.Append(resampled)
	return buffer, nil
}

// Play 播放音效，找不到时静默忽略
func (sm *SoundManager) Play(name Sound) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.enabled {
		return
	}

	buffer, ok := sm.buffers[name]
	if !ok {
		return
	}
	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// Close 停止播放
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.enabled = false
}
