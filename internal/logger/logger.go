package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

const (
	logFileName = "electric-chair.log"
	maxLogSize  = 10 * 1024 * 1024
)

var (
	logFile *os.File
	logPath string
)

// Init 初始化文件日志
// dir 为空时使用 ~/.electric-chair；alsoStdout 为 true 时同时输出到标准输出（服务端使用）
func Init(dir string, alsoStdout bool) error {
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(homeDir, ".electric-chair")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath = filepath.Join(dir, logFileName)
	f, err := openRotated(dir, logPath)
	if err != nil {
		return err
	}
	logFile = f

	var out io.Writer = logFile
	if alsoStdout {
		out = io.MultiWriter(os.Stdout, logFile)
	}
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)

	LogInfo("Logger initialized, log file: %s", logPath)
	return nil
}

// openRotated 打开日志文件，超过 10MB 时先改名备份
func openRotated(dir, path string) (*os.File, error) {
	if info, err := os.Stat(path); err == nil && info.Size() > maxLogSize {
		backupPath := filepath.Join(dir, fmt.Sprintf("%s.%d", logFileName, time.Now().Unix()))
		_ = os.Rename(path, backupPath)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// Close 关闭日志文件
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// LogInfo logs an info message
func LogInfo(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

// LogError logs an error message
func LogError(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}

// LogPanic logs a panic with stack trace
func LogPanic(r any) {
	log.Printf("[PANIC] %v\n%s", r, debug.Stack())
}

// GetLogPath returns the current log file path
func GetLogPath() string {
	return logPath
}
