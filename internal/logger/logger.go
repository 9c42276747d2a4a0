// Package logger はプロセス全体で共有するロガーを提供する
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config はロガーの設定
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text または json
	Output io.Writer
}

var (
	mu     sync.RWMutex
	global = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return l
}

// Setup は設定に従ってグローバルロガーを構成する
func Setup(cfg Config) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("ログレベルの解析に失敗: %w", err)
		}
		level = parsed
	}

	l := logrus.New()
	l.SetLevel(level)

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	l.SetOutput(out)

	switch cfg.Format {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	default:
		return nil, fmt.Errorf("未対応のログフォーマット: %s", cfg.Format)
	}

	mu.Lock()
	global = l
	mu.Unlock()

	return l, nil
}

// L はグローバルロガーを返す
func L() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
