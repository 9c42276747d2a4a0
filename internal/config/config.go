package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Static StaticConfig `yaml:"static"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host"` // リッスンするホスト
	Port int    `yaml:"port"` // リッスンするポート番号 (0 はランダムポート)

	// タイムアウト設定 (0 は無制限)
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// 同時に処理する接続数の上限 (0 は無制限、1 は逐次処理)
	MaxConnections int `yaml:"max_connections"`

	// /api/health と /api/status を有効にする
	StatusAPI bool `yaml:"status_api"`
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	Root        string `yaml:"root"`         // 配信するルートディレクトリ
	Index       string `yaml:"index"`        // "/" で返すファイル (空ならディレクトリ一覧)
	LandingPage string `yaml:"landing_page"` // 起動バナーに表示するページ
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text または json
}

// デフォルト値
const (
	DefaultHost            = "0.0.0.0"
	DefaultPort            = 8080
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMaxConnections  = 1
	DefaultLandingPage     = "merchant-master-dashboard.html"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Default はデフォルト設定を返す
// ルートディレクトリは実行ファイルのあるディレクトリ
func Default() (*Config, error) {
	root, err := ExecutableDir()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxConnections:  DefaultMaxConnections,
		},
		Static: StaticConfig{
			Root:        root,
			LandingPage: DefaultLandingPage,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}, nil
}

// Load は設定を読み込む
// 優先順位: デフォルト < CONFIG_FILE (YAML) < 環境変数 (.env を含む)
func Load() (*Config, error) {
	// .env があれば環境変数に反映する (既存の環境変数は上書きしない)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env の読み込みに失敗: %w", err)
	}

	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// LoadFile はYAMLファイルの内容を設定に上書きする
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}

	// 相対パスは設定ファイルからの相対とする
	if c.Static.Root != "" && !filepath.IsAbs(c.Static.Root) {
		c.Static.Root = filepath.Join(filepath.Dir(path), c.Static.Root)
	}

	return nil
}

// applyEnv は環境変数の値を設定に反映する
func (c *Config) applyEnv() error {
	c.Server.Host = getEnvOrDefault("SERVER_HOST", c.Server.Host)
	c.Static.Root = getEnvOrDefault("ROOT_DIR", c.Static.Root)
	c.Static.Index = getEnvOrDefault("INDEX_FILE", c.Static.Index)
	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)

	var err error
	if c.Server.Port, err = getEnvAsIntOrDefault("PORT", c.Server.Port); err != nil {
		return err
	}
	if c.Server.MaxConnections, err = getEnvAsIntOrDefault("MAX_CONNECTIONS", c.Server.MaxConnections); err != nil {
		return err
	}
	if c.Server.StatusAPI, err = getEnvAsBoolOrDefault("STATUS_API", c.Server.StatusAPI); err != nil {
		return err
	}

	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Server.MaxConnections < 0 {
		return fmt.Errorf("無効な最大接続数: %d", c.Server.MaxConnections)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("タイムアウトに負の値は指定できません")
	}

	// 配信ディレクトリの検証
	if c.Static.Root == "" {
		return errors.New("配信ディレクトリが設定されていません")
	}
	info, err := os.Stat(c.Static.Root)
	if err != nil {
		return fmt.Errorf("配信ディレクトリにアクセスできません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("配信ディレクトリではありません: %s", c.Static.Root)
	}

	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("無効なログレベル: %s", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("無効なログフォーマット: %s", c.Log.Format)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ExecutableDir は実行ファイルが置かれたディレクトリを返す
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("実行ファイルのパス取得に失敗: %w", err)
	}

	// シンボリックリンク経由で起動された場合は実体の場所を使う
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}

	return filepath.Dir(exe), nil
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("環境変数 %s が整数ではありません: %q", key, value)
	}
	return intVal, nil
}

// getEnvAsBoolOrDefault は環境変数を真偽値として取得する
func getEnvAsBoolOrDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("環境変数 %s が真偽値ではありません: %q", key, value)
	}
	return boolVal, nil
}
