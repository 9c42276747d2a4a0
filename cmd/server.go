// Package main はダッシュボードサーバーコマンドの実装です
package main

import (
	"context"
	"os"

	"dashserve/internal/config"
	"dashserve/internal/logger"
	"dashserve/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options はコマンドラインオプション
type options struct {
	configFile string
	host       string
	port       int
	root       string
	index      string
	maxConns   int
	statusAPI  bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "IdealFit ダッシュボード用の静的ファイルサーバー",
		Long:         "実行ファイルのあるディレクトリを配信し、全レスポンスにCORSヘッダーを付与します。",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.configFile != "" {
				if err := os.Setenv("CONFIG_FILE", opts.configFile); err != nil {
					return err
				}
			}

			// 設定を読み込む
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// コマンドラインオプションで設定を上書き
			applyFlags(cmd, &opts, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			if err != nil {
				return err
			}

			// Ginサーバーを作成
			srv, err := server.NewGin(cfg)
			if err != nil {
				return err
			}

			log.WithField("addr", cfg.ServerAddress()).Info("ダッシュボードサーバーを起動します")
			return srv.Start(context.Background())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.configFile, "config", "c", "", "YAML設定ファイル")
	f.StringVar(&opts.host, "host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
	f.IntVarP(&opts.port, "port", "p", config.DefaultPort, "サーバーのポート")
	f.StringVar(&opts.root, "root", "", "配信するディレクトリ (デフォルト: 実行ファイルのディレクトリ)")
	f.StringVar(&opts.index, "index", "", "\"/\" で返すファイル (デフォルト: ディレクトリ一覧)")
	f.IntVar(&opts.maxConns, "max-conns", config.DefaultMaxConnections, "同時接続数の上限 (0 で無制限)")
	f.BoolVar(&opts.statusAPI, "status-api", false, "/api/health と /api/status を有効にする")
	f.StringVar(&opts.logLevel, "log-level", "", "ログレベル (debug, info, warn, error)")

	return cmd
}

// applyFlags は明示的に指定されたフラグだけを設定に反映する
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("host") {
		cfg.Server.Host = opts.host
	}
	if f.Changed("port") {
		cfg.Server.Port = opts.port
	}
	if f.Changed("root") {
		cfg.Static.Root = opts.root
	}
	if f.Changed("index") {
		cfg.Static.Index = opts.index
	}
	if f.Changed("max-conns") {
		cfg.Server.MaxConnections = opts.maxConns
	}
	if f.Changed("status-api") {
		cfg.Server.StatusAPI = opts.statusAPI
	}
	if f.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
}
