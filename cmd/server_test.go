package main

import (
	"testing"

	"dashserve/internal/config"
)

// TestApplyFlags は指定したフラグだけが設定を上書きすることをテストする
func TestApplyFlags(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Server: config.ServerConfig{Host: "0.0.0.0", Port: 8080, MaxConnections: 1},
			Static: config.StaticConfig{Root: "/srv/dashboard"},
			Log:    config.LogConfig{Level: "info", Format: "text"},
		}
	}

	testCases := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "フラグなし",
			args: nil,
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Server.Port != 8080 || cfg.Server.Host != "0.0.0.0" || cfg.Static.Root != "/srv/dashboard" {
					t.Errorf("設定が変更されています: %+v", cfg)
				}
			},
		},
		{
			name: "ポートとホスト",
			args: []string{"--port", "3001", "--host", "127.0.0.1"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Server.Port != 3001 || cfg.Server.Host != "127.0.0.1" {
					t.Errorf("got %s", cfg.ServerAddress())
				}
			},
		},
		{
			name: "配信設定",
			args: []string{"--root", "/tmp/public", "--index", "login.html", "--max-conns", "0", "--status-api"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Static.Root != "/tmp/public" || cfg.Static.Index != "login.html" {
					t.Errorf("static: got %+v", cfg.Static)
				}
				if cfg.Server.MaxConnections != 0 || !cfg.Server.StatusAPI {
					t.Errorf("server: got %+v", cfg.Server)
				}
			},
		},
		{
			name: "ログレベル",
			args: []string{"--log-level", "debug"},
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Log.Level != "debug" {
					t.Errorf("got %s", cfg.Log.Level)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newRootCmd()
			if err := cmd.Flags().Parse(tc.args); err != nil {
				t.Fatalf("フラグの解析に失敗しました: %v", err)
			}

			var opts options
			opts.host, _ = cmd.Flags().GetString("host")
			opts.port, _ = cmd.Flags().GetInt("port")
			opts.root, _ = cmd.Flags().GetString("root")
			opts.index, _ = cmd.Flags().GetString("index")
			opts.maxConns, _ = cmd.Flags().GetInt("max-conns")
			opts.statusAPI, _ = cmd.Flags().GetBool("status-api")
			opts.logLevel, _ = cmd.Flags().GetString("log-level")

			cfg := base()
			applyFlags(cmd, &opts, cfg)
			tc.check(t, cfg)
		})
	}
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(new(nopWriter))
	cmd.SetErr(new(nopWriter))

	if err := cmd.Execute(); err == nil {
		t.Fatal("位置引数でエラーが期待されました")
	}
}

type nopWriter struct{}

func (*nopWriter) Write(p []byte) (int, error) { return len(p), nil }
