package main

import (
	"context"

	"dashserve/internal/config"
	"dashserve/internal/logger"
	"dashserve/internal/server"
)

func main() {
	// 設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatalf("設定の読み込みに失敗しました: %v", err)
	}

	log, err := logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		logger.L().Fatalf("ロガーの初期化に失敗しました: %v", err)
	}

	// サーバーを作成
	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("サーバーの作成に失敗しました: %v", err)
	}

	// サーバーを起動（割り込みで正常終了する）
	if err := srv.Start(context.Background()); err != nil {
		log.Fatalf("サーバーの起動に失敗しました: %v", err)
	}
}
