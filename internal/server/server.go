package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dashserve/internal/config"
	"dashserve/internal/logger"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/netutil"
)

// Server はHTTPサーバーを管理する構造体
type Server struct {
	config     *config.Config
	httpServer *http.Server
	listener   net.Listener
	log        *logrus.Logger
	out        io.Writer
	startedAt  time.Time
}

// newServer はハンドラー以外の共通部分を組み立てる
func newServer(cfg *config.Config, handler http.Handler) *Server {
	s := &Server{
		config:    cfg,
		log:       logger.L(),
		out:       os.Stdout,
		startedAt: time.Now(),
		httpServer: &http.Server{
			Addr:         cfg.ServerAddress(),
			Handler:      handler,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// 接続数を制限する場合、keep-alive で枠を占有させない
	if cfg.Server.MaxConnections > 0 {
		s.httpServer.SetKeepAlivesEnabled(false)
	}

	return s
}

// New は net/http と gorilla/mux で構成したServerを作成する
func New(cfg *config.Config) (*Server, error) {
	router := mux.NewRouter()
	s := newServer(cfg, nil)

	if cfg.Server.StatusAPI {
		validator, err := newAPIValidator()
		if err != nil {
			return nil, err
		}

		api := mux.NewRouter()
		api.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
		api.HandleFunc("/api/status", s.handleStatus).Methods(http.MethodGet)
		router.PathPrefix("/api/").Handler(validator.Middleware(api))
	}

	// ルートハンドラ（静的ファイル）
	router.PathPrefix("/").Handler(NewStaticHandler(cfg.Static.Root, cfg.Static.Index))

	// 全レスポンスに CORS ヘッダーを付与する
	s.httpServer.Handler = RequestID(AccessLog(s.log, CORS(Recover(s.log, router))))

	return s, nil
}

// Handler はサーバーのHTTPハンドラーを返す
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// SetOutput は起動バナーの出力先を変更する
func (s *Server) SetOutput(w io.Writer) {
	s.out = w
}

// Listen は設定されたアドレスでTCPリスナーを開く
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.config.ServerAddress())
	if err != nil {
		return fmt.Errorf("%s のバインドに失敗: %w", s.config.ServerAddress(), err)
	}

	if limit := s.config.Server.MaxConnections; limit > 0 {
		ln = netutil.LimitListener(ln, limit)
	}

	s.listener = ln
	return nil
}

// Addr はリッスン中のアドレスを返す。Listen 前は nil
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port は実際にリッスンしているポート番号を返す
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.config.Server.Port
}

// Start はサーバーを起動し、シグナルかコンテキストのキャンセルまでブロックする
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Serve は Listen 済みのリスナーでリクエストを処理する
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("リスナーが開かれていません")
	}

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	s.printBanner()

	// シャットダウン用のチャンネル
	serveErr := make(chan error, 1)

	// サーバーを別ゴルーチンで起動
	go func() {
		s.log.WithFields(logrus.Fields{
			"addr":            s.Addr().String(),
			"root":            s.config.Static.Root,
			"max_connections": s.config.Server.MaxConnections,
		}).Info("HTTPサーバーを起動しています")

		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("サーバーの実行に失敗: %w", err)
		}
	}()

	// コンテキストかシグナルを待つ
	select {
	case <-ctx.Done():
		s.log.Info("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.log.WithField("signal", sig.String()).Info("シグナルを受信しました")
	case err := <-serveErr:
		return err
	}

	if err := s.Shutdown(); err != nil {
		return err
	}

	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "🛑 Server stopped")
	return nil
}

// Shutdown はサーバーをグレースフルにシャットダウンする
func (s *Server) Shutdown() error {
	s.log.Info("サーバーをシャットダウンしています...")

	ctx := context.Background()
	if timeout := s.config.Server.ShutdownTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("サーバーのシャットダウンに失敗: %w", err)
	}

	s.log.Info("サーバーが正常にシャットダウンされました")
	return nil
}

// handleHealth はヘルスチェックエンドポイント
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.healthResponse())
}

// handleStatus はステータス確認エンドポイント
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	verbose, _ := strconv.ParseBool(r.URL.Query().Get("verbose"))
	writeJSON(w, http.StatusOK, s.statusResponse(verbose))
}

// writeJSON はJSONレスポンスを書き込む
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.L().WithError(err).Error("JSONレスポンスの書き込みに失敗")
	}
}
