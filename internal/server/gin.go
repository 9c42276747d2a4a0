package server

import (
	"net/http"
	"time"

	"dashserve/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NewGin は gin エンジンで構成したServerを作成する
// 振る舞いは New と同じ
func NewGin(cfg *config.Config) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	// リダイレクトは CORS ミドルウェアを通らないため無効化する
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := newServer(cfg, engine)

	engine.Use(gin.Recovery(), GinRequestID(), GinAccessLog(s.log), GinCORS())

	if cfg.Server.StatusAPI {
		validator, err := newAPIValidator()
		if err != nil {
			return nil, err
		}
		engine.Use(validator.ginMiddleware())

		h := &DashboardHandler{srv: s}
		engine.GET("/api/health", h.HealthCheck)
		engine.GET("/api/status", h.GetStatus)
	}

	static := NewStaticHandler(cfg.Static.Root, cfg.Static.Index)
	engine.NoRoute(func(c *gin.Context) {
		// NoRoute では 404 が既定になっているため、ファイルサーバーが
		// WriteHeader を呼ばずに書き込む場合（ディレクトリ一覧）に備えて戻す
		c.Status(http.StatusOK)
		static.ServeHTTP(c.Writer, c.Request)
	})

	return s, nil
}

// GinCORS は CORS の gin 版
func GinCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		setCORSHeaders(c.Writer.Header())

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// GinRequestID は RequestID の gin 版
func GinRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GinAccessLog は AccessLog の gin 版
func GinAccessLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		size := c.Writer.Size()
		if size < 0 {
			size = 0
		}

		log.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"bytes":      size,
			"duration":   time.Since(start).String(),
			"remote":     c.Request.RemoteAddr,
			"request_id": c.Writer.Header().Get(HeaderRequestID),
		}).Info("request")
	}
}
