package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse は /api/health のレスポンス
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServerInfo はリッスン中のアドレス情報
type ServerInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// StatusResponse は /api/status のレスポンス
type StatusResponse struct {
	Status        string     `json:"status"`
	Server        ServerInfo `json:"server"`
	Root          string     `json:"root"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	Timestamp     time.Time  `json:"timestamp"`

	// verbose=true の場合のみ
	Index          *string `json:"index,omitempty"`
	MaxConnections *int    `json:"max_connections,omitempty"`
}

// ErrorResponse はAPIのエラーレスポンス
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Server) healthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	}
}

func (s *Server) statusResponse(verbose bool) StatusResponse {
	resp := StatusResponse{
		Status: "running",
		Server: ServerInfo{
			Host: s.config.Server.Host,
			Port: s.Port(),
		},
		Root:          s.config.Static.Root,
		UptimeSeconds: int64(time.Since(s.startedAt) / time.Second),
		Timestamp:     time.Now(),
	}

	if verbose {
		index := s.config.Static.Index
		maxConns := s.config.Server.MaxConnections
		resp.Index = &index
		resp.MaxConnections = &maxConns
	}

	return resp
}

// DashboardHandler はginエンジン向けのステータスAPI実装
type DashboardHandler struct {
	srv *Server
}

// HealthCheck はヘルスチェックエンドポイントの実装
func (h *DashboardHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, h.srv.healthResponse())
}

// GetStatus はシステム状態取得エンドポイントの実装
func (h *DashboardHandler) GetStatus(c *gin.Context) {
	verbose, _ := strconv.ParseBool(c.Query("verbose"))
	c.JSON(http.StatusOK, h.srv.statusResponse(verbose))
}

// newErrorResponse はエラーレスポンスを作成するヘルパー関数
func newErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}
