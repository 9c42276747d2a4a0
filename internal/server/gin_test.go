package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestGinCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	engine.Use(GinCORS())
	engine.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/fail", func(c *gin.Context) { c.AbortWithStatus(http.StatusInternalServerError) })

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"正常応答", http.MethodGet, "/ok", http.StatusOK},
		{"エラー応答", http.MethodGet, "/fail", http.StatusInternalServerError},
		{"ルートなし", http.MethodGet, "/missing", http.StatusNotFound},
		{"プリフライト", http.MethodOptions, "/ok", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			if rec.Code != tc.expectedStatus {
				t.Errorf("予期しないステータスコード: got %d, want %d", rec.Code, tc.expectedStatus)
			}
			assertCORS(t, rec.Header())
		})
	}
}

// TestNewGinHandler は gin エンジン固有の挙動をテストする
func TestNewGinHandler(t *testing.T) {
	srv, err := NewGin(newTestConfig(writeTree(t)))
	if err != nil {
		t.Fatalf("NewGin failed: %v", err)
	}
	handler := srv.Handler()

	t.Run("ディレクトリ一覧は 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("予期しないステータスコード: got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "readme.txt") {
			t.Errorf("一覧にファイルが含まれていません: %q", rec.Body.String())
		}
	})

	t.Run("リクエストID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/css/app.css", nil)
		req.Header.Set(HeaderRequestID, "gin-req")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(HeaderRequestID); got != "gin-req" {
			t.Errorf("リクエストIDが引き継がれていません: got %q", got)
		}
	})

	t.Run("ステータスAPI無効時の /api/health はファイル扱い", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("予期しないステータスコード: got %d", rec.Code)
		}
		assertCORS(t, rec.Header())
	})
}
