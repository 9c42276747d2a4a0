package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HeaderRequestID はリクエスト相関用のヘッダー名
const HeaderRequestID = "X-Request-ID"

// corsHeaders は全レスポンスに付与するヘッダー
var corsHeaders = []struct {
	key   string
	value string
}{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Methods", "GET, POST, OPTIONS"},
	{"Access-Control-Allow-Headers", "Content-Type"},
}

// setCORSHeaders はヘッダーを書き込む前に呼ぶこと
func setCORSHeaders(h http.Header) {
	for _, ch := range corsHeaders {
		h.Set(ch.key, ch.value)
	}
}

// CORS は任意のハンドラーをラップし、レスポンスにCORSヘッダーを付与する
// OPTIONS (プリフライト) は本体を返さず 200 で応答する
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w.Header())

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestID はリクエストIDを払い出し、レスポンスヘッダーに載せる
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// Recover はハンドラーのパニックを回収して 500 を返す
// CORS の内側に置くこと（先に設定されたヘッダーはそのまま残る）
func Recover(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			// 接続の中断は net/http に任せる
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			log.WithFields(logrus.Fields{
				"panic":  rec,
				"method": r.Method,
				"path":   r.URL.Path,
			}).Error("ハンドラーでパニックが発生しました")
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}

// responseWriter はステータスコードと書き込みサイズを記録する
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// AccessLog はリクエストごとに1行のアクセスログを出力する
func AccessLog(log *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rw.statusCode,
			"bytes":      rw.bytes,
			"duration":   time.Since(start).String(),
			"remote":     r.RemoteAddr,
			"request_id": w.Header().Get(HeaderRequestID),
		}).Info("request")
	})
}
