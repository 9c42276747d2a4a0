package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// apiValidator は /api/ 以下のリクエストをOpenAPI定義と照合する
type apiValidator struct {
	router routers.Router
}

// LoadOpenAPI は埋め込まれたOpenAPI定義を読み込んで検証する
func LoadOpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDoc)
	if err != nil {
		return nil, fmt.Errorf("OpenAPI定義の読み込みに失敗: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("OpenAPI定義が不正です: %w", err)
	}

	return doc, nil
}

func newAPIValidator() (*apiValidator, error) {
	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("OpenAPIルーターの作成に失敗: %w", err)
	}

	return &apiValidator{router: router}, nil
}

// check はリクエストを検証し、失敗時は返すべきステータスとエラーレスポンスを返す
func (v *apiValidator) check(r *http.Request) (int, *ErrorResponse) {
	route, pathParams, err := v.router.FindRoute(r)
	if err != nil {
		if errors.Is(err, routers.ErrMethodNotAllowed) {
			resp := newErrorResponse("method_not_allowed", "このメソッドは許可されていません")
			return http.StatusMethodNotAllowed, &resp
		}
		resp := newErrorResponse("not_found", "指定されたAPIが見つかりません")
		return http.StatusNotFound, &resp
	}

	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
	}
	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		resp := newErrorResponse("invalid_request", err.Error())
		return http.StatusBadRequest, &resp
	}

	return 0, nil
}

// Middleware は net/http 向けの検証ミドルウェア
func (v *apiValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, resp := v.check(r); resp != nil {
			writeJSON(w, status, resp)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ginMiddleware は gin 向けの検証ミドルウェア。/api/ 以外は素通りさせる
func (v *apiValidator) ginMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAPIPath(c.Request.URL.Path) {
			c.Next()
			return
		}

		if status, resp := v.check(c.Request); resp != nil {
			c.AbortWithStatusJSON(status, resp)
			return
		}
		c.Next()
	}
}

func isAPIPath(p string) bool {
	return strings.HasPrefix(p, "/api/")
}
