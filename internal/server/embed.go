package server

import (
	_ "embed"
)

// openAPIDoc はステータスAPIのOpenAPI定義
//
//go:embed openapi.yaml
var openAPIDoc []byte

// OpenAPIDocument は埋め込まれたOpenAPI定義を返す
func OpenAPIDocument() []byte {
	return openAPIDoc
}
