package server

import (
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// NewStaticHandler はrootディレクトリ以下のファイルを配信するハンドラーを返す
//
// GET と HEAD は net/http のファイルサーバーに委ねる（ディレクトリ一覧、
// index.html、拡張子による Content-Type、存在しなければ 404）。
// それ以外のメソッドは 501 を返す。
// index.html という名前のファイルは直接指定されてもリダイレクトせずに返す。
// index を指定した場合、"/" へのリクエストはそのファイルを返す。
func NewStaticHandler(root, index string) http.Handler {
	dir := http.Dir(root)
	files := http.FileServer(dir)

	target := ""
	if index = strings.TrimPrefix(index, "/"); index != "" {
		target = "/" + index
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
		default:
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			http.Error(w, "Unsupported method ("+r.Method+")", http.StatusNotImplemented)
			return
		}

		p := r.URL.Path
		if target != "" && p == "/" {
			p = target
		}

		// ファイルサーバーは .../index.html をディレクトリへリダイレクトするため、
		// 実在するファイルはここで直接返す
		if path.Base(p) == "index.html" && !strings.HasSuffix(p, "/") && serveFile(w, r, dir, p) {
			return
		}

		if p != r.URL.Path {
			r2 := r.Clone(r.Context())
			r2.URL.Path = p
			r2.URL.RawPath = ""
			files.ServeHTTP(w, r2)
			return
		}

		files.ServeHTTP(w, r)
	})
}

// serveFile は name を返して true を返す。開けなければエラーを返す
// ディレクトリの場合は何も書き込まずに false を返す
func serveFile(w http.ResponseWriter, r *http.Request, fsys http.FileSystem, name string) bool {
	f, err := fsys.Open(path.Clean("/" + name))
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			http.Error(w, "404 page not found", http.StatusNotFound)
		case errors.Is(err, fs.ErrPermission):
			http.Error(w, "403 Forbidden", http.StatusForbidden)
		default:
			http.Error(w, "500 Internal Server Error", http.StatusInternalServerError)
		}
		return true
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}
