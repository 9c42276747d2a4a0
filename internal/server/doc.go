// Package server は、ダッシュボード用の静的ファイルサーバーを提供します。
//
// このパッケージは、HTTPサーバーの起動と停止、静的ファイルの配信、
// 全レスポンスへのCORSヘッダー付与を担当します。
//
// 責務:
//   - TCPリスナーの確保（既定では1接続ずつ逐次処理）
//   - ルートディレクトリ以下のファイル配信（ディレクトリ一覧、MIME判定、404）
//   - CORSヘッダーの付与とプリフライト応答
//   - 任意のステータスAPI（/api/health, /api/status）
//   - シグナル受信時のグレースフルシャットダウン
//
// 仕様:
//   - New は net/http と gorilla/mux、NewGin は gin で同じ振る舞いを構成する
//   - ステータスAPIは埋め込みのOpenAPI定義で検証する（kin-openapi）
//   - 付与するCORSヘッダー:
//     Access-Control-Allow-Origin: *
//     Access-Control-Allow-Methods: GET, POST, OPTIONS
//     Access-Control-Allow-Headers: Content-Type
package server
