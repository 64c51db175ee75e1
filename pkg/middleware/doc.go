// Package middleware はGinベースのHTTPサーバーで使用する共通ミドルウェアを提供する。
//
// 開発用バックエンドのJWT認証、ロール判定、CORS設定と、Webクライアントと
// 開発用バックエンドの両方で使用するパニックリカバリを含む。
package middleware
