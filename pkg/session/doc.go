// Package session はブラウザごとのセッショントークンを永続キーバリューストアに保持する。
//
// Webクライアントはサインイン時に受け取ったBearerトークンをStoreに保存し、
// 認証が必要な全リクエストでSessionから読み出す。Storeの実装として
// インメモリ、SQLite、Redisを提供する。
package session
