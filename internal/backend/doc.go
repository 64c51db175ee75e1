// Package backend は開発用のREST APIバックエンドを実装する。
// Webクライアントを単体で動かし、結合テストを行うために、管理者向け一覧
// （ユーザー、商品、オークション）、購入者の落札一覧、出品者の商品一覧、
// 開発用トークン発行を提供する。データはSQLiteに保存する。
package backend
