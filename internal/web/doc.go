// Package web はbidflareのWebクライアントを実装する。
// 管理者、購入者、出品者の画面をサーバー側で描画し、バックエンドへのリクエストは
// すべてセッションで保護されたゲートウェイ（pkg/httpclient）を経由する。
// ブラウザごとのトークンはbidflare_sid Cookieで識別するセッションストアに保持する。
package web
