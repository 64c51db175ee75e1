// bidflare Webクライアントのエントリポイント。
// 管理者、購入者、出品者の画面を描画し、ブラウザごとのトークンをセッションストアに保持する。
// バックエンドへのリクエストはすべてセッションで保護されたゲートウェイを経由する。
package main

import (
	"context"
	"log"

	"github.com/nao1215/bidflare/internal/config"
	"github.com/nao1215/bidflare/internal/web"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := web.NewServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Webサーバーの初期化に失敗: %v", err)
	}

	log.Printf("Webクライアントを起動します: :%s (API: %s)", cfg.Web.Port, cfg.Web.APIBaseURL)
	if err := server.Run(); err != nil {
		_ = server.Close()
		log.Fatalf("Webクライアントの起動に失敗: %v", err)
	}
}
