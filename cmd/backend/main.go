// 開発用バックエンドのエントリポイント。
// 管理者向け一覧、購入者の落札一覧、出品者の商品一覧、開発用トークン発行のREST APIを提供する。
// 本番環境では使用しない。
package main

import (
	"context"
	"log"

	"github.com/nao1215/bidflare/internal/backend"
	"github.com/nao1215/bidflare/internal/config"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("設定の読み込みに失敗: %v", err)
	}

	server, err := backend.NewServer(context.Background(), cfg.Backend)
	if err != nil {
		log.Fatalf("バックエンドサーバーの初期化に失敗: %v", err)
	}

	log.Printf("開発用バックエンドを起動します: :%s", cfg.Backend.Port)
	if err := server.Run(); err != nil {
		_ = server.Close()
		log.Fatalf("開発用バックエンドの起動に失敗: %v", err)
	}
}
