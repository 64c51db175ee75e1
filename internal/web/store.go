package web

import (
	"context"
	"fmt"
	"io"

	"github.com/nao1215/bidflare/internal/config"
	"github.com/nao1215/bidflare/pkg/session"
)

// nopCloser は閉じる必要の無いストア用のio.Closer。
type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore は設定に従ってセッションストアを開く。
// 戻り値のio.Closerはサーバー停止時に閉じる。
func OpenStore(ctx context.Context, cfg config.SessionConfig) (session.Store, io.Closer, error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := session.OpenSQLiteStore(ctx, cfg.SQLitePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
		if err != nil {
			return nil, nil, fmt.Errorf("SQLiteセッションストアの初期化に失敗: %w", err)
		}
		return s, s, nil
	case config.StoreRedis:
		s, err := session.OpenRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Redis.TTL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("Redisセッションストアの初期化に失敗: %w", err)
		}
		return s, s, nil
	case config.StoreMemory, "":
		return session.NewMemoryStore(), nopCloser{}, nil
	}
	return nil, nil, fmt.Errorf("不明なセッションストア: %q", cfg.Store)
}
