package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore はRedisに値を保持するStore実装。
// 複数のWebクライアントインスタンスでセッションを共有する場合に使用する。
type RedisStore struct {
	// client はRedisクライアント。
	client redis.Cmdable
	// prefix は全キーに付与する接頭辞。
	prefix string
	// ttl はキーの有効期限。0の場合は期限なし。
	ttl time.Duration
}

// RedisOptions はRedisStoreの接続設定。
type RedisOptions struct {
	// Addr は "host:port" 形式の接続先。
	Addr string
	// Password はRedisのパスワード。
	Password string
	// DB はデータベース番号。
	DB int
	// Prefix はキーの接頭辞。
	Prefix string
	// TTL はキーの有効期限。
	TTL time.Duration
}

// OpenRedisStore はRedisに接続し、疎通確認を行ってからRedisStoreを返す。
func OpenRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis接続に失敗: %w", err)
	}
	return NewRedisStore(client, opts.Prefix, opts.TTL), nil
}

// NewRedisStore は既存のRedisクライアントからRedisStoreを生成する。
func NewRedisStore(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

// Get はキーに対応する値を取得する。
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redisからの取得に失敗: %w", err)
	}
	return v, true, nil
}

// Set はキーに値を保存する。TTLが設定されていれば有効期限も付与する。
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisへの保存に失敗: %w", err)
	}
	return nil
}

// Delete はキーを削除する。
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redisからの削除に失敗: %w", err)
	}
	return nil
}

// Close はRedisクライアントを閉じる。OpenRedisStoreで生成した場合に呼び出す。
func (s *RedisStore) Close() error {
	if c, ok := s.client.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
