package session

import (
	"context"
	"errors"
	"fmt"
)

// TokenKey はセッショントークンを保存する固定キー。
const TokenKey = "token"

// Session は1つのブラウザに対応するセッションコンテキスト。
// namespaceはブラウザ単位のローカルストレージに相当する。
type Session struct {
	// store はトークンを保持する永続ストア。
	store Store
	// namespace はブラウザを識別する名前空間。
	namespace string
}

// New は指定した名前空間のSessionを生成する。
func New(store Store, namespace string) *Session {
	return &Session{store: store, namespace: namespace}
}

// Namespace はセッションの名前空間を返す。
func (s *Session) Namespace() string {
	return s.namespace
}

// key はストア上の完全なキーを返す。
func (s *Session) key() string {
	if s.namespace == "" {
		return TokenKey
	}
	return s.namespace + ":" + TokenKey
}

// Token は保存されているトークンを返す。
// 空文字列のトークンは未保存として扱う。
func (s *Session) Token(ctx context.Context) (string, bool, error) {
	v, ok, err := s.store.Get(ctx, s.key())
	if err != nil {
		return "", false, fmt.Errorf("セッショントークンの読み込みに失敗: %w", err)
	}
	if !ok || v == "" {
		return "", false, nil
	}
	return v, true, nil
}

// SetToken はトークンを保存する。サインイン時に呼び出す。
func (s *Session) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return errors.New("空のトークンは保存できません")
	}
	if err := s.store.Set(ctx, s.key(), token); err != nil {
		return fmt.Errorf("セッショントークンの保存に失敗: %w", err)
	}
	return nil
}

// Clear はトークンを削除する。サインアウト時と認証失敗時に呼び出す。
// トークンが存在しない場合も成功する。
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key()); err != nil {
		return fmt.Errorf("セッショントークンの削除に失敗: %w", err)
	}
	return nil
}
