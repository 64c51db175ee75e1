package session

import (
	"context"
	"errors"
	"testing"
)

// failingStore は常にエラーを返すStore実装。
type failingStore struct{}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingStore) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}

func (failingStore) Delete(context.Context, string) error {
	return errors.New("storage unavailable")
}

// TestSession はSessionのライフサイクルを検証する。
func TestSession(t *testing.T) {
	t.Parallel()

	t.Run("保存したトークンを取得できること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := New(NewMemoryStore(), "browser-1")
		if err := s.SetToken(ctx, "abc123"); err != nil {
			t.Fatalf("SetToken()でエラーが発生: %v", err)
		}

		token, ok, err := s.Token(ctx)
		if err != nil {
			t.Fatalf("Token()でエラーが発生: %v", err)
		}
		if !ok || token != "abc123" {
			t.Errorf("Token() = (%q, %v), want (%q, true)", token, ok, "abc123")
		}
	})

	t.Run("名前空間ごとにトークンが分離されること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := NewMemoryStore()
		a := New(store, "browser-a")
		b := New(store, "browser-b")
		if err := a.SetToken(ctx, "token-a"); err != nil {
			t.Fatalf("SetToken()でエラーが発生: %v", err)
		}

		if _, ok, _ := b.Token(ctx); ok {
			t.Error("別の名前空間のトークンが見えている")
		}
		if v, _, _ := store.Get(ctx, "browser-a:token"); v != "token-a" {
			t.Errorf("ストア上のキー browser-a:token = %q, want %q", v, "token-a")
		}
	})

	t.Run("名前空間が空の場合は固定キーtokenを使用すること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := NewMemoryStore()
		if err := New(store, "").SetToken(ctx, "t"); err != nil {
			t.Fatalf("SetToken()でエラーが発生: %v", err)
		}
		if _, ok, _ := store.Get(ctx, TokenKey); !ok {
			t.Errorf("キー %q に保存されていない", TokenKey)
		}
	})

	t.Run("Clearでトークンが削除され、2回呼んでもエラーにならないこと", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := New(NewMemoryStore(), "browser-1")
		_ = s.SetToken(ctx, "abc123")

		for i := 0; i < 2; i++ {
			if err := s.Clear(ctx); err != nil {
				t.Fatalf("%d回目のClear()でエラーが発生: %v", i+1, err)
			}
		}
		if _, ok, _ := s.Token(ctx); ok {
			t.Error("Clear()後もトークンが残っている")
		}
	})

	t.Run("空文字列のトークンは未保存として扱うこと", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		store := NewMemoryStore()
		_ = store.Set(ctx, "browser-1:token", "")

		if _, ok, _ := New(store, "browser-1").Token(ctx); ok {
			t.Error("空文字列のトークンが保存済みとして扱われた")
		}
		if err := New(store, "browser-1").SetToken(ctx, ""); err == nil {
			t.Error("空文字列のSetToken()がエラーを返さなかった")
		}
	})

	t.Run("ストアのエラーが呼び出し元に返ること", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		s := New(failingStore{}, "browser-1")
		if _, _, err := s.Token(ctx); err == nil {
			t.Error("Token()がエラーを返さなかった")
		}
		if err := s.SetToken(ctx, "x"); err == nil {
			t.Error("SetToken()がエラーを返さなかった")
		}
		if err := s.Clear(ctx); err == nil {
			t.Error("Clear()がエラーを返さなかった")
		}
	})
}
