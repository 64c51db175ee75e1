// Package navigation はユーザーエージェントの画面遷移を抽象化する。
//
// 認証が失敗した場合の「サインイン画面へのリダイレクト」を、実行環境に依存せず
// 注入できるようにする。対話的な環境ではRecorderの記録をHTTPリダイレクトに変換し、
// サーバー内部の処理やテストではNopまたはRecorderを使用する。
package navigation

import (
	"context"
	"sync"
)

// SignInPath はサインイン画面のパス。
const SignInPath = "/signin"

// Navigator は画面遷移を要求する機能を表す。
type Navigator interface {
	// Redirect はユーザーエージェントをpathへ遷移させる。
	Redirect(ctx context.Context, path string)
}

// Func は関数をNavigatorとして使用するためのアダプタ。
type Func func(ctx context.Context, path string)

// Redirect はf(ctx, path)を呼び出す。
func (f Func) Redirect(ctx context.Context, path string) {
	f(ctx, path)
}

// Nop は遷移先を持たない環境（非対話的なレンダリング等）で使用するNavigator。
// Redirectは何もしない。
type Nop struct{}

// Redirect は何もしない。
func (Nop) Redirect(context.Context, string) {}

// Recorder は要求された遷移先を記録するNavigator。
// 複数のゴルーチンから同時に呼び出してもよい。
type Recorder struct {
	mu    sync.Mutex
	paths []string
}

// NewRecorder は空のRecorderを生成する。
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Redirect は遷移先を記録する。
func (r *Recorder) Redirect(_ context.Context, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

// Redirected は一度でも遷移が要求されたかを返す。
func (r *Recorder) Redirected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.paths) > 0
}

// Last は最後に要求された遷移先を返す。要求がなければ空文字列を返す。
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

// Paths は要求された遷移先を順番に返す。
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}
