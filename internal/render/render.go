// Package render はtemplコンポーネントをHTMLとして書き出す補助機能を提供する。
package render

import (
	"bytes"
	"context"
	"io"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// Component はコンポーネントを描画してstatusで応答する。
// 描画途中で失敗した場合に部分的なHTMLを返さないよう、一度バッファに書き出す。
func Component(c *gin.Context, status int, comp templ.Component) {
	var buf bytes.Buffer
	if err := comp.Render(c.Request.Context(), &buf); err != nil {
		log.Printf("[Render] コンポーネントの描画に失敗: path=%s, error=%v", c.Request.URL.Path, err)
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("Internal Server Error"))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// Writer は最初に発生した書き込みエラーを保持するHTMLライター。
// エラー発生後の書き込みは無視される。
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter はwに書き出すWriterを生成する。
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw はエスケープせずに書き出す。呼び出し元が安全なHTMLであることを保証する。
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Text はHTMLエスケープして書き出す。
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Attr は属性値としてエスケープした name="value" を書き出す。
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" " + name + "=\"" + templ.EscapeString(value) + "\"")
}

// Component は子コンポーネントを描画する。
func (hw *Writer) Component(ctx context.Context, comp templ.Component) {
	if hw.err != nil || comp == nil {
		return
	}
	hw.err = comp.Render(ctx, hw.w)
}

// Err は最初に発生したエラーを返す。
func (hw *Writer) Err() error {
	return hw.err
}

// Func はWriterを使って描画する関数をtempl.Componentに変換する。
func Func(fn func(ctx context.Context, hw *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		fn(ctx, hw)
		return hw.Err()
	})
}
