// Package theme はページ描画前にライト/ダークテーマを決定する。
//
// 保存済みの設定（Cookie）が最優先で、無ければブラウザのクライアントヒント
// Sec-CH-Prefers-Color-Scheme、それも無ければライトテーマになる。
package theme

import (
	"net/http"
	"strings"
)

// CookieName はテーマ設定を保存するCookie名。
const CookieName = "bidflare-theme"

// HintHeader はOSのカラースキームを通知するクライアントヒントのヘッダー名。
const HintHeader = "Sec-CH-Prefers-Color-Scheme"

// Theme は画面のテーマ。
type Theme string

const (
	// Light はライトテーマ。
	Light Theme = "light"
	// Dark はダークテーマ。
	Dark Theme = "dark"
)

// Parse は文字列をThemeに変換する。不明な値はokがfalseになる。
func Parse(s string) (Theme, bool) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case Light:
		return Light, true
	case Dark:
		return Dark, true
	}
	return "", false
}

// Resolve はリクエストからテーマを決定する。
func Resolve(r *http.Request) Theme {
	if c, err := r.Cookie(CookieName); err == nil {
		if t, ok := Parse(c.Value); ok {
			return t
		}
	}
	if t, ok := Parse(r.Header.Get(HintHeader)); ok {
		return t
	}
	return Light
}

// Toggle は反対のテーマを返す。
func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// HTMLClass は<html>要素に付与するクラスを返す。ダークテーマのみ "dark" を付与する。
func (t Theme) HTMLClass() string {
	if t == Dark {
		return "dark"
	}
	return ""
}

// Cookie はテーマ設定を保存するCookieを返す。有効期限は1年。
func (t Theme) Cookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(t),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
