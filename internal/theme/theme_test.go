package theme

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		hint   string
		want   Theme
	}{
		{name: "何も無い場合はライト", want: Light},
		{name: "Cookieのダーク設定を使う", cookie: "dark", want: Dark},
		{name: "Cookieがクライアントヒントより優先される", cookie: "light", hint: "dark", want: Light},
		{name: "Cookieが無ければクライアントヒントを使う", hint: "dark", want: Dark},
		{name: "不正なCookieは無視してヒントを使う", cookie: "sepia", hint: "dark", want: Dark},
		{name: "不正な値ばかりならライト", cookie: "sepia", hint: "no-preference", want: Light},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			if tt.hint != "" {
				r.Header.Set(HintHeader, tt.hint)
			}
			if got := Resolve(r); got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTheme(t *testing.T) {
	t.Parallel()

	if Light.Toggle() != Dark || Dark.Toggle() != Light {
		t.Error("Toggle()が反対のテーマを返さない")
	}
	if Dark.HTMLClass() != "dark" || Light.HTMLClass() != "" {
		t.Error("HTMLClass()が不正")
	}

	c := Dark.Cookie(true)
	if c.Name != CookieName || c.Value != "dark" || !c.Secure || c.Path != "/" {
		t.Errorf("Cookie() = %+v", c)
	}
}
