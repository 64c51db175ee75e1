package web

import (
	"context"

	"github.com/a-h/templ"

	"github.com/nao1215/bidflare/internal/dashboard"
	"github.com/nao1215/bidflare/internal/render"
	"github.com/nao1215/bidflare/internal/theme"
)

// pageData は共通レイアウトに渡す画面情報。
type pageData struct {
	// Title は<title>要素の内容。
	Title string
	// Theme は表示するテーマ。
	Theme theme.Theme
	// SignedIn はトークンが保存されているかどうか。
	SignedIn bool
	// Path はテーマ切り替え後に戻るパス。
	Path string
}

// layout は全画面共通のHTMLの骨組みを描画する。
func layout(pd pageData, body templ.Component) templ.Component {
	return render.Func(func(ctx context.Context, hw *render.Writer) {
		hw.Raw(`<!DOCTYPE html><html lang="en"`)
		if class := pd.Theme.HTMLClass(); class != "" {
			hw.Attr("class", class)
		}
		hw.Raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.Text(pd.Title)
		hw.Raw(`</title><meta name="description" content="Bidflare - Online Bidding Platform"><link rel="icon" href="/Small_Logo.png"></head>`)
		hw.Raw(`<body class="min-h-screen bg-background text-foreground">`)

		hw.Raw(`<header class="flex justify-between items-center max-w-7xl mx-auto p-4"><a href="/" class="text-xl font-bold">Bidflare</a><div class="flex items-center gap-4">`)
		hw.Raw(`<form method="post" action="/theme"><input type="hidden" name="next"`)
		hw.Attr("value", pd.Path)
		hw.Raw(`><button type="submit" class="p-2 rounded-lg bg-secondary" aria-label="Toggle theme" title="Toggle theme">`)
		if pd.Theme == theme.Dark {
			hw.Text("Light mode")
		} else {
			hw.Text("Dark mode")
		}
		hw.Raw(`</button></form>`)
		if pd.SignedIn {
			hw.Raw(`<form method="post" action="/signout"><button type="submit" class="p-2 rounded-lg bg-secondary hover:bg-red-500" aria-label="Sign out" title="Sign out">Sign out</button></form>`)
		} else {
			hw.Raw(`<a href="/signin" class="p-2 rounded-lg bg-secondary">Sign in</a>`)
		}
		hw.Raw(`</div></header>`)

		hw.Raw(`<main class="pt-4 max-w-7xl mx-auto p-8">`)
		hw.Component(ctx, body)
		hw.Raw(`</main></body></html>`)
	})
}

// homeView はトップ画面を描画する。
func homeView(signedIn bool) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		hw.Raw(`<h1 class="text-3xl font-bold mb-8">Welcome to Bidflare</h1>`)
		if !signedIn {
			hw.Raw(`<p class="mb-6 text-muted-foreground">Sign in to start bidding.</p>`)
		}
		hw.Raw(`<ul class="space-y-2">`)
		hw.Raw(`<li><a href="/buyer/my-wins" class="text-primary">My Wins</a></li>`)
		hw.Raw(`<li><a href="/seller/products" class="text-primary">My Products</a></li>`)
		hw.Raw(`<li><a href="/admin" class="text-primary">Admin Dashboard</a></li>`)
		hw.Raw(`</ul>`)
	})
}

// signInView はサインインフォームを描画する。
func signInView(next, errMsg string) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		hw.Raw(`<h1 class="text-3xl font-bold mb-8">Sign in</h1>`)
		if errMsg != "" {
			hw.Raw(`<p class="mb-4 text-red-600" role="alert">`)
			hw.Text(errMsg)
			hw.Raw(`</p>`)
		}
		hw.Raw(`<form method="post" action="/signin" class="flex flex-col gap-4 max-w-md">`)
		hw.Raw(`<input type="hidden" name="next"`)
		hw.Attr("value", next)
		hw.Raw(`><label for="token" class="font-semibold">Access token</label>`)
		hw.Raw(`<textarea id="token" name="token" rows="4" required class="border bg-input border-border rounded px-3 py-2"></textarea>`)
		hw.Raw(`<button type="submit" class="px-4 py-2 text-sm font-medium text-primary-foreground bg-primary rounded">Sign in</button>`)
		hw.Raw(`</form>`)
	})
}

// listView は購入者・出品者向けの一覧を描画する。
func listView(title string, records dashboard.Records) templ.Component {
	return render.Func(func(ctx context.Context, hw *render.Writer) {
		hw.Raw(`<h1 class="text-3xl font-bold mb-8">`)
		hw.Text(title)
		hw.Raw(`</h1>`)
		hw.Component(ctx, dashboard.Table(records))
	})
}

// errorView はエラーメッセージを描画する。
func errorView(message string) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		hw.Raw(`<div class="p-10 text-center" role="alert">`)
		hw.Text(message)
		hw.Raw(`</div>`)
	})
}
