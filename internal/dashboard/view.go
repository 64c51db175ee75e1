package dashboard

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/nao1215/bidflare/internal/render"
)

const (
	thClass      = "px-5 py-3 border-b-2 border-border bg-muted text-left text-xs font-semibold text-muted-foreground uppercase tracking-wider"
	tdClass      = "px-5 py-5 border-b border-border text-sm"
	tdMonoClass  = tdClass + " font-mono text-muted-foreground"
	tdTitleClass = tdClass + " font-medium text-foreground"
	selectClass  = "border bg-input border-border rounded px-3 py-2 text-foreground focus:outline-none focus:ring-2 focus:ring-primary"
	emptyMessage = "No records found."
)

// cellWriter は表の1セルずつを書き出す。
type cellWriter struct {
	hw *render.Writer
}

func (c cellWriter) cell(class, text string) {
	c.hw.Raw("<td")
	c.hw.Attr("class", class)
	c.hw.Raw(">")
	c.hw.Text(text)
	c.hw.Raw("</td>")
}

func (c cellWriter) badge(class, text string) {
	c.hw.Raw("<td")
	c.hw.Attr("class", tdClass)
	c.hw.Raw("><span")
	c.hw.Attr("class", class)
	c.hw.Raw(">")
	c.hw.Text(text)
	c.hw.Raw("</span></td>")
}

func (UserRecords) columns() []string {
	return []string{"ID", "Name", "Email", "Role"}
}

func (r UserRecords) writeRow(w cellWriter, i int) {
	u := r[i]
	w.cell(tdMonoClass, truncate(u.ID, 8))
	w.cell(tdTitleClass, u.Name)
	w.cell(tdClass, u.Email)
	w.badge("px-3 py-1 rounded-full font-semibold text-green-700 dark:text-green-300 bg-green-100/50 dark:bg-green-900/50", u.Role)
}

func (ProductRecords) columns() []string {
	return []string{"Title", "Starting Price", "Status", "Seller ID"}
}

func (r ProductRecords) writeRow(w cellWriter, i int) {
	p := r[i]
	w.cell(tdTitleClass, p.Title)
	w.cell(tdClass+" text-green-700 dark:text-green-500 font-semibold", price(p.StartingPrice))
	w.badge(statusBadgeClass(p.Status), p.Status)
	w.cell(tdMonoClass, shortID(p.SellerID))
}

func (AuctionRecords) columns() []string {
	return []string{"Auction ID", "Product ID", "Last Price", "Ends At"}
}

func (r AuctionRecords) writeRow(w cellWriter, i int) {
	a := r[i]
	w.cell(tdMonoClass, truncate(a.ID, 8))
	w.cell(tdMonoClass, productRef(a.ProductID))
	w.cell(tdClass+" font-bold text-primary", lastPrice(a.LastPrice))
	w.cell(tdClass, endDate(a.EndTime))
}

// Table はレコード一覧の表を描画する。件数が0の場合は空表示を描画する。
func Table(records Records) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		if records == nil || records.Len() == 0 {
			hw.Raw(`<div class="p-10 text-center text-muted-foreground">`)
			hw.Text(emptyMessage)
			hw.Raw(`</div>`)
			return
		}

		hw.Raw(`<div class="overflow-x-auto bg-card rounded-lg shadow"><table class="min-w-full leading-normal"><thead><tr>`)
		for _, col := range records.columns() {
			hw.Raw("<th")
			hw.Attr("class", thClass)
			hw.Raw(">")
			hw.Text(col)
			hw.Raw("</th>")
		}
		hw.Raw(`</tr></thead><tbody>`)
		w := cellWriter{hw: hw}
		for i := 0; i < records.Len(); i++ {
			hw.Raw(`<tr class="hover:bg-muted/50">`)
			records.writeRow(w, i)
			hw.Raw(`</tr>`)
		}
		hw.Raw(`</tbody></table></div>`)
	})
}

// TabBar はタブの切り替えリンクを描画する。
func TabBar(q Query, basePath string) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		hw.Raw(`<nav class="flex space-x-4 mb-6 border-b border-border">`)
		for _, t := range Tabs {
			class := "pb-2 px-4 font-medium capitalize text-muted-foreground hover:text-foreground"
			if t == q.Tab {
				class = "pb-2 px-4 font-medium capitalize border-b-4 border-primary text-primary"
			}
			hw.Raw("<a")
			hw.Attr("href", q.WithTab(t).URL(basePath))
			hw.Attr("class", class)
			if t == q.Tab {
				hw.Attr("aria-current", "page")
			}
			hw.Raw(">")
			hw.Text(string(t))
			hw.Raw("</a>")
		}
		hw.Raw(`</nav>`)
	})
}

// Filters は表示中のタブのフィルターフォームを描画する。
// 送信するとページは先頭に戻る。
func Filters(q Query, basePath string) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		hw.Raw("<form method=\"get\"")
		hw.Attr("action", basePath)
		hw.Raw(` class="mb-6 flex items-center gap-4 bg-card p-4 rounded-lg shadow-sm border border-border">`)
		hw.Raw(`<span class="font-semibold text-muted-foreground">Filter By:</span>`)
		hw.Raw(`<input type="hidden" name="tab"`)
		hw.Attr("value", string(q.Tab))
		hw.Raw(">")

		switch q.Tab {
		case TabProducts:
			writeSelect(hw, "status", StatusOptions, q.Status)
		case TabAuctions:
			writeSelect(hw, "closed", ClosedOptions, strconv.FormatBool(q.Closed))
		default:
			writeSelect(hw, "role", RoleOptions, q.Role)
		}

		hw.Raw(`<button type="submit" class="px-4 py-2 text-sm font-medium text-primary-foreground bg-primary rounded hover:bg-primary/90">Apply</button>`)
		hw.Raw(`</form>`)
	})
}

func writeSelect(hw *render.Writer, name string, options []Option, selected string) {
	hw.Raw("<select")
	hw.Attr("name", name)
	hw.Attr("class", selectClass)
	hw.Raw(` onchange="this.form.submit()">`)
	for _, o := range options {
		hw.Raw("<option")
		hw.Attr("value", o.Value)
		if o.Value == selected {
			hw.Raw(" selected")
		}
		hw.Raw(">")
		hw.Text(o.Label)
		hw.Raw("</option>")
	}
	hw.Raw("</select>")
}

// Pagination はページ表示と前後ページへのリンクを描画する。
func Pagination(q Query, p Pager, basePath string) templ.Component {
	return render.Func(func(_ context.Context, hw *render.Writer) {
		const (
			enabled  = "px-4 py-2 text-sm font-medium text-primary-foreground bg-primary hover:bg-primary/90"
			disabled = "px-4 py-2 text-sm font-medium bg-muted text-muted-foreground cursor-not-allowed"
		)

		hw.Raw(`<div class="flex items-center justify-between mt-6"><span class="text-sm text-muted-foreground">`)
		hw.Text(p.Display())
		hw.Raw(`</span><div class="inline-flex">`)

		if p.HasPrev() {
			hw.Raw("<a")
			hw.Attr("href", q.WithPage(p.Prev()).URL(basePath))
			hw.Attr("class", enabled+" rounded-l")
			hw.Raw(` rel="prev">Prev</a>`)
		} else {
			hw.Raw("<span")
			hw.Attr("class", disabled+" rounded-l")
			hw.Raw(` aria-disabled="true">Prev</span>`)
		}

		if p.HasNext() {
			hw.Raw("<a")
			hw.Attr("href", q.WithPage(p.Next()).URL(basePath))
			hw.Attr("class", enabled+" rounded-r")
			hw.Raw(` rel="next">Next</a>`)
		} else {
			hw.Raw("<span")
			hw.Attr("class", disabled+" rounded-r")
			hw.Raw(` aria-disabled="true">Next</span>`)
		}

		hw.Raw(`</div></div>`)
	})
}

// View は管理者ダッシュボードの本体（タブ、フィルター、表、ページ送り）を描画する。
func View(r *Result, basePath string) templ.Component {
	return render.Func(func(ctx context.Context, hw *render.Writer) {
		hw.Raw(`<h1 class="text-3xl font-bold mb-8">Admin Dashboard</h1>`)
		hw.Component(ctx, TabBar(r.Query, basePath))
		hw.Component(ctx, Filters(r.Query, basePath))
		hw.Component(ctx, Table(r.Records))
		hw.Component(ctx, Pagination(r.Query, r.Pager, basePath))
	})
}
