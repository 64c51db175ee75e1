package dashboard

import (
	"strconv"
	"time"
)

// truncate は先頭n文字に "..." を付けて返す。
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}

// shortID はIDを8文字に切り詰める。空の場合は "N/A"。
func shortID(id string) string {
	if id == "" {
		return "N/A"
	}
	return truncate(id, 8)
}

// productRef はオークションの商品IDを15文字に切り詰める。空の場合は "N/A"。
func productRef(id string) string {
	if id == "" {
		return "N/A"
	}
	return truncate(id, 15)
}

// price は "$150" や "$99.5" 形式の価格表示を返す。
func price(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

// lastPrice は最新入札額の表示を返す。入札が無い場合は "No Bids"。
func lastPrice(v *float64) string {
	if v == nil {
		return "No Bids"
	}
	return price(*v)
}

// timeLayouts はバックエンドが返しうる日時形式。
// タイムゾーンを持たない形式はSpringのLocalDateTime。
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// endDate は終了日時を YYYY-MM-DD で返す。空の場合は "-"、解釈できない場合は元の文字列。
func endDate(s string) string {
	if s == "" {
		return "-"
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}

// statusBadgeClass は商品ステータスのバッジのクラスを返す。
func statusBadgeClass(status string) string {
	const base = "px-2 py-1 rounded text-xs font-bold"
	switch status {
	case "LISTED":
		return base + " bg-blue-100 dark:bg-blue-900 text-blue-800 dark:text-blue-200"
	case "SOLD":
		return base + " bg-yellow-100 dark:bg-yellow-900 text-yellow-800 dark:text-yellow-200"
	case "DELIVERED":
		return base + " bg-green-100 dark:bg-green-900 text-green-800 dark:text-green-200"
	case "DRAFT":
		return base + " bg-muted text-muted-foreground"
	}
	return base
}
