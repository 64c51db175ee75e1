package dashboard

import "fmt"

// Pager はページ送りの状態。
type Pager struct {
	// Page は0始まりの現在ページ。
	Page int
	// TotalPages はバックエンドが返した総ページ数。0の場合もある。
	TotalPages int
}

// HasPrev は前のページがあるかを返す。
func (p Pager) HasPrev() bool {
	return p.Page > 0
}

// HasNext は次のページがあるかを返す。
func (p Pager) HasNext() bool {
	return p.Page < p.TotalPages-1
}

// Prev は前のページ番号を返す。
func (p Pager) Prev() int {
	if !p.HasPrev() {
		return p.Page
	}
	return p.Page - 1
}

// Next は次のページ番号を返す。
func (p Pager) Next() int {
	if !p.HasNext() {
		return p.Page
	}
	return p.Page + 1
}

// Display は "Page N of M" 形式の表示を返す。総ページ数が0の場合は1として表示する。
func (p Pager) Display() string {
	total := p.TotalPages
	if total < 1 {
		total = 1
	}
	return fmt.Sprintf("Page %d of %d", p.Page+1, total)
}
