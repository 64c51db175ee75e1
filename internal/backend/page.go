package backend

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// defaultPageSize はsizeが指定されない場合の件数。
	defaultPageSize = 20
	// maxPageSize はsizeの上限。
	maxPageSize = 100
)

// pageRequest はページ指定。
type pageRequest struct {
	// Page は0始まりのページ番号。
	Page int
	// Size は1ページあたりの件数。
	Size int
}

// parsePageRequest はクエリのpageとsizeを解釈する。
// 不正な値は既定値に、範囲外の値は範囲内に丸める。
func parsePageRequest(c *gin.Context) pageRequest {
	p := pageRequest{Page: 0, Size: defaultPageSize}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		p.Size = min(v, maxPageSize)
	}
	return p
}

func (p pageRequest) limit() int64  { return int64(p.Size) }
func (p pageRequest) offset() int64 { return int64(p.Page) * int64(p.Size) }

// pageResponse はSpring形式のページのJSONレスポンス構造。
type pageResponse[T any] struct {
	// Content は1ページ分の要素。
	Content []T `json:"content"`
	// TotalPages は総ページ数。
	TotalPages int `json:"totalPages"`
	// TotalElements は総件数。
	TotalElements int64 `json:"totalElements"`
	// Number は0始まりのページ番号。
	Number int `json:"number"`
	// Size は1ページあたりの件数。
	Size int `json:"size"`
}

// newPageResponse はページのレスポンスを組み立てる。
func newPageResponse[T any](content []T, total int64, p pageRequest) pageResponse[T] {
	if content == nil {
		content = []T{}
	}
	size := int64(p.Size)
	return pageResponse[T]{
		Content:       content,
		TotalPages:    int((total + size - 1) / size),
		TotalElements: total,
		Number:        p.Page,
		Size:          p.Size,
	}
}
