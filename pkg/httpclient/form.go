package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
)

// Form はmultipart/form-data形式のリクエストボディ。
// FetchはFormに対してapplication/jsonを既定のContent-Typeとして設定しない。
type Form struct {
	fields []formField
}

// formField はフォームの1項目。
type formField struct {
	name     string
	value    string
	filename string
	content  []byte
	isFile   bool
}

// NewForm は空のFormを生成する。
func NewForm() *Form {
	return &Form{}
}

// AddField はテキスト項目を追加する。
func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile はファイル項目を追加する。商品画像のアップロード等で使用する。
func (f *Form) AddFile(name, filename string, content []byte) *Form {
	f.fields = append(f.fields, formField{name: name, filename: filename, content: content, isFile: true})
	return f
}

// encode はフォームをmultipartでエンコードし、ボディとContent-Typeを返す。
func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, field := range f.fields {
		if !field.isFile {
			if err := w.WriteField(field.name, field.value); err != nil {
				return nil, "", err
			}
			continue
		}
		part, err := w.CreateFormFile(field.name, field.filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(field.content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
