// Package dashboard は管理者ダッシュボードのビューを提供する。
//
// 表示中のタブ（ユーザー、商品、オークション）ごとに、取得するエンドポイント、
// フィルター、レコード型、表の描画方法が決まる。レコードはタブをタグとする
// 閉じたバリアント（Records）として扱い、バックエンドの応答はページ形式の違い
// （配列、Spring形式のcontent、data）を吸収してデコードする。
package dashboard
