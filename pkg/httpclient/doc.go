// Package httpclient はバックエンドREST APIへの認証付きリクエストを仲介するゲートウェイを提供する。
//
// 全ての認証付き呼び出しはClient.Fetchを経由する。Fetchはセッションから
// Bearerトークンを読み出してAuthorizationヘッダーに設定し、トークンが無い場合や
// バックエンドが401/403を返した場合はセッションを破棄してサインイン画面への
// 遷移を要求する。それ以外のステータスやネットワークエラーは呼び出し元に任せる。
package httpclient
