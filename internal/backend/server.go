package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	backenddb "github.com/nao1215/bidflare/internal/backend/db"
	"github.com/nao1215/bidflare/internal/config"
	"github.com/nao1215/bidflare/pkg/middleware"
)

// ロールの値。
const (
	RoleAdmin  = "ADMIN"
	RoleBuyer  = "BUYER"
	RoleSeller = "SELLER"
)

// validRoles はユーザーのロールとして有効な値。
var validRoles = map[string]bool{RoleAdmin: true, RoleBuyer: true, RoleSeller: true}

// validStatuses は商品ステータスとして有効な値。
var validStatuses = map[string]bool{
	"DRAFT": true, "LISTED": true, "SOLD": true, "PAID": true, "SHIPPED": true, "DELIVERED": true,
}

// localDateTime はSpringのLocalDateTimeと同じ日時形式。
const localDateTime = "2006-01-02T15:04:05"

// Server は開発用バックエンドのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// queries はクエリ実行オブジェクト。
	queries *backenddb.Queries
	// db はSQLiteデータベース接続。
	db *sql.DB
	// jwtSecret はJWT署名用の秘密鍵。
	jwtSecret string
}

// NewServer は設定から開発用バックエンドのサーバーを生成する。
// SQLiteデータベースの初期化とマイグレーション、必要に応じてサンプルデータの投入を行う。
func NewServer(ctx context.Context, cfg config.BackendConfig) (*Server, error) {
	sqlDB, err := sql.Open("sqlite", cfg.DatabasePath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := initSchema(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("スキーマ初期化に失敗: %w", err)
	}

	if cfg.Seed {
		if err := seed(ctx, sqlDB); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("サンプルデータの投入に失敗: %w", err)
		}
	}

	return newServer(sqlDB, cfg), nil
}

// newServer はデータベース接続を指定してサーバーを生成する。
func newServer(sqlDB *sql.DB, cfg config.BackendConfig) *Server {
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))

	s := &Server{
		router:    router,
		port:      cfg.Port,
		queries:   backenddb.New(sqlDB),
		db:        sqlDB,
		jwtSecret: cfg.JWTSecret,
	}
	s.setupRoutes()

	return s
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Handler はルーティング済みのhttp.Handlerを返す。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close はデータベース接続を閉じる。
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes はAPIルーティングを設定する。
func (s *Server) setupRoutes() {
	// 開発用トークン発行（認証不要）
	s.router.POST("/api/auth/dev-token", s.handleDevToken())

	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.jwtSecret))
	{
		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(RoleAdmin))
		{
			admin.GET("/users", s.handleAdminUsers())
			admin.GET("/products", s.handleAdminProducts())
			admin.GET("/auctions", s.handleAdminAuctions())
		}

		// 購入者の落札一覧
		api.GET("/auctions/my-wins", middleware.RequireRole(RoleBuyer), s.handleMyWins())
		// 出品者の商品一覧
		api.GET("/products/my-products", middleware.RequireRole(RoleSeller), s.handleMyProducts())
	}

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "backend"})
	})
}

// devTokenRequest は開発用トークン発行リクエストのJSON構造。
type devTokenRequest struct {
	// Role は発行するユーザーのロール。
	Role string `json:"role" binding:"required"`
	// Email はユーザーのメールアドレス。初回はこのメールアドレスでユーザーを作成する。
	Email string `json:"email" binding:"required"`
}

// userResponse はユーザーのJSONレスポンス構造。
type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// productResponse は商品のJSONレスポンス構造。
type productResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	StartingPrice float64 `json:"startingPrice"`
	Status        string  `json:"status"`
	SellerID      *string `json:"sellerId"`
	CategoryID    *string `json:"categoryId"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// auctionResponse はオークションのJSONレスポンス構造。
type auctionResponse struct {
	ID        string   `json:"id"`
	ProductID *string  `json:"productId"`
	LastPrice *float64 `json:"lastPrice"`
	EndTime   string   `json:"endTime"`
	IsClosed  bool     `json:"isClosed"`
}

func toUserResponse(u backenddb.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toProductResponse(p backenddb.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		StartingPrice: p.StartingPrice,
		Status:        p.Status,
		SellerID:      nullString(p.SellerID),
		CategoryID:    nullString(p.CategoryID),
		CreatedAt:     p.CreatedAt.UTC().Format(localDateTime),
		UpdatedAt:     p.UpdatedAt.UTC().Format(localDateTime),
	}
}

func toAuctionResponse(a backenddb.Auction) auctionResponse {
	r := auctionResponse{
		ID:        a.ID,
		ProductID: nullString(a.ProductID),
		EndTime:   a.EndTime.UTC().Format(localDateTime),
		IsClosed:  a.IsClosed,
	}
	if a.LastPrice.Valid {
		v := a.LastPrice.Float64
		r.LastPrice = &v
	}
	return r
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}

// handleDevToken は開発用JWTトークンを発行するハンドラを返す。
// メールアドレスのユーザーが存在しなければ指定したロールで作成する。
// 既存ユーザーの場合は保存されているロールでトークンを発行する。
// 本番環境では無効化すべき。
func (s *Server) handleDevToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req devTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request: %v", err)})
			return
		}
		role := strings.ToUpper(req.Role)
		if !validRoles[role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid role: %s", req.Role)})
			return
		}

		ctx := c.Request.Context()
		user, err := s.queries.GetUserByEmail(ctx, req.Email)
		if errors.Is(err, sql.ErrNoRows) {
			user = backenddb.User{
				ID:        uuid.New().String(),
				Name:      displayName(req.Email),
				Email:     req.Email,
				Role:      role,
				CreatedAt: time.Now().UTC(),
			}
			if err := s.queries.CreateUser(ctx, backenddb.CreateUserParams{
				ID:        user.ID,
				Name:      user.Name,
				Email:     user.Email,
				Role:      user.Role,
				CreatedAt: user.CreatedAt,
			}); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
				log.Printf("[Backend] ユーザー作成エラー: %v", err)
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load user"})
			log.Printf("[Backend] ユーザー取得エラー: %v", err)
			return
		}

		token, err := middleware.GenerateJWT(s.jwtSecret, user.ID, user.Email, user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			log.Printf("[Backend] JWT生成エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":   token,
			"user_id": user.ID,
			"role":    user.Role,
		})
	}
}

// displayName はメールアドレスのローカル部を表示名にする。
func displayName(email string) string {
	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		return email
	}
	return name
}

// requiredQuery は必須のクエリパラメータを取得する。無い場合は400を返してfalseを返す。
func requiredQuery(c *gin.Context, name string) (string, bool) {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Required parameter '%s' is not present", name)})
		return "", false
	}
	return v, true
}

// handleAdminUsers はロールでユーザーを絞り込んだ一覧を返すハンドラを返す。
func (s *Server) handleAdminUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := requiredQuery(c, "role")
		if !ok {
			return
		}
		if !validRoles[role] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid role: %s", role)})
			return
		}
		p := parsePageRequest(c)

		ctx := c.Request.Context()
		total, err := s.queries.CountUsersByRole(ctx, role)
		if err != nil {
			internalError(c, "ユーザー数の取得", err)
			return
		}
		users, err := s.queries.ListUsersByRole(ctx, backenddb.ListUsersByRoleParams{
			Role:   role,
			Limit:  p.limit(),
			Offset: p.offset(),
		})
		if err != nil {
			internalError(c, "ユーザー一覧の取得", err)
			return
		}

		c.JSON(http.StatusOK, newPageResponse(mapSlice(users, toUserResponse), total, p))
	}
}

// handleAdminProducts はステータスで商品を絞り込んだ一覧を返すハンドラを返す。
func (s *Server) handleAdminProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, ok := requiredQuery(c, "status")
		if !ok {
			return
		}
		if !validStatuses[status] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid status: %s", status)})
			return
		}
		p := parsePageRequest(c)

		ctx := c.Request.Context()
		total, err := s.queries.CountProductsByStatus(ctx, status)
		if err != nil {
			internalError(c, "商品数の取得", err)
			return
		}
		products, err := s.queries.ListProductsByStatus(ctx, backenddb.ListProductsByStatusParams{
			Status: status,
			Limit:  p.limit(),
			Offset: p.offset(),
		})
		if err != nil {
			internalError(c, "商品一覧の取得", err)
			return
		}

		c.JSON(http.StatusOK, newPageResponse(mapSlice(products, toProductResponse), total, p))
	}
}

// handleAdminAuctions は終了状態でオークションを絞り込んだ一覧を返すハンドラを返す。
func (s *Server) handleAdminAuctions() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := requiredQuery(c, "isClosed")
		if !ok {
			return
		}
		isClosed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid isClosed: %s", raw)})
			return
		}
		p := parsePageRequest(c)

		ctx := c.Request.Context()
		total, err := s.queries.CountAuctionsByClosed(ctx, isClosed)
		if err != nil {
			internalError(c, "オークション数の取得", err)
			return
		}
		auctions, err := s.queries.ListAuctionsByClosed(ctx, backenddb.ListAuctionsByClosedParams{
			IsClosed: isClosed,
			Limit:    p.limit(),
			Offset:   p.offset(),
		})
		if err != nil {
			internalError(c, "オークション一覧の取得", err)
			return
		}

		c.JSON(http.StatusOK, newPageResponse(mapSlice(auctions, toAuctionResponse), total, p))
	}
}

// handleMyWins は認証済み購入者が落札したオークションを返すハンドラを返す。
func (s *Server) handleMyWins() gin.HandlerFunc {
	return func(c *gin.Context) {
		auctions, err := s.queries.ListWonAuctions(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			internalError(c, "落札一覧の取得", err)
			return
		}
		c.JSON(http.StatusOK, mapSlice(auctions, toAuctionResponse))
	}
}

// handleMyProducts は認証済み出品者の商品を返すハンドラを返す。
func (s *Server) handleMyProducts() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.queries.ListProductsBySeller(c.Request.Context(), middleware.GetUserID(c))
		if err != nil {
			internalError(c, "出品商品一覧の取得", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"data":       mapSlice(products, toProductResponse),
			"totalPages": 1,
		})
	}
}

// internalError はログを出力して500を返す。
func internalError(c *gin.Context, action string, err error) {
	log.Printf("[Backend] %sに失敗: %v", action, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
