package main

import (
	"context"
	"crypto/rand"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "geofence-attendance/docs"
	"geofence-attendance/internal/attendance"
	"geofence-attendance/internal/platform/auth"
	"geofence-attendance/internal/platform/db"
	"geofence-attendance/internal/platform/metrics"
	"geofence-attendance/internal/platform/requestid"
	"geofence-attendance/internal/zone"
)

// @title                      Geofence Attendance API
// @version                    1.0
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	// .env があれば環境変数に読み込む（既存の環境変数は上書きしない）
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] .env: %v", err)
	}

	// 設定読み込み
	path := os.Getenv("GEOFENCE_CONFIG")
	if path == "" {
		path = db.DefaultConfigPath
	}
	cfg, err := db.LoadConfig(path)
	if err != nil {
		log.Fatalf("[ERROR] config: %v", err)
	}
	log.Printf("[INFO] mode:%s version:%s", cfg.Mode, cfg.Version)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	conn, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		cancel()
		log.Fatalf("[ERROR] %v", err)
	}
	defer conn.Close()
	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	if err := db.Migrate(ctx, conn); err != nil {
		cancel()
		log.Fatalf("[ERROR] migrate: %v", err)
	}

	m := metrics.NewManager()

	// 出勤エリア（空なら既定値を投入）
	zoneSvc := zone.NewService(zone.NewStore(conn), zone.Zone{
		CenterLat:    cfg.Zone.DefaultLat,
		CenterLng:    cfg.Zone.DefaultLng,
		RadiusMeters: cfg.Zone.DefaultRadiusM,
	}, zone.WithMetrics(m))
	if seeded, err := zoneSvc.EnsureSeeded(ctx); err != nil {
		cancel()
		log.Fatalf("[ERROR] seed office zone: %v", err)
	} else if seeded {
		log.Printf("[INFO] office zone seeded: lat=%f lng=%f radius_m=%.1f",
			cfg.Zone.DefaultLat, cfg.Zone.DefaultLng, cfg.Zone.DefaultRadiusM)
	}

	// 管理者アカウント
	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		// dev のみ（release は Validate で弾く）。再起動でトークンは無効になる
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			cancel()
			log.Fatalf("[ERROR] jwt secret: %v", err)
		}
		log.Println("[WARN] auth.jwt_secret is empty; using a random secret for this process")
	}
	authSvc := auth.NewService(auth.NewStore(conn), secret, cfg.Auth.TokenTTL)
	if cfg.Auth.AdminPassword != "" {
		created, err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminID, cfg.Auth.AdminPassword)
		if err != nil {
			cancel()
			log.Fatalf("[ERROR] ensure admin: %v", err)
		}
		if created {
			log.Printf("[INFO] admin account created: %s", cfg.Auth.AdminID)
		}
	}
	cancel()

	attendanceSvc := attendance.NewService(attendance.NewStore(conn), zoneSvc,
		attendance.WithListLimit(cfg.Attendance.ListLimit),
		attendance.WithMetrics(m),
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), requestid.Middleware(), m.GinMiddleware())
	_ = r.SetTrustedProxies(nil)

	if cfg.Mode == db.ModeDev {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", requestid.Header},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Export-ULID", "X-Export-Rows", requestid.Header},
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) {
		if err := conn.PingContext(c.Request.Context()); err != nil {
			c.String(http.StatusServiceUnavailable, "db unreachable")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// /api/v1
	api := r.Group("/api/v1")
	zone.RegisterRoutes(api, zoneSvc)
	attendance.RegisterRoutes(api, attendanceSvc)

	// 管理者のみ
	admin := api.Group("/admin")
	auth.RegisterRoutes(admin, authSvc)
	protected := admin.Group("", auth.RequireAuth(secret), auth.RequireRole(auth.RoleAdmin))
	zone.RegisterAdminRoutes(protected, zoneSvc)
	attendance.RegisterAdminRoutes(protected, attendanceSvc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			// TLS設定（mode ごとに証明書の置き場所を分ける）
			certFile := "config/tls/" + cfg.Mode + "/" + cfg.Certificate.Cert
			keyFile := "config/tls/" + cfg.Mode + "/" + cfg.Certificate.Key
			log.Printf("[INFO] listening on https://%s", cfg.Addr)
			err = srv.ListenAndServeTLS(certFile, keyFile)
		} else {
			log.Printf("[INFO] listening on http://%s", cfg.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("[INFO] shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
