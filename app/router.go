// Package app wires all endpoints together
package app

import (
	"fmt"
	"strings"
	"time"

	"akshit029/vig-api/app/audio"
	"akshit029/vig-api/app/auth"
	"akshit029/vig-api/app/caption"
	"akshit029/vig-api/app/payment"
	"akshit029/vig-api/app/root"
	"akshit029/vig-api/app/user"
	"akshit029/vig-api/db"
	"akshit029/vig-api/internal"
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/payments"
	"akshit029/vig-api/internal/provider"
	"akshit029/vig-api/internal/service"
	"akshit029/vig-api/internal/storage"
	"akshit029/vig-api/pkg/middleware"
	"akshit029/vig-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

// TODO: use redis
var store = persist.NewMemoryStore(time.Minute)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{
		BurnQueue: service.NewBurnQueue(),
	}

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}
	d.DB = conn
	d.Ledger = ledger.New(conn)
	d.Argon = security.New()

	var s3 *storage.S3Client
	if viper.GetString("storage.type") == "s3" {
		s3, err = storage.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
	}

	fileStore, err := storage.NewStore(
		viper.GetString("storage.temp_dir"),
		time.Duration(viper.GetInt("storage.artifact_ttl"))*time.Minute,
		s3,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize artifact store, %w", err)
	}
	d.Store = fileStore
	fileStore.StartSweeper(time.Minute)

	d.TTS = provider.NewElevenLabs(viper.GetString("elevenlabs.api_key"))
	d.STT = provider.NewDeepgram(viper.GetString("deepgram.api_key"))
	d.Checkout = payments.NewStripe(viper.GetString("stripe.secret_key"))

	d.BurnQueue.StartWorkerPool()

	router := gin.New()

	origins := strings.Split(viper.GetString("host.cors_origins"), ",")

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken", "Range"},
			ExposeHeaders:    []string{"Content-Length", "Content-Range", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	jwt := middleware.NewJWTMiddleware(conn)
	admin := middleware.RequireAdmin()
	turnstile := middleware.NewTurnstileMiddleware()
	maxUploadSize := viper.GetInt64("upload.max_size")

	rateLimit := viper.GetInt("security.rate_limit")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: rateLimit,
		Burst:             rateLimit * 2,
		CleanupInterval:   time.Second,
	})

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		m.GET("/validate", jwt, root.Validate)
	}

	a := m.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register	-> Registers a new account
		a.POST("/register", turnstile, func(c *gin.Context) { auth.Register(c, d) })

		// POST /api/auth/login 	-> Logs in a user and returns a JWT token
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// GET /api/auth/profile	-> Returns the caller's account
		a.GET("/profile", jwt, func(c *gin.Context) { auth.Profile(c, d) })

		// PATCH /api/auth/profile	-> Updates the caller's account
		a.PATCH("/profile", jwt, func(c *gin.Context) { auth.UpdateProfile(c, d) })

		// POST /api/auth/free-credits	-> One-time free credit grant
		a.POST("/free-credits", jwt, func(c *gin.Context) { auth.FreeCredits(c, d) })

		// POST /api/auth/forgot-password -> Sends a password reset mail
		a.POST("/forgot-password", func(c *gin.Context) { auth.ForgotPassword(c, d) })

		// POST /api/auth/reset-password  -> Consumes a reset token
		a.POST("/reset-password", func(c *gin.Context) { auth.ResetPassword(c, d) })
	}

	u := m.Group("/users", jwt)
	{
		// GET /api/users		-> Lists all accounts
		u.GET("", admin, func(c *gin.Context) { user.UserList(c, d) })

		// GET /api/users/:id		-> Returns a single account
		u.GET("/:id", func(c *gin.Context) { user.UserFetch(c, d) })

		// PATCH /api/users/:id		-> Updates an account
		u.PATCH("/:id", func(c *gin.Context) { user.UserUpdate(c, d) })

		// DELETE /api/users/:id 	-> Deletes an account
		u.DELETE("/:id", admin, func(c *gin.Context) { user.UserDelete(c, d) })
	}

	au := m.Group("/audio")
	{
		// GET /api/audio/voices	-> Lists available voices
		au.GET("/voices", cacheFor(5*60), func(c *gin.Context) { audio.Voices(c, d) })

		// POST /api/audio/generate	-> Synthesizes speech from text
		au.POST("/generate", jwt, func(c *gin.Context) { audio.Generate(c, d) })

		// GET /api/audio/history	-> Returns the caller's generations
		au.GET("/history", jwt, func(c *gin.Context) { audio.History(c, d) })

		// GET /api/audio/stream/:fileName	-> Streams a generated file
		au.GET("/stream/:fileName", jwt, func(c *gin.Context) { audio.Stream(c, d) })

		// GET /api/audio/download/:fileName -> Downloads a generated file
		au.GET("/download/:fileName", jwt, func(c *gin.Context) { audio.Download(c, d) })
	}

	cp := m.Group("/caption", jwt, middleware.BodySizeLimiter(maxUploadSize))
	{
		// POST /api/caption/generate	-> Transcribes a video into captions
		cp.POST("/generate", func(c *gin.Context) { caption.Generate(c, d) })

		// POST /api/caption/video	-> Burns captions into the uploaded video
		cp.POST("/video", func(c *gin.Context) { caption.GenerateVideo(c, d) })
	}

	p := m.Group("/payments")
	{
		// POST /api/payments/checkout	-> Creates a Stripe checkout session
		p.POST("/checkout", jwt, func(c *gin.Context) { payment.CreateCheckoutSession(c, d) })

		// POST /api/payments/update-credits -> Client-side payment confirmation
		p.POST("/update-credits", jwt, func(c *gin.Context) { payment.UpdateCredits(c, d) })

		// GET /api/payments/history	-> Returns the caller's purchases
		p.GET("/history", jwt, func(c *gin.Context) { payment.PaymentHistory(c, d) })

		// POST /api/payments/webhook	-> Stripe webhook, authenticated by signature
		p.POST("/webhook", func(c *gin.Context) { payment.StripeWebhook(c, d) })
	}

	return router, nil
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(store, time.Second*time.Duration(sec))
}
