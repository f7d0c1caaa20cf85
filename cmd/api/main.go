package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/auth"
	"github.com/seddikfer4/Mcdial/internal/companies"
	"github.com/seddikfer4/Mcdial/internal/conferences"
	"github.com/seddikfer4/Mcdial/internal/config"
	"github.com/seddikfer4/Mcdial/internal/database"
	"github.com/seddikfer4/Mcdial/internal/lists"
	"github.com/seddikfer4/Mcdial/internal/phones"
	"github.com/seddikfer4/Mcdial/internal/prospects"
	"github.com/seddikfer4/Mcdial/internal/reports"
	"github.com/seddikfer4/Mcdial/internal/router"
	"github.com/seddikfer4/Mcdial/internal/usergroups"
	"github.com/seddikfer4/Mcdial/internal/users"
)

func main() {
	_ = godotenv.Load()

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	pool, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "An error occurred, please try again later."

			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				code = fiberErr.Code
				message = fiberErr.Message
			} else {
				log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
			}

			return c.Status(code).JSON(fiber.Map{"message": message})
		},
	})

	app.Use(router.CorsMiddleware(cfg))
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	secret := []byte(cfg.JWTSecret)
	userRepo := users.NewRepo(pool)

	r := &router.Router{
		Auth:  &auth.Handler{DB: pool, Secret: secret, TTL: cfg.JWTTTL()},
		Users: users.NewHandler(userRepo, cfg.PageLimit, cfg.PageLimitMax, cfg.LogPageLimit),
		UserGroups: &usergroups.Handler{
			Repo: &usergroups.Repo{DB: pool}, PageLimit: cfg.PageLimit, PageLimitMax: cfg.PageLimitMax,
		},
		Lists: &lists.Handler{
			Repo: &lists.Repo{DB: pool}, PageLimit: cfg.PageLimit, PageLimitMax: cfg.PageLimitMax,
		},
		Prospects: &prospects.Handler{
			Repo: &prospects.Repo{DB: pool}, PageLimit: cfg.PageLimit, PageLimitMax: cfg.PageLimitMax,
		},
		Phones: &phones.Handler{
			Repo: &phones.Repo{DB: pool}, PageLimit: cfg.PageLimit, PageLimitMax: cfg.PageLimitMax,
		},
		Companies: &companies.Handler{
			Repo: &companies.Repo{DB: pool}, PageLimit: cfg.PageLimit, PageLimitMax: cfg.PageLimitMax,
		},
		Conferences: &conferences.Handler{
			Repo: &conferences.Repo{DB: pool}, PageLimit: cfg.PageLimit, PageLimitMax: cfg.PageLimitMax,
		},
		Reports: &reports.Handler{Users: userRepo},
		AuthMW:  auth.RequireAuth(secret),
		AdminMW: auth.RequireAdmin(),
	}
	r.RegisterRoutes(app)

	app.Static("/", cfg.StaticDir)

	log.Info().Str("addr", cfg.ListenAddr).Msg("server listening")
	if err := app.Listen(cfg.ListenAddr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("request")
		return err
	}
}
