package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/seddikfer4/Mcdial/internal/database"
)

type Handler struct {
	DB     database.Querier
	Secret []byte
	TTL    time.Duration
}

type loginRequest struct {
	User string `json:"user"`
	Pass string `json:"pass"`
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	body.User = strings.TrimSpace(body.User)
	if body.User == "" || body.Pass == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user and pass are required")
	}

	var (
		pass     string
		passHash string
		active   string
		fullName string
		level    int
	)
	err := h.DB.QueryRow(c.UserContext(), `
		SELECT pass, COALESCE(pass_hash, ''), active, full_name, user_level
		FROM vicidial_users
		WHERE "user" = $1`,
		body.User,
	).Scan(&pass, &passHash, &active, &fullName, &level)
	if errors.Is(err, pgx.ErrNoRows) {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		log.Error().Err(err).Msg("login: user lookup failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	if active != "Y" {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	// The legacy schema stores clear-text passwords in pass; pass_hash is
	// only populated when hashing was enabled on the source system.
	if passHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(passHash), []byte(body.Pass)) != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
		}
	} else if pass != body.Pass {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := GenerateToken(h.Secret, h.TTL, body.User, level)
	if err != nil {
		log.Error().Err(err).Msg("login: token generation failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(h.TTL),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(fiber.Map{
		"token":      token,
		"user":       body.User,
		"full_name":  fullName,
		"user_level": level,
	})
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(fiber.Map{"message": "Logged out."})
}

func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":       c.Locals("user"),
		"user_level": c.Locals("user_level"),
	})
}
