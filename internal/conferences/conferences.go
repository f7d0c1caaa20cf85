// Package conferences manages the vicidial_conferences table: the meetme
// rooms agents are bridged into, one row per (conf_exten, server_ip).
package conferences

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/database"
)

var (
	ErrNotFound  = errors.New("conference not found")
	ErrDuplicate = errors.New("conference already exists")
)

type Repo struct {
	DB database.Querier
}

func (r *Repo) List(ctx context.Context, serverIP string, limit, offset int) ([]map[string]any, error) {
	if serverIP != "" {
		rows, err := r.DB.Query(ctx,
			`SELECT * FROM vicidial_conferences WHERE server_ip = $1 ORDER BY conf_exten LIMIT $2 OFFSET $3`,
			serverIP, limit, offset,
		)
		if err != nil {
			return nil, err
		}
		return database.CollectMaps(rows)
	}

	rows, err := r.DB.Query(ctx,
		`SELECT * FROM vicidial_conferences ORDER BY server_ip, conf_exten LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) Create(ctx context.Context, confExten, serverIP string) error {
	var one int
	err := r.DB.QueryRow(ctx,
		`SELECT 1 FROM vicidial_conferences WHERE conf_exten = $1 AND server_ip = $2`,
		confExten, serverIP,
	).Scan(&one)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO vicidial_conferences (conf_exten, server_ip, extension)
		VALUES ($1, $2, '')`,
		confExten, serverIP,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// SetExtension assigns or clears the agent extension occupying a room.
func (r *Repo) SetExtension(ctx context.Context, confExten, serverIP, extension string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE vicidial_conferences SET extension = $1
		WHERE conf_exten = $2 AND server_ip = $3`,
		extension, confExten, serverIP,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type Handler struct {
	Repo         *Repo
	PageLimit    int
	PageLimitMax int
}

func (h *Handler) List(c *fiber.Ctx) error {
	limit, offset := database.LimitOffset(c.Query("limit"), c.Query("offset"), h.PageLimit, h.PageLimitMax)
	out, err := h.Repo.List(c.UserContext(), c.Query("server_ip"), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("listing conferences failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(out)
}

type conferenceRequest struct {
	ConfExten string `json:"conf_exten"`
	ServerIP  string `json:"server_ip"`
	Extension string `json:"extension"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body conferenceRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.ConfExten == "" || body.ServerIP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Conference Extension and Server IP are required.")
	}

	err := h.Repo.Create(c.UserContext(), body.ConfExten, body.ServerIP)
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "Conference already exists on this server.")
	}
	if err != nil {
		log.Error().Err(err).Str("conf_exten", body.ConfExten).Msg("creating conference failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Conference created successfully."})
}

func (h *Handler) SetExtension(c *fiber.Ctx) error {
	var body conferenceRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.ConfExten == "" || body.ServerIP == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Conference Extension and Server IP are required.")
	}

	err := h.Repo.SetExtension(c.UserContext(), body.ConfExten, body.ServerIP, body.Extension)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Conference not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("updating conference failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(fiber.Map{"message": "Conference updated successfully."})
}
