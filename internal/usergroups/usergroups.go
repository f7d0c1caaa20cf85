// Package usergroups manages the vicidial_user_groups table: the named sets
// of users that campaigns and permissions hang off.
package usergroups

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/database"
)

var (
	ErrNotFound  = errors.New("user group not found")
	ErrDuplicate = errors.New("user group already exists")
)

type Repo struct {
	DB database.Querier
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT * FROM vicidial_user_groups ORDER BY user_group LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) Get(ctx context.Context, group string) (map[string]any, error) {
	rows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_user_groups WHERE user_group = $1`, group)
	if err != nil {
		return nil, err
	}
	maps, err := database.CollectMaps(rows)
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, ErrNotFound
	}
	return maps[0], nil
}

func (r *Repo) Create(ctx context.Context, group, name, allowedCampaigns string) error {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM vicidial_user_groups WHERE user_group = $1`, group).Scan(&one)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO vicidial_user_groups (user_group, group_name, allowed_campaigns)
		VALUES ($1, $2, $3)`,
		group, name, allowedCampaigns,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repo) Update(ctx context.Context, group string, name, allowedCampaigns *string) error {
	if _, err := r.Get(ctx, group); err != nil {
		return err
	}
	if name != nil {
		if _, err := r.DB.Exec(ctx,
			`UPDATE vicidial_user_groups SET group_name = $1 WHERE user_group = $2`,
			*name, group,
		); err != nil {
			return err
		}
	}
	if allowedCampaigns != nil {
		if _, err := r.DB.Exec(ctx,
			`UPDATE vicidial_user_groups SET allowed_campaigns = $1 WHERE user_group = $2`,
			*allowedCampaigns, group,
		); err != nil {
			return err
		}
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
	groups, err := h.Repo.List(c.UserContext(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("listing user groups failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(groups)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	group, err := h.Repo.Get(c.UserContext(), c.Params("groupId"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User group not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching user group failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(group)
}

type createGroupRequest struct {
	UserGroup        string `json:"user_group"`
	GroupName        string `json:"group_name"`
	AllowedCampaigns string `json:"allowed_campaigns"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createGroupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.UserGroup == "" || body.GroupName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Group ID and Group Name are required.")
	}

	err := h.Repo.Create(c.UserContext(), body.UserGroup, body.GroupName, body.AllowedCampaigns)
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "User group already exists.")
	}
	if err != nil {
		log.Error().Err(err).Str("user_group", body.UserGroup).Msg("creating user group failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User group created successfully."})
}

type updateGroupRequest struct {
	GroupName        *string `json:"group_name"`
	AllowedCampaigns *string `json:"allowed_campaigns"`
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var body updateGroupRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.GroupName == nil && body.AllowedCampaigns == nil {
		return fiber.NewError(fiber.StatusBadRequest, "No data to update.")
	}

	err := h.Repo.Update(c.UserContext(), c.Params("groupId"), body.GroupName, body.AllowedCampaigns)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User group not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("updating user group failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(fiber.Map{"message": "User group updated successfully."})
}
