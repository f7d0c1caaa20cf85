// Package companies manages the vicidial_campaigns table, which the admin
// frontend presents as companies.
package companies

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/database"
)

var (
	ErrNotFound  = errors.New("campaign not found")
	ErrDuplicate = errors.New("campaign already exists")
)

var mutableColumns = map[string]struct{}{
	"campaign_name":        {},
	"campaign_description": {},
	"active":               {},
	"dial_method":          {},
	"auto_dial_level":      {},
	"hopper_level":         {},
	"local_call_time":      {},
}

type Repo struct {
	DB database.Querier
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT * FROM vicidial_campaigns ORDER BY campaign_id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) Get(ctx context.Context, campaignID string) (map[string]any, error) {
	rows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_campaigns WHERE campaign_id = $1`, campaignID)
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

func (r *Repo) Create(ctx context.Context, campaignID, name string) error {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM vicidial_campaigns WHERE campaign_id = $1`, campaignID).Scan(&one)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO vicidial_campaigns (campaign_id, campaign_name, active, dial_method)
		VALUES ($1, $2, 'N', 'MANUAL')`,
		campaignID, name,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repo) Update(ctx context.Context, campaignID string, set map[string]string) error {
	if _, err := r.Get(ctx, campaignID); err != nil {
		return err
	}

	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	clauses := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		clauses[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, set[col])
	}
	args = append(args, campaignID)

	sql := fmt.Sprintf("UPDATE vicidial_campaigns SET %s WHERE campaign_id = $%d",
		strings.Join(clauses, ", "), len(cols)+1)
	_, err := r.DB.Exec(ctx, sql, args...)
	return err
}

type Handler struct {
	Repo         *Repo
	PageLimit    int
	PageLimitMax int
}

func (h *Handler) List(c *fiber.Ctx) error {
	limit, offset := database.LimitOffset(c.Query("limit"), c.Query("offset"), h.PageLimit, h.PageLimitMax)
	out, err := h.Repo.List(c.UserContext(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("listing campaigns failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	row, err := h.Repo.Get(c.UserContext(), c.Params("campaignId"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Campaign not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching campaign failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(row)
}

type createCampaignRequest struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createCampaignRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.CampaignID == "" || body.CampaignName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Campaign ID and Campaign Name are required.")
	}

	err := h.Repo.Create(c.UserContext(), body.CampaignID, body.CampaignName)
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "Campaign already exists.")
	}
	if err != nil {
		log.Error().Err(err).Str("campaign_id", body.CampaignID).Msg("creating campaign failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Campaign created successfully."})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var input map[string]any
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if len(input) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "No data to update.")
	}

	set := make(map[string]string, len(input))
	for col, v := range input {
		if _, ok := mutableColumns[col]; !ok {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("field %q cannot be updated", col))
		}
		s, ok := v.(string)
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("field %q must be a string", col))
		}
		set[col] = s
	}

	err := h.Repo.Update(c.UserContext(), c.Params("campaignId"), set)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Campaign not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("updating campaign failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(fiber.Map{"message": "Campaign updated successfully."})
}
