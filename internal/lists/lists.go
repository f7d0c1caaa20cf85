// Package lists manages the vicidial_lists table: the containers leads are
// loaded into and campaigns dial from.
package lists

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/database"
)

var (
	ErrNotFound  = errors.New("list not found")
	ErrDuplicate = errors.New("list already exists")
)

// mutable columns for partial updates, with their accepted values.
var mutableColumns = map[string]func(string) bool{
	"list_name":        func(string) bool { return true },
	"list_description": func(string) bool { return true },
	"campaign_id":      func(string) bool { return true },
	"active":           func(s string) bool { return s == "Y" || s == "N" },
}

type Repo struct {
	DB database.Querier
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT * FROM vicidial_lists ORDER BY list_id LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) Get(ctx context.Context, listID string) (map[string]any, error) {
	rows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_lists WHERE list_id = $1`, listID)
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

func (r *Repo) Create(ctx context.Context, listID, name, campaignID string, now time.Time) error {
	var one int
	err := r.DB.QueryRow(ctx, `SELECT 1 FROM vicidial_lists WHERE list_id = $1`, listID).Scan(&one)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO vicidial_lists (list_id, list_name, campaign_id, active, list_changedate)
		VALUES ($1, $2, $3, 'Y', $4)`,
		listID, name, campaignID, now.Format("2006-01-02 15:04:05"),
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repo) Update(ctx context.Context, listID string, set map[string]string, now time.Time) error {
	if _, err := r.Get(ctx, listID); err != nil {
		return err
	}

	cols := make([]string, 0, len(set))
	for col := range set {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	clauses := make([]string, 0, len(cols)+1)
	args := make([]any, 0, len(cols)+2)
	for _, col := range cols {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", col, len(args)+1))
		args = append(args, set[col])
	}
	clauses = append(clauses, fmt.Sprintf("list_changedate = $%d", len(args)+1))
	args = append(args, now.Format("2006-01-02 15:04:05"))
	args = append(args, listID)

	sql := fmt.Sprintf("UPDATE vicidial_lists SET %s WHERE list_id = $%d",
		strings.Join(clauses, ", "), len(args))
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
		log.Error().Err(err).Msg("listing lists failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	row, err := h.Repo.Get(c.UserContext(), c.Params("listId"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "List not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching list failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(row)
}

type createListRequest struct {
	ListID     string `json:"list_id"`
	ListName   string `json:"list_name"`
	CampaignID string `json:"campaign_id"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createListRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.ListID == "" || body.ListName == "" || body.CampaignID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "List ID, List Name, and Campaign ID are required.")
	}

	err := h.Repo.Create(c.UserContext(), body.ListID, body.ListName, body.CampaignID, time.Now())
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "List already exists.")
	}
	if err != nil {
		log.Error().Err(err).Str("list_id", body.ListID).Msg("creating list failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "List created successfully."})
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
		accept, ok := mutableColumns[col]
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("field %q cannot be updated", col))
		}
		s, ok := v.(string)
		if !ok || !accept(s) {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("field %q has an invalid value", col))
		}
		set[col] = s
	}

	err := h.Repo.Update(c.UserContext(), c.Params("listId"), set, time.Now())
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "List not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("updating list failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(fiber.Map{"message": "List updated successfully."})
}
