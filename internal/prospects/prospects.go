// Package prospects manages lead rows in the vicidial_list table.
package prospects

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/database"
)

var ErrNotFound = errors.New("prospect not found")

// Columns a partial update may touch.
var mutableColumns = map[string]struct{}{
	"first_name":     {},
	"last_name":      {},
	"middle_initial": {},
	"title":          {},
	"phone_number":   {},
	"phone_code":     {},
	"alt_phone":      {},
	"status":         {},
	"address1":       {},
	"address2":       {},
	"city":           {},
	"state":          {},
	"postal_code":    {},
	"email":          {},
	"comments":       {},
	"list_id":        {},
}

type Repo struct {
	DB database.Querier
}

func (r *Repo) ListByList(ctx context.Context, listID string, limit, offset int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT * FROM vicidial_list WHERE list_id = $1 ORDER BY lead_id LIMIT $2 OFFSET $3`,
		listID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) Get(ctx context.Context, leadID string) (map[string]any, error) {
	rows, err := r.DB.Query(ctx, `SELECT * FROM vicidial_list WHERE lead_id = $1`, leadID)
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

type CreateInput struct {
	PhoneNumber string `json:"phone_number"`
	ListID      string `json:"list_id"`
	PhoneCode   string `json:"phone_code"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Status      string `json:"status"`
}

func (r *Repo) Create(ctx context.Context, in CreateInput, now time.Time) error {
	status := in.Status
	if status == "" {
		status = "NEW"
	}
	phoneCode := in.PhoneCode
	if phoneCode == "" {
		phoneCode = "1"
	}

	_, err := r.DB.Exec(ctx, `
		INSERT INTO vicidial_list
			(phone_number, list_id, phone_code, first_name, last_name, status, entry_date, modify_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		in.PhoneNumber, in.ListID, phoneCode, in.FirstName, in.LastName, status,
		now.Format("2006-01-02 15:04:05"),
	)
	return err
}

func (r *Repo) Update(ctx context.Context, leadID string, set map[string]string, now time.Time) error {
	if _, err := r.Get(ctx, leadID); err != nil {
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
	clauses = append(clauses, fmt.Sprintf("modify_date = $%d", len(args)+1))
	args = append(args, now.Format("2006-01-02 15:04:05"))
	args = append(args, leadID)

	sql := fmt.Sprintf("UPDATE vicidial_list SET %s WHERE lead_id = $%d",
		strings.Join(clauses, ", "), len(args))
	_, err := r.DB.Exec(ctx, sql, args...)
	return err
}

type Handler struct {
	Repo         *Repo
	PageLimit    int
	PageLimitMax int
}

func (h *Handler) ListByList(c *fiber.Ctx) error {
	limit, offset := database.LimitOffset(c.Query("limit"), c.Query("offset"), h.PageLimit, h.PageLimitMax)
	out, err := h.Repo.ListByList(c.UserContext(), c.Params("listId"), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("listing prospects failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	row, err := h.Repo.Get(c.UserContext(), c.Params("leadId"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Prospect not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching prospect failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(row)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body CreateInput
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.PhoneNumber == "" || body.ListID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Phone Number and List ID are required.")
	}

	if err := h.Repo.Create(c.UserContext(), body, time.Now()); err != nil {
		log.Error().Err(err).Str("list_id", body.ListID).Msg("creating prospect failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Prospect created successfully."})
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

	err := h.Repo.Update(c.UserContext(), c.Params("leadId"), set, time.Now())
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Prospect not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("updating prospect failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(fiber.Map{"message": "Prospect updated successfully."})
}
