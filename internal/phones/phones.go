// Package phones manages the phones table: agent extensions registered
// against a telephony server.
package phones

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
	ErrNotFound  = errors.New("phone not found")
	ErrDuplicate = errors.New("phone already exists")
)

var mutableColumns = map[string]struct{}{
	"dialplan_number": {},
	"voicemail_id":    {},
	"login":           {},
	"pass":            {},
	"status":          {},
	"fullname":        {},
	"phone_type":      {},
	"active":          {},
	"server_ip":       {},
}

type Repo struct {
	DB database.Querier
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]map[string]any, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT * FROM phones ORDER BY extension LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return database.CollectMaps(rows)
}

func (r *Repo) Get(ctx context.Context, extension string) (map[string]any, error) {
	rows, err := r.DB.Query(ctx, `SELECT * FROM phones WHERE extension = $1`, extension)
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
	Extension      string `json:"extension"`
	DialplanNumber string `json:"dialplan_number"`
	ServerIP       string `json:"server_ip"`
	Login          string `json:"login"`
	Pass           string `json:"pass"`
	FullName       string `json:"fullname"`
	PhoneType      string `json:"phone_type"`
}

func (r *Repo) Create(ctx context.Context, in CreateInput) error {
	var one int
	err := r.DB.QueryRow(ctx,
		`SELECT 1 FROM phones WHERE extension = $1 AND server_ip = $2`,
		in.Extension, in.ServerIP,
	).Scan(&one)
	if err == nil {
		return ErrDuplicate
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	_, err = r.DB.Exec(ctx, `
		INSERT INTO phones (extension, dialplan_number, server_ip, login, pass, fullname, phone_type, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 'Y')`,
		in.Extension, in.DialplanNumber, in.ServerIP, in.Login, in.Pass, in.FullName, in.PhoneType,
	)
	if database.IsUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *Repo) Update(ctx context.Context, extension string, set map[string]string) error {
	if _, err := r.Get(ctx, extension); err != nil {
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
	args = append(args, extension)

	sql := fmt.Sprintf("UPDATE phones SET %s WHERE extension = $%d",
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
		log.Error().Err(err).Msg("listing phones failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	row, err := h.Repo.Get(c.UserContext(), c.Params("extension"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Phone not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching phone failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(row)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body CreateInput
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if body.Extension == "" || body.ServerIP == "" || body.DialplanNumber == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Extension, Dialplan Number, and Server IP are required.")
	}

	err := h.Repo.Create(c.UserContext(), body)
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "Phone already exists on this server.")
	}
	if err != nil {
		log.Error().Err(err).Str("extension", body.Extension).Msg("creating phone failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Phone created successfully."})
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

	err := h.Repo.Update(c.UserContext(), c.Params("extension"), set)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Phone not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("updating phone failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(fiber.Map{"message": "Phone updated successfully."})
}
