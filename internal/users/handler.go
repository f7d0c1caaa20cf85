package users

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/database"
)

// Handler exposes the user admin endpoints. Auth and role gating happen in
// the router middleware; nothing here re-checks authorization.
type Handler struct {
	Repo *Repo

	// Pagination knobs, wired from config.
	PageLimit    int
	PageLimitMax int
	LogLimit     int
}

func NewHandler(repo *Repo, pageLimit, pageLimitMax, logLimit int) *Handler {
	return &Handler{
		Repo:         repo,
		PageLimit:    pageLimit,
		PageLimitMax: pageLimitMax,
		LogLimit:     logLimit,
	}
}

func (h *Handler) Groups(c *fiber.Ctx) error {
	groups, err := h.Repo.Groups(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("fetching user groups failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred while fetching user groups.")
	}
	return c.JSON(groups)
}

type createRequest struct {
	User      string `json:"user"`
	Pass      string `json:"pass"`
	FullName  string `json:"full_name"`
	UserLevel int    `json:"user_level"`
	UserGroup string `json:"user_group"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var body createRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	if body.User == "" || body.Pass == "" || body.FullName == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User Number, Password, and Full Name are required.")
	}

	ctx := c.UserContext()
	exists, err := h.Repo.ExistsByUser(ctx, body.User)
	if err != nil {
		log.Error().Err(err).Msg("create user: existence check failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	if exists {
		return fiber.NewError(fiber.StatusBadRequest, "User already exists.")
	}

	err = h.Repo.Create(ctx, CreateInput{
		User:      body.User,
		Pass:      body.Pass,
		FullName:  body.FullName,
		UserLevel: body.UserLevel,
		UserGroup: body.UserGroup,
	}, time.Now())
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "User already exists.")
	}
	if err != nil {
		log.Error().Err(err).Str("user", body.User).Msg("create user failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User created successfully."})
}

func (h *Handler) ListUsers(c *fiber.Ctx) error {
	limit, offset := database.LimitOffset(c.Query("limit"), c.Query("offset"), h.PageLimit, h.PageLimitMax)

	list, err := h.Repo.List(c.UserContext(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("listing users failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}
	return c.JSON(list)
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	row, err := h.Repo.GetByID(c.UserContext(), c.Params("userId"))
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found.")
	}
	if err != nil {
		log.Error().Err(err).Msg("fetching user by id failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	// Single-element array, matching the shape clients already consume.
	return c.JSON([]map[string]any{row})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var input map[string]any
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	set, err := BuildSet(input)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	err = h.Repo.Update(c.UserContext(), c.Params("userId"), set, time.Now())
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found.")
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", c.Params("userId")).Msg("updating user failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	return c.JSON(fiber.Map{"message": "User updated successfully."})
}

func (h *Handler) Copy(c *fiber.Ctx) error {
	var input map[string]any
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	sourceID := idParam(input["userID"])
	if sourceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "userID is required")
	}

	_, err := h.Repo.Copy(c.UserContext(), CopyInput{SourceID: sourceID, Overrides: input}, time.Now())
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found.")
	}
	if errors.Is(err, ErrDuplicate) {
		return fiber.NewError(fiber.StatusBadRequest, "User already exists with this username.")
	}
	if err != nil {
		log.Error().Err(err).Str("source_id", sourceID).Msg("copying user failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User copied successfully."})
}

// idParam normalizes a JSON id value. Clients send user_id back the way
// they received it, so both "7" and 7 must work.
func idParam(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		if id == math.Trunc(id) {
			return strconv.FormatInt(int64(id), 10)
		}
	}
	return ""
}

type userStatsRequest struct {
	User string `json:"user"`
}

func (h *Handler) UserStats(c *fiber.Ctx) error {
	var body userStatsRequest
	if err := c.BodyParser(&body); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(body.User) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User parameter is required")
	}

	stats, err := h.Repo.RawStats(c.UserContext(), body.User, h.LogLimit)
	if err != nil {
		log.Error().Err(err).Str("user", body.User).Msg("fetching user stats failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred while retrieving user data.")
	}
	return c.JSON(stats)
}

func (h *Handler) Statistics(c *fiber.Ctx) error {
	user := c.Params("user")
	if user == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User parameter is required")
	}

	stats, err := h.Repo.Aggregated(c.UserContext(), user)
	if errors.Is(err, ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("fetching user statistics failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred while retrieving user statistics.")
	}
	return c.JSON(stats)
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	d, err := h.Repo.Dashboard(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("fetching dashboard statistics failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred while retrieving dashboard user statistics.")
	}
	return c.JSON(d)
}

func (h *Handler) ActiveUsers(c *fiber.Ctx) error {
	s, err := h.Repo.ActiveSnapshot(c.UserContext(), time.Now())
	if err != nil {
		log.Error().Err(err).Msg("fetching active users failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred while retrieving active users count")
	}
	return c.JSON(fiber.Map{"success": true, "data": s})
}
