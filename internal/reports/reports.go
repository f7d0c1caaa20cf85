// Package reports renders per-user activity statistics as downloadable PDFs.
package reports

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/rs/zerolog/log"

	"github.com/seddikfer4/Mcdial/internal/users"
)

type Handler struct {
	Users *users.Repo
}

func (h *Handler) UserReport(c *fiber.Ctx) error {
	user := c.Params("user")

	stats, err := h.Users.Aggregated(c.UserContext(), user)
	if errors.Is(err, users.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("building user report failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	pdf, err := BuildUserPDF(user, stats)
	if err != nil {
		log.Error().Err(err).Str("user", user).Msg("rendering user report failed")
		return fiber.NewError(fiber.StatusInternalServerError, "An error occurred, please try again later.")
	}

	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="user-%s-report.pdf"`, user))
	return c.Send(pdf)
}

func BuildUserPDF(user string, stats *users.Statistics) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Agent Activity Report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Agent Activity Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	fullName, _ := stats.UserInfo["full_name"].(string)
	pdf.Cell(0, 8, fmt.Sprintf("User: %s", user))
	pdf.Ln(6)
	if fullName != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Name: %s", fullName))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Calls")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	row := func(label, value string) {
		pdf.Cell(80, 7, label)
		pdf.Cell(60, 7, value)
		pdf.Ln(7)
	}
	row("Total calls", fmt.Sprintf("%d", stats.CallStats.TotalCalls))
	row("Successful calls", fmt.Sprintf("%d", stats.CallStats.SuccessfulCalls))
	if stats.CallStats.AvgCallDuration != nil {
		row("Average duration", fmt.Sprintf("%.1f s", *stats.CallStats.AvgCallDuration))
	}
	if stats.CallStats.LongestCall != nil {
		row("Longest call", fmt.Sprintf("%d s", *stats.CallStats.LongestCall))
	}
	if stats.CallStats.ShortestCall != nil {
		row("Shortest call", fmt.Sprintf("%d s", *stats.CallStats.ShortestCall))
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Closer Calls")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	row("Total closer calls", fmt.Sprintf("%d", stats.CloserStats.TotalCloserCalls))
	row("Successful closer calls", fmt.Sprintf("%d", stats.CloserStats.SuccessfulCloserCalls))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Sessions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	row("Login events", fmt.Sprintf("%d", stats.UserLogStats.TotalUserLogEntries))
	if stats.UserLogStats.FirstLogin != nil {
		row("First login", stats.UserLogStats.FirstLogin.Format("2006-01-02 15:04:05"))
	}
	if stats.UserLogStats.LastLogin != nil {
		row("Last login", stats.UserLogStats.LastLogin.Format("2006-01-02 15:04:05"))
	}
	row("Timeclock entries", fmt.Sprintf("%d", stats.TimeclockStats.TotalTimeclockEntries))
	row("Timeclock logins", fmt.Sprintf("%d", stats.TimeclockStats.TotalLogins))
	row("Timeclock logouts", fmt.Sprintf("%d", stats.TimeclockStats.TotalLogouts))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
