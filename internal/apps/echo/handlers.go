package echo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/dto"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/identity"
	"github.com/ahmetcoskunkizilkaya/echo-journal/internal/journal"
)

type JournalHandler struct {
	sessions *SessionStore
	insights *InsightsService
	taxonomy journal.Taxonomy
}

func NewJournalHandler(sessions *SessionStore, insights *InsightsService) *JournalHandler {
	return &JournalHandler{sessions: sessions, insights: insights}
}

func (h *JournalHandler) Taxonomy(c *fiber.Ctx) error {
	resp := TaxonomyResponse{}
	for _, category := range h.taxonomy.Categories() {
		emotions, err := h.taxonomy.SpecificEmotionsFor(category)
		if err != nil {
			return h.fail(c, err)
		}
		resp.Categories = append(resp.Categories, CategoryResponse{Category: category, Emotions: emotions})
	}
	return c.JSON(resp)
}

// CategoryEmotions lists the specific labels of one primary category.
func (h *JournalHandler) CategoryEmotions(c *fiber.Ctx) error {
	category := journal.Category(c.Params("category"))
	emotions, err := h.taxonomy.SpecificEmotionsFor(category)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(CategoryResponse{Category: category, Emotions: emotions})
}

func (h *JournalHandler) Prompt(c *fiber.Ctx) error {
	return c.JSON(PromptResponse{Prompt: journal.RandomPrompt(), Tip: journal.RandomTip()})
}

func (h *JournalHandler) EnterSession(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctrl := h.sessions.Enter(userID)
	return c.JSON(newSessionResponse(ctrl.Draft()))
}

func (h *JournalHandler) GetSession(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	return c.JSON(newSessionResponse(h.sessions.Get(userID).Draft()))
}

func (h *JournalHandler) LeaveSession(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	h.sessions.Leave(userID)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *JournalHandler) ToggleEmotion(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req ToggleEmotionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	draft, err := h.sessions.Get(userID).ToggleEmotion(req.Emotion)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(newSessionResponse(draft))
}

func (h *JournalHandler) SetIntensities(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req SetIntensitiesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	ctrl := h.sessions.Get(userID)
	if err := ctrl.CheckStep(journal.StepIntensityRating); err != nil {
		return h.fail(c, err)
	}

	// Validate every value before applying any so a bad request changes nothing.
	var scratch journal.Intensities
	for name, value := range req {
		if err := scratch.Set(journal.Dimension(name), value); err != nil {
			return h.fail(c, err)
		}
	}

	draft := ctrl.Draft()
	for _, d := range journal.Dimensions {
		value, ok := req[string(d)]
		if !ok {
			continue
		}
		if draft, err = ctrl.SetIntensity(d, value); err != nil {
			return h.fail(c, err)
		}
	}
	return c.JSON(newSessionResponse(draft))
}

func (h *JournalHandler) SetText(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	var req SetTextRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c)
	}

	draft, err := h.sessions.Get(userID).SetText(req.Text)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(newSessionResponse(draft))
}

func (h *JournalHandler) Next(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	draft, err := h.sessions.Get(userID).Next()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(newSessionResponse(draft))
}

func (h *JournalHandler) Back(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	draft, abandoned := h.sessions.Get(userID).Back()
	resp := newSessionResponse(draft)
	resp.Abandoned = abandoned
	return c.JSON(resp)
}

func (h *JournalHandler) SaveDraft(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entry, err := h.sessions.Get(userID).SubmitDraft(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *JournalHandler) Submit(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	ctx := c.UserContext()
	entry, err := h.sessions.Get(userID).SubmitFinal(ctx)
	if err != nil {
		return h.fail(c, err)
	}

	// The entry is already saved; a failed annotation is retried via PUT .../insights.
	insights, err := h.insights.AttachInsights(ctx, userID, entry.ID)
	if err != nil {
		slog.Warn("attach insights failed", "entry_id", entry.ID.String(), "user_id", userID.String(), "error", err)
	} else if raw, err := json.Marshal(insights); err == nil {
		entry.Insights = datatypes.JSON(raw)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (h *JournalHandler) ListEntries(c *fiber.Ctx) error {
	return h.list(c, false)
}

func (h *JournalHandler) ListDrafts(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *JournalHandler) list(c *fiber.Ctx, drafts bool) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	resp, err := h.insights.ListEntries(c.UserContext(), userID, drafts, limit, offset)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *JournalHandler) Insights(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	window, err := strconv.Atoi(c.Query("window", "0"))
	if err != nil {
		return h.fail(c, ErrInvalidWindow)
	}

	summary, err := h.insights.Summary(c.UserContext(), userID, window)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(summary)
}

func (h *JournalHandler) Calendar(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	month, err := strconv.Atoi(c.Query("month", "0"))
	if err != nil {
		return h.fail(c, ErrInvalidMonth)
	}
	year, err := strconv.Atoi(c.Query("year", "0"))
	if err != nil || year < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid year",
		})
	}

	resp, err := h.insights.Calendar(c.UserContext(), userID, month, year)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

func (h *JournalHandler) AttachInsights(c *fiber.Ctx) error {
	userID, err := identity.GetUserID(c)
	if err != nil {
		return unauthorized(c)
	}

	entryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid entry ID",
		})
	}

	insights, err := h.insights.AttachInsights(c.UserContext(), userID, entryID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(insights)
}

// fail maps journal errors to HTTP responses.
func (h *JournalHandler) fail(c *fiber.Ctx, err error) error {
	var perr *journal.PersistenceError
	switch {
	case errors.As(err, &perr):
		slog.Error("journal persistence failed", "action", perr.Op, "path", c.Path(), "error", perr.Err)
		captureException(c, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Could not save your journal right now. Please try again.", Retryable: true,
		})
	case errors.Is(err, journal.ErrUnknownCategory):
		slog.Error("unknown emotion category requested", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, journal.ErrEntryNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, journal.ErrWrongStep):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, journal.ErrNoEmotionsSelected), errors.Is(err, journal.ErrEmptyText):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, journal.ErrValidation), errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrInvalidMonth):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusRequestTimeout).JSON(dto.ErrorResponse{
			Error: true, Message: "Request cancelled", Retryable: true,
		})
	}

	slog.Error("journal request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func captureException(c *fiber.Ctx, err error) {
	hub := sentryfiber.GetHubFromContext(c)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}
