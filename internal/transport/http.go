package transport

import (
	"errors"
	"log/slog"

	"pinpoint-provisioner/internal/app"
	"pinpoint-provisioner/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handler holds all HTTP handlers for the provisioning service.
type Handler struct {
	svc *app.Provisioner
	log *slog.Logger
}

// NewHandler wires up a Handler with its dependencies.
func NewHandler(svc *app.Provisioner, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Register mounts all routes onto the given Fiber router.
func (h *Handler) Register(router fiber.Router) {
	router.Post("/runs", h.CreateRun)
	router.Get("/runs/:id", h.GetRun)
	router.Post("/applications/:id/campaigns", h.LaunchCampaign)
	router.Post("/applications/:id/messages/email", h.SendEmail)
	router.Post("/applications/:id/messages/sms", h.SendSMS)
	router.Get("/applications/:id/analytics", h.GetAnalytics)
	router.Delete("/applications/:id", h.DeleteApplication)
}

// errorStatus maps domain errors onto HTTP status codes. Configuration
// and missing-field problems are the caller's fault; precondition
// failures mean the audience has not been provisioned yet.
func errorStatus(err error) int {
	var (
		cfgErr   *domain.ConfigurationError
		fieldErr *domain.MissingFieldError
		preErr   *domain.PreconditionError
	)
	switch {
	case errors.As(err, &cfgErr), errors.As(err, &fieldErr):
		return fiber.StatusBadRequest
	case errors.As(err, &preErr):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrRunNotFound), errors.Is(err, domain.ErrStateNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, op string, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		h.log.Error(op, "err", err)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// ── Provisioning runs ─────────────────────────────────────────────────────────

type createRunRequest struct {
	ApplicationID   string              `json:"application_id"`
	ApplicationName string              `json:"application_name"`
	Channels        []string            `json:"channels"`
	Fields          []string            `json:"fields"`
	EmailValues     [][]string          `json:"email_values"`
	SMSValues       [][]string          `json:"sms_values"`
	EmailRecords    []map[string]string `json:"email_records"`
	SMSRecords      []map[string]string `json:"sms_records"`
	CSVURL          string              `json:"csv_url"`
}

type runResponse struct {
	RunID           string   `json:"run_id"`
	ApplicationID   string   `json:"application_id"`
	ApplicationName string   `json:"application_name,omitempty"`
	Channels        []string `json:"channels"`
	CSVURL          string   `json:"csv_url"`
	Status          string   `json:"status"`
	BaseSegmentID   string   `json:"base_segment_id,omitempty"`
	EmailSegmentID  string   `json:"email_segment_id,omitempty"`
	SMSSegmentID    string   `json:"sms_segment_id,omitempty"`
	LastError       string   `json:"last_error,omitempty"`
}

// CreateRun accepts an audience and queues a provisioning run.
//
// POST /runs
func (h *Handler) CreateRun(c *fiber.Ctx) error {
	var req createRunRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	run, err := h.svc.CreateRun(c.Context(), app.RunRequest{
		ApplicationID:   req.ApplicationID,
		ApplicationName: req.ApplicationName,
		Channels:        toChannels(req.Channels),
		Fields:          req.Fields,
		EmailValues:     req.EmailValues,
		SMSValues:       req.SMSValues,
		EmailRecords:    req.EmailRecords,
		SMSRecords:      req.SMSRecords,
		CSVURL:          req.CSVURL,
	})
	if err != nil {
		return h.fail(c, "create run", err)
	}

	return c.Status(fiber.StatusCreated).JSON(toRunResponse(run))
}

// GetRun returns a run's current status and provisioned segment ids.
//
// GET /runs/:id
func (h *Handler) GetRun(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "run id must be a valid UUID"})
	}

	run, err := h.svc.GetRun(c.Context(), id)
	if err != nil {
		return h.fail(c, "get run", err)
	}

	return c.JSON(toRunResponse(*run))
}

// ── Campaigns ─────────────────────────────────────────────────────────────────

type campaignMessageRequest struct {
	Email *struct {
		Body        string `json:"body"`
		FromAddress string `json:"from_address"`
		HTMLBody    string `json:"html_body"`
		Title       string `json:"title"`
	} `json:"email"`
	SMS *struct {
		Body        string `json:"body"`
		MessageType string `json:"message_type"`
		SenderID    string `json:"sender_id"`
	} `json:"sms"`
}

type templateRefRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type launchCampaignRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	IsPaused    bool                   `json:"is_paused"`
	SegmentID   string                 `json:"segment_id"`
	StartTime   string                 `json:"start_time"`
	Channels    []string               `json:"channels"`
	Messages    campaignMessageRequest `json:"messages"`
	Templates   struct {
		Email *templateRefRequest `json:"email"`
		SMS   *templateRefRequest `json:"sms"`
	} `json:"templates"`
}

// LaunchCampaign composes and creates a campaign on the application.
//
// POST /applications/:id/campaigns
func (h *Handler) LaunchCampaign(c *fiber.Ctx) error {
	var req launchCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if len(req.Channels) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "channels are required"})
	}

	spec := domain.CampaignSpec{
		Name:        req.Name,
		Description: req.Description,
		IsPaused:    req.IsPaused,
		SegmentID:   req.SegmentID,
		Schedule:    domain.Schedule{StartTime: req.StartTime},
	}
	if req.Messages.Email != nil {
		spec.Messages.Email = &domain.EmailMessage{
			Body:        req.Messages.Email.Body,
			FromAddress: req.Messages.Email.FromAddress,
			HTMLBody:    req.Messages.Email.HTMLBody,
			Title:       req.Messages.Email.Title,
		}
	}
	if req.Messages.SMS != nil {
		spec.Messages.SMS = &domain.SMSMessage{
			Body:        req.Messages.SMS.Body,
			MessageType: req.Messages.SMS.MessageType,
			SenderID:    req.Messages.SMS.SenderID,
		}
	}
	if req.Templates.Email != nil {
		spec.Templates.Email = &domain.TemplateRef{Name: req.Templates.Email.Name, Version: req.Templates.Email.Version}
	}
	if req.Templates.SMS != nil {
		spec.Templates.SMS = &domain.TemplateRef{Name: req.Templates.SMS.Name, Version: req.Templates.SMS.Version}
	}

	campaignID, err := h.svc.LaunchCampaign(c.Context(), c.Params("id"), toChannels(req.Channels), spec)
	if err != nil {
		return h.fail(c, "launch campaign", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"campaign_id": campaignID})
}

// ── Transactional messages ────────────────────────────────────────────────────

type sendEmailRequest struct {
	Sender   string `json:"sender"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	TextBody string `json:"text_body"`
	HTMLBody string `json:"html_body"`
}

// SendEmail sends one direct email through the application.
//
// POST /applications/:id/messages/email
func (h *Handler) SendEmail(c *fiber.Ctx) error {
	var req sendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id, err := h.svc.SendTransactionalEmail(c.Context(), c.Params("id"), domain.TransactionalEmail{
		Sender:   req.Sender,
		To:       req.To,
		Subject:  req.Subject,
		TextBody: req.TextBody,
		HTMLBody: req.HTMLBody,
	})
	if err != nil {
		return h.fail(c, "send email", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message_id": id})
}

type sendSMSRequest struct {
	To                string `json:"to"`
	Body              string `json:"body"`
	MessageType       string `json:"message_type"`
	OriginationNumber string `json:"origination_number"`
	Keyword           string `json:"keyword"`
	SenderID          string `json:"sender_id"`
}

// SendSMS sends one direct SMS through the application.
//
// POST /applications/:id/messages/sms
func (h *Handler) SendSMS(c *fiber.Ctx) error {
	var req sendSMSRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	id, err := h.svc.SendTransactionalSMS(c.Context(), c.Params("id"), domain.TransactionalSMS{
		To:                req.To,
		Body:              req.Body,
		MessageType:       req.MessageType,
		OriginationNumber: req.OriginationNumber,
		Keyword:           req.Keyword,
		SenderID:          req.SenderID,
	})
	if err != nil {
		return h.fail(c, "send sms", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message_id": id})
}

// ── Applications ──────────────────────────────────────────────────────────────

// GetAnalytics aggregates every known KPI for the application.
//
// GET /applications/:id/analytics
func (h *Handler) GetAnalytics(c *fiber.Ctx) error {
	report, err := h.svc.ApplicationAnalytics(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "get analytics", err)
	}
	return c.JSON(report)
}

// DeleteApplication removes the application and its channels.
//
// DELETE /applications/:id
func (h *Handler) DeleteApplication(c *fiber.Ctx) error {
	if err := h.svc.DeleteApplications(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, "delete application", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toChannels(names []string) []domain.ChannelType {
	channels := make([]domain.ChannelType, len(names))
	for i, name := range names {
		channels[i] = domain.ChannelType(name)
	}
	return channels
}

func toRunResponse(run domain.ProvisioningRun) runResponse {
	channels := make([]string, len(run.Channels))
	for i, ch := range run.Channels {
		channels[i] = string(ch)
	}
	return runResponse{
		RunID:           run.ID.String(),
		ApplicationID:   run.ApplicationID,
		ApplicationName: run.ApplicationName,
		Channels:        channels,
		CSVURL:          run.CSVURL,
		Status:          string(run.Status),
		BaseSegmentID:   run.Resources.BaseSegmentID,
		EmailSegmentID:  run.Resources.EmailDynamicSegmentID,
		SMSSegmentID:    run.Resources.SMSDynamicSegmentID,
		LastError:       run.LastError,
	}
}
