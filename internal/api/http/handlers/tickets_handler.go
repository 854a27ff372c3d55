package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-service/internal/api/dto"
	"github.com/spec-kit/support-service/internal/auth"
	"github.com/spec-kit/support-service/internal/domain"
	"github.com/spec-kit/support-service/internal/service"
	apperrors "github.com/spec-kit/support-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal.SubjectID, service.TicketCreateInput{
		Subject:     req.Subject,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.CreateTicketResponse{
		TicketID:    ticket.ID,
		Status:      ticket.Status,
		Priority:    ticket.Priority,
		Category:    ticket.Category,
		SLADeadline: ticket.SLADeadline.UTC().Format(time.RFC3339),
	}})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// UpdateTicket PATCH /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("caller identity required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), principal.SubjectID, service.TicketUpdateInput{
		Status:       req.Status,
		AssignedTo:   req.AssignedTo,
		Response:     req.Response,
		InternalNote: req.InternalNotes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{}
	if v := c.Query("status"); v != "" {
		status := domain.TicketStatus(v)
		filter.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TicketPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("category"); v != "" {
		category := domain.TicketCategory(v)
		filter.Category = &category
	}
	if v := c.Query("userId"); v != "" {
		filter.OwnerID = &v
	}

	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tickets": ticketResponses(tickets),
		"count":   len(tickets),
	}})
}

// ListUserTickets GET /users/:userId/tickets.
func (h *TicketsHandler) ListUserTickets(c *fiber.Ctx) error {
	tickets, err := h.service.ListUserTickets(c.UserContext(), c.Params("userId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"tickets": ticketResponses(tickets),
		"count":   len(tickets),
	}})
}

func ticketResponses(tickets []domain.Ticket) []dto.TicketResponse {
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return items
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		TicketID:            ticket.ID,
		OwnerID:             ticket.OwnerID,
		Subject:             ticket.Subject,
		Description:         ticket.Description,
		Category:            ticket.Category,
		Priority:            ticket.Priority,
		Status:              ticket.Status,
		SLADeadline:         ticket.SLADeadline.UTC().Format(time.RFC3339),
		Escalated:           ticket.Escalated,
		AssignedTo:          ticket.AssignedTo,
		Responses:           threadEntries(ticket.Responses),
		InternalNotes:       threadEntries(ticket.InternalNotes),
		ResponseSuggestions: ticket.ResponseSuggestions,
		CreatedAt:           ticket.CreatedAt,
		UpdatedAt:           ticket.UpdatedAt,
	}
}

func threadEntries(entries []domain.ThreadEntry) []dto.ThreadEntryResponse {
	out := make([]dto.ThreadEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.ThreadEntryResponse{
			Text:      entry.Text,
			Timestamp: entry.Timestamp,
			Author:    entry.Author,
		})
	}
	return out
}
