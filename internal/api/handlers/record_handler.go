package handlers

import (
	"errors"

	"spendo/internal/dto"
	"spendo/internal/models"
	"spendo/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecordHandler struct {
	recordService *service.RecordService
	logger        *zap.Logger
}

func NewRecordHandler(recordService *service.RecordService, logger *zap.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		logger:        logger,
	}
}

// ListRecords godoc
// @Summary List all records
// @Description Returns every expense and savings record, newest date first
// @Tags records
// @Produce json
// @Success 200 {array} dto.RecordResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/Expenses [get]
func (h *RecordHandler) ListRecords(c *fiber.Ctx) error {
	records, err := h.recordService.List(c.Context())
	if err != nil {
		h.logger.Error("Error fetching records", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error fetching records", err)
	}

	return c.JSON(dto.NewRecordResponses(records))
}

// CreateRecord godoc
// @Summary Create a record
// @Description Create an expense or savings record
// @Tags records
// @Accept json
// @Produce json
// @Param request body dto.CreateRecordRequest true "Record"
// @Success 201 {object} dto.RecordResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/Expenses [post]
func (h *RecordHandler) CreateRecord(c *fiber.Ctx) error {
	var req dto.CreateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Error creating record", err)
	}

	record, err := h.recordService.Create(c.Context(), &req)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.Is(err, service.ErrMissingFields):
			return c.Status(fiber.StatusBadRequest).JSON(dto.MessageResponse{Message: "All fields required"})
		case errors.As(err, &verr):
			return respondError(c, fiber.StatusBadRequest, "Error creating record", err)
		}
		h.logger.Error("Error creating record", zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error creating record", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewRecordResponse(record))
}

// GetRecord godoc
// @Summary Get a record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} dto.RecordResponse
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/Expenses/{id} [get]
func (h *RecordHandler) GetRecord(c *fiber.Ctx) error {
	record, err := h.recordService.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return notFound(c)
		}
		h.logger.Error("Error fetching record", zap.String("id", c.Params("id")), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error fetching record", err)
	}

	return c.JSON(dto.NewRecordResponse(record))
}

// UpdateRecord godoc
// @Summary Update a record
// @Description Applies the given fields to the record and re-validates it
// @Tags records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param request body dto.UpdateRecordRequest true "Fields to change"
// @Success 200 {object} dto.RecordResponse
// @Failure 400 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Router /api/Expenses/{id} [put]
func (h *RecordHandler) UpdateRecord(c *fiber.Ctx) error {
	var req dto.UpdateRecordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "Error updating record", err)
	}

	record, err := h.recordService.Update(c.Context(), c.Params("id"), &req)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			return notFound(c)
		case errors.As(err, &verr):
			return respondError(c, fiber.StatusBadRequest, "Error updating record", err)
		}
		h.logger.Error("Error updating record", zap.String("id", c.Params("id")), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error updating record", err)
	}

	return c.JSON(dto.NewRecordResponse(record))
}

// DeleteRecord godoc
// @Summary Delete a record
// @Tags records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.MessageResponse
// @Failure 500 {object} dto.MessageResponse
// @Router /api/Expenses/{id} [delete]
func (h *RecordHandler) DeleteRecord(c *fiber.Ctx) error {
	if err := h.recordService.Delete(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			return notFound(c)
		}
		h.logger.Error("Error deleting record", zap.String("id", c.Params("id")), zap.Error(err))
		return respondError(c, fiber.StatusInternalServerError, "Error deleting record", err)
	}

	return c.JSON(dto.MessageResponse{Message: "Record deleted successfully"})
}

// Health godoc
// @Summary Health check
// @Description Reports whether the record store is reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} dto.MessageResponse
// @Router /health [get]
func (h *RecordHandler) Health(c *fiber.Ctx) error {
	if err := h.recordService.Ping(c.Context()); err != nil {
		h.logger.Warn("Store ping failed", zap.Error(err))
		return respondError(c, fiber.StatusServiceUnavailable, "Store unavailable", err)
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

func respondError(c *fiber.Ctx, status int, message string, err error) error {
	return c.Status(status).JSON(dto.MessageResponse{
		Message: message,
		Error:   err.Error(),
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.MessageResponse{Message: "Record not found"})
}
