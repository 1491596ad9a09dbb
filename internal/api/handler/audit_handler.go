package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vertexlab/identity-api/internal/core/ports"
)

// AuditHandler exposes read access to the audit trail.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List returns every audit record, newest first.
//
// @Summary      List audit records
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.AuditRecord
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	records, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// ListMine returns the calling user's audit records, newest first.
//
// @Summary      List my audit records
// @Tags         logs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.AuditRecord
// @Failure      401  {object}  errorResponse
// @Router       /logs/mine [get]
func (h *AuditHandler) ListMine(c echo.Context) error {
	username, _, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	records, err := h.service.ListByUsername(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}
