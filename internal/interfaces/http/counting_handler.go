package http

import (
	"github.com/gofiber/fiber/v2"

	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/application/dto"
)

// CountingHandler maneja las peticiones autenticadas sobre conteos.
type CountingHandler struct {
	uc        *appcounting.CountingUseCase
	approveUC *appcounting.ApproveUseCase
	reportUC  *appcounting.ReportUseCase
}

// NewCountingHandler construye el handler.
func NewCountingHandler(uc *appcounting.CountingUseCase, approveUC *appcounting.ApproveUseCase, reportUC *appcounting.ReportUseCase) *CountingHandler {
	return &CountingHandler{uc: uc, approveUC: approveUC, reportUC: reportUC}
}

// Create godoc
// @Summary      Crear conteo
// @Tags         countings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCountingRequest  true  "Datos del conteo"
// @Success      201   {object}  dto.CountingResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/countings [post]
func (h *CountingHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCountingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Name == "" || len(in.SectorIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name y sector_ids son requeridos"})
	}
	out, err := h.uc.Create(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar conteos de la empresa
// @Tags         countings
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.CountingListResponse
// @Router       /api/countings [get]
func (h *CountingHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), GetCompanyID(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener conteo con sus ítems
// @Tags         countings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/countings/{id} [get]
func (h *CountingHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar conteo completado y publicar movimientos de ajuste
// @Tags         countings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {object}  dto.CountingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/countings/{id}/approve [post]
func (h *CountingHandler) Approve(c *fiber.Ctx) error {
	out, err := h.approveUC.Approve(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Descargar el acta de conteo en PDF
// @Tags         countings
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/countings/{id}/report [get]
func (h *CountingHandler) Report(c *fiber.Ctx) error {
	pdfBytes, err := h.reportUC.Generate(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="acta-conteo.pdf"`)
	return c.Send(pdfBytes)
}

// Movements godoc
// @Summary      Movimientos publicados por la aprobación del conteo
// @Tags         countings
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del conteo"
// @Success      200  {array}   dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/countings/{id}/movements [get]
func (h *CountingHandler) Movements(c *fiber.Ctx) error {
	out, err := h.uc.Movements(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
