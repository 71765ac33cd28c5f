package http

import (
	"github.com/gofiber/fiber/v2"

	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/application/dto"
)

// PublicHandler atiende el enlace público de captura. Sin autenticación: el
// token de compartir en la URL es la credencial (o el ID del conteo; ambas
// formas resuelven por el mismo camino).
type PublicHandler struct {
	uc *appcounting.EntryUseCase
}

// NewPublicHandler construye el handler público.
func NewPublicHandler(uc *appcounting.EntryUseCase) *PublicHandler {
	return &PublicHandler{uc: uc}
}

// Resolve godoc
// @Summary      Resolver conteo por token de compartir o ID
// @Tags         public
// @Produce      json
// @Param        ref  path  string  true  "Share token o ID del conteo"
// @Success      200  {object}  dto.CountingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/countings/{ref} [get]
func (h *PublicHandler) Resolve(c *fiber.Ctx) error {
	out, err := h.uc.Resolve(c.Context(), c.Params("ref"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CountItem godoc
// @Summary      Registrar cantidad contada de un ítem
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        ref     path  string  true  "Share token o ID del conteo"
// @Param        itemId  path  string  true  "ID del ítem"
// @Param        body    body  dto.CountItemRequest  true  "Cantidad y notas"
// @Success      200     {object}  dto.CountingItemResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/public/countings/{ref}/items/{itemId} [put]
func (h *PublicHandler) CountItem(c *fiber.Ctx) error {
	var in dto.CountItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CountItem(c.Context(), c.Params("ref"), c.Params("itemId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Finalize godoc
// @Summary      Finalizar el conteo (todos los ítems capturados)
// @Tags         public
// @Produce      json
// @Param        ref  path  string  true  "Share token o ID del conteo"
// @Success      200  {object}  dto.CountingResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/public/countings/{ref}/finalize [post]
func (h *PublicHandler) Finalize(c *fiber.Ctx) error {
	out, err := h.uc.Finalize(c.Context(), c.Params("ref"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
