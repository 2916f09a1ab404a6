package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/warehouse-ops/internal/application/dto"
	"github.com/tu-usuario/warehouse-ops/internal/application/outbound"
	"github.com/tu-usuario/warehouse-ops/internal/domain"
	"github.com/tu-usuario/warehouse-ops/internal/domain/entity"
)

// OutboundHandler maneja las peticiones HTTP del motor de salidas.
type OutboundHandler struct {
	uc *outbound.ApplyBatchUseCase
}

// NewOutboundHandler construye el handler.
func NewOutboundHandler(uc *outbound.ApplyBatchUseCase) *OutboundHandler {
	return &OutboundHandler{uc: uc}
}

// ApplyBatch aplica un lote de salida.
// POST /api/outbound/batches
func (h *OutboundHandler) ApplyBatch(c *fiber.Ctx) error {
	in, common, items, errResp := parseBatchBody(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}

	policy := outbound.PolicyLenient
	if in.Policy == string(outbound.PolicyStrict) {
		policy = outbound.PolicyStrict
	}

	result, err := h.uc.ApplyOutbound(c.Context(), common, items, policy)
	return respondBatch(c, result, err)
}

// ApplyBackendReturn aplica una devolución de bodega trasera (siempre estricta).
// POST /api/outbound/backend-returns
func (h *OutboundHandler) ApplyBackendReturn(c *fiber.Ctx) error {
	_, common, items, errResp := parseBatchBody(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	result, err := h.uc.ApplyBackendReturn(c.Context(), common, items)
	return respondBatch(c, result, err)
}

// ApplyFrontendTransfer aplica un traslado al frente (siempre estricto).
// POST /api/outbound/frontend-transfers
func (h *OutboundHandler) ApplyFrontendTransfer(c *fiber.Ctx) error {
	_, common, items, errResp := parseBatchBody(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(*errResp)
	}
	result, err := h.uc.ApplyFrontendTransfer(c.Context(), common, items)
	return respondBatch(c, result, err)
}

func parseBatchBody(c *fiber.Ctx) (dto.OutboundBatchRequest, entity.OutboundCommon, []entity.OutboundLine, *dto.ErrorResponse) {
	var in dto.OutboundBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return in, entity.OutboundCommon{}, nil, &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	common := entity.OutboundCommon{
		WarehouseID:   in.WarehouseID,
		PlateNumber:   in.PlateNumber,
		Destination:   in.Destination,
		Receiver:      in.Receiver,
		DepartureTime: in.DepartureTime,
		UserID:        c.Get("X-User-ID"),
	}
	items := make([]entity.OutboundLine, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OutboundLine{
			IDCode:        it.IDCode,
			Pallets:       it.Pallets,
			Packages:      it.Packages,
			Remarks:       it.Remarks,
			DocumentCount: it.DocumentCount,
		})
	}
	return in, common, items, nil
}

func respondBatch(c *fiber.Ctx, result *dto.BatchResult, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyBatch), errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrStockRowNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
		case errors.Is(err, domain.ErrInsufficientStock):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error al aplicar el lote"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
