// Package outbound implementa el mutador del libro de inventario: aplica
// lotes de salida contra las filas de existencias dentro de una transacción
// y emite la señal de invalidación de caché tras el Commit.
package outbound

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/warehouse-ops/internal/application/dto"
	"github.com/tu-usuario/warehouse-ops/internal/domain"
	"github.com/tu-usuario/warehouse-ops/internal/domain/entity"
	domoutbound "github.com/tu-usuario/warehouse-ops/internal/domain/outbound"
	"github.com/tu-usuario/warehouse-ops/internal/domain/repository"
	"github.com/tu-usuario/warehouse-ops/pkg/logger"
)

// Policy política de procesamiento de un lote. El caller la elige
// explícitamente; las variantes de devolución y traslado fuerzan la estricta.
type Policy string

const (
	// PolicyLenient procesa línea por línea: las inválidas se omiten y se
	// reportan, el resto del lote se confirma ("guardar lo que se pueda").
	PolicyLenient Policy = "lenient"
	// PolicyStrict todo o nada: una sola línea inválida aborta el lote
	// completo sin mutar nada.
	PolicyStrict Policy = "strict"
)

// ApplyBatchUseCase aplica lotes de salida de forma transaccional con
// bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type ApplyBatchUseCase struct {
	txRunner    TxRunner
	invalidator Invalidator
	batchPrefix string
	log         *logger.Logger
}

// NewApplyBatchUseCase construye el caso de uso.
func NewApplyBatchUseCase(txRunner TxRunner, invalidator Invalidator, batchPrefix string, log *logger.Logger) *ApplyBatchUseCase {
	return &ApplyBatchUseCase{
		txRunner:    txRunner,
		invalidator: invalidator,
		batchPrefix: batchPrefix,
		log:         log,
	}
}

// ApplyOutbound aplica un lote de salida normal con la política indicada.
func (uc *ApplyBatchUseCase) ApplyOutbound(ctx context.Context, common entity.OutboundCommon, items []entity.OutboundLine, policy Policy) (*dto.BatchResult, error) {
	if policy != PolicyLenient && policy != PolicyStrict {
		return nil, fmt.Errorf("política %q desconocida: %w", policy, domain.ErrInvalidInput)
	}
	return uc.apply(ctx, common, items, policy, entity.RecordTypeOutbound)
}

// ApplyBackendReturn aplica una devolución de bodega trasera al frente.
// Siempre estricta: una línea inválida aborta el lote completo.
func (uc *ApplyBatchUseCase) ApplyBackendReturn(ctx context.Context, common entity.OutboundCommon, items []entity.OutboundLine) (*dto.BatchResult, error) {
	return uc.apply(ctx, common, items, PolicyStrict, entity.RecordTypeBackendReturn)
}

// ApplyFrontendTransfer aplica un traslado del frente a bodega trasera.
// Siempre estricto.
func (uc *ApplyBatchUseCase) ApplyFrontendTransfer(ctx context.Context, common entity.OutboundCommon, items []entity.OutboundLine) (*dto.BatchResult, error) {
	return uc.apply(ctx, common, items, PolicyStrict, entity.RecordTypeFrontendTransfer)
}

// parsedLine línea ya validada sintácticamente.
type parsedLine struct {
	idx      int // 1-based, para mensajes
	idCode   string
	pallets  int
	packages int
	remarks  string
	err      error // error de validación de la línea, si lo hubo
}

// apply ejecuta el lote dentro de una sola transacción. En política leniente
// las líneas inválidas se acumulan en el resultado y el resto confirma; en
// estricta cualquier problema devuelve error y la transacción queda en
// Rollback. Tras un Commit con líneas guardadas emite el evento de
// invalidación (fire-and-forget).
func (uc *ApplyBatchUseCase) apply(ctx context.Context, common entity.OutboundCommon, items []entity.OutboundLine, policy Policy, recordType string) (*dto.BatchResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	now := time.Now()
	outboundAt := domoutbound.ParseDepartureTime(common.DepartureTime, now)
	result := &dto.BatchResult{
		BatchNumber: domoutbound.BatchNumber(uc.batchPrefix, now),
	}

	lines := parseLines(items)
	if policy == PolicyStrict {
		for _, l := range lines {
			if l.err != nil {
				return nil, fmt.Errorf("línea %d (%s): %w", l.idx, l.idCode, l.err)
			}
		}
	}

	var touched []string
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		recordRepo repository.OutboundRecordRepository,
	) error {
		if policy == PolicyStrict {
			saved, codes, err := uc.applyStrict(stockRepo, recordRepo, common, lines, recordType, result.BatchNumber, outboundAt, now)
			if err != nil {
				return err
			}
			result.SavedCount = saved
			touched = codes
			return nil
		}
		saved, codes, err := uc.applyLenient(stockRepo, recordRepo, common, lines, recordType, result, outboundAt, now)
		if err != nil {
			return err
		}
		result.SavedCount = saved
		touched = codes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aplicar lote %s: %w", result.BatchNumber, err)
	}

	uc.log.Info().
		Str("batch", result.BatchNumber).
		Str("type", recordType).
		Int("saved", result.SavedCount).
		Int("errors", len(result.Errors)).
		Msg("lote de salida confirmado")

	// Señal post-commit; la invalidación es best-effort y no bloquea al caller.
	if result.SavedCount > 0 {
		uc.invalidator.Invalidate(ctx, InvalidationEvent{
			WarehouseID: common.WarehouseID,
			Date:        outboundAt,
			IDCodes:     touched,
		})
	}
	return result, nil
}

// applyStrict valida el lote completo (existencia y disponibilidad, con las
// filas ya bloqueadas) antes de persistir nada. Cada código se consulta una
// sola vez y las líneas repetidas descuentan sobre la misma fila en memoria,
// de modo que la demanda acumulada del lote se valida contra lo disponible.
// Cualquier violación devuelve error y el TxRunner hace Rollback.
func (uc *ApplyBatchUseCase) applyStrict(
	stockRepo repository.StockRepository,
	recordRepo repository.OutboundRecordRepository,
	common entity.OutboundCommon,
	lines []parsedLine,
	recordType, batchNumber string,
	outboundAt, now time.Time,
) (saved int, touched []string, err error) {
	rows := make(map[string]*entity.StockRow, len(lines))
	for _, l := range lines {
		row, ok := rows[l.idCode]
		if !ok {
			row, err = stockRepo.GetByIDCodeForUpdate(l.idCode)
			if err != nil {
				return 0, nil, err
			}
			if row == nil {
				return 0, nil, fmt.Errorf("línea %d (%s): %w", l.idx, l.idCode, domain.ErrStockRowNotFound)
			}
			rows[l.idCode] = row
		}
		if l.pallets > row.Pallets || l.packages > row.Packages {
			return 0, nil, fmt.Errorf("línea %d (%s): solicitado %d/%d, disponible %d/%d: %w",
				l.idx, l.idCode, l.pallets, l.packages, row.Pallets, row.Packages, domain.ErrInsufficientStock)
		}
		row.Pallets -= l.pallets
		row.Packages -= l.packages
	}

	for _, l := range lines {
		row := rows[l.idCode]
		row.UpdatedAt = now
		if err := uc.persistLine(stockRepo, recordRepo, common, l, row, recordType, batchNumber, outboundAt, now); err != nil {
			return 0, nil, err
		}
		saved++
		touched = append(touched, l.idCode)
	}
	return saved, touched, nil
}

// applyLenient procesa línea por línea: parse inválido o código inexistente
// se reportan y se omiten; un retiro mayor al disponible se recorta a cero
// con max(0, actual - solicitado) y se reporta como advertencia. Solo los
// errores de la propia base de datos abortan la transacción.
func (uc *ApplyBatchUseCase) applyLenient(
	stockRepo repository.StockRepository,
	recordRepo repository.OutboundRecordRepository,
	common entity.OutboundCommon,
	lines []parsedLine,
	recordType string,
	result *dto.BatchResult,
	outboundAt, now time.Time,
) (saved int, touched []string, err error) {
	for _, l := range lines {
		if l.err != nil {
			result.Errors = append(result.Errors, dto.LineError{Line: l.idx, IDCode: l.idCode, Reason: l.err.Error()})
			continue
		}
		row, err := stockRepo.GetByIDCodeForUpdate(l.idCode)
		if err != nil {
			return 0, nil, err
		}
		if row == nil {
			result.Errors = append(result.Errors, dto.LineError{Line: l.idx, IDCode: l.idCode, Reason: domain.ErrStockRowNotFound.Error()})
			continue
		}

		newPallets, overP := domoutbound.Clip(row.Pallets, l.pallets)
		newPackages, overK := domoutbound.Clip(row.Packages, l.packages)
		if overP > 0 || overK > 0 {
			warn := fmt.Sprintf("línea %d (%s): retiro mayor al disponible (excedente %d estibas, %d bultos), recortado a cero", l.idx, l.idCode, overP, overK)
			result.Warnings = append(result.Warnings, warn)
			uc.log.Warn().Str("id_code", l.idCode).Int("over_pallets", overP).Int("over_packages", overK).Msg("retiro recortado a cero")
		}
		row.Pallets = newPallets
		row.Packages = newPackages
		row.UpdatedAt = now

		if err := uc.persistLine(stockRepo, recordRepo, common, l, row, recordType, result.BatchNumber, outboundAt, now); err != nil {
			return 0, nil, err
		}
		saved++
		touched = append(touched, l.idCode)
	}
	return saved, touched, nil
}

// persistLine actualiza o elimina la fila de existencias (cero-cero se
// elimina, nunca se guarda en cero) y crea el registro de la línea.
func (uc *ApplyBatchUseCase) persistLine(
	stockRepo repository.StockRepository,
	recordRepo repository.OutboundRecordRepository,
	common entity.OutboundCommon,
	l parsedLine,
	row *entity.StockRow,
	recordType, batchNumber string,
	outboundAt, now time.Time,
) error {
	if row.Exhausted() {
		if err := stockRepo.Delete(row.IDCode); err != nil {
			return err
		}
	} else {
		if err := stockRepo.Update(row); err != nil {
			return err
		}
	}
	return recordRepo.Create(&entity.OutboundLineRecord{
		ID:          uuid.New().String(),
		BatchNumber: batchNumber,
		RecordType:  recordType,
		IDCode:      row.IDCode,
		Customer:    row.Customer,
		Pallets:     l.pallets,
		Packages:    l.packages,
		Weight:      row.Weight,
		Volume:      row.Volume,
		WarehouseID: common.WarehouseID,
		PlateNumber: common.PlateNumber,
		Destination: common.Destination,
		Receiver:    common.Receiver,
		Remarks:     l.remarks,
		OutboundAt:  outboundAt,
		CreatedAt:   now,
		CreatedBy:   common.UserID,
	})
}

// parseLines valida sintácticamente todas las líneas de una vez.
func parseLines(items []entity.OutboundLine) []parsedLine {
	lines := make([]parsedLine, 0, len(items))
	for i, item := range items {
		l := parsedLine{idx: i + 1, idCode: item.IDCode, remarks: item.Remarks}
		if item.IDCode == "" {
			l.err = fmt.Errorf("código de identificación vacío: %w", domain.ErrInvalidInput)
			lines = append(lines, l)
			continue
		}
		pallets, err := domoutbound.ParseQuantity(item.Pallets)
		if err != nil {
			l.err = err
			lines = append(lines, l)
			continue
		}
		packages, err := domoutbound.ParseQuantity(item.Packages)
		if err != nil {
			l.err = err
			lines = append(lines, l)
			continue
		}
		if pallets == 0 && packages == 0 {
			l.err = fmt.Errorf("línea sin cantidades: %w", domain.ErrInvalidInput)
			lines = append(lines, l)
			continue
		}
		l.pallets = pallets
		l.packages = packages
		lines = append(lines, l)
	}
	return lines
}
