package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tu-usuario/warehouse-ops/internal/domain"
	"github.com/tu-usuario/warehouse-ops/internal/domain/entity"
	"github.com/tu-usuario/warehouse-ops/internal/domain/repository"
)

var _ repository.OutboundRecordRepository = (*OutboundRecordRepo)(nil)

// OutboundRecordRepo implementación sobre PostgreSQL (usable con pool o tx).
type OutboundRecordRepo struct {
	q Querier
}

// NewOutboundRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutboundRecordRepository(q Querier) *OutboundRecordRepo {
	return &OutboundRecordRepo{q: q}
}

// Create persiste el registro de una línea de salida.
func (r *OutboundRecordRepo) Create(record *entity.OutboundLineRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	query := `
		INSERT INTO outbound_records (
			id, batch_number, record_type, id_code, customer, pallets, packages,
			weight, volume, warehouse_id, plate_number, destination, receiver,
			remarks, outbound_at, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	createdBy := (*string)(nil)
	if record.CreatedBy != "" {
		createdBy = &record.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.BatchNumber, record.RecordType, record.IDCode, record.Customer,
		record.Pallets, record.Packages, record.Weight, record.Volume, record.WarehouseID,
		record.PlateNumber, record.Destination, record.Receiver, record.Remarks,
		record.OutboundAt, record.CreatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create outbound record %s: %w", record.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("create outbound record: %w", err)
	}
	return nil
}
