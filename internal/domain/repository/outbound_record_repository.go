package repository

import "github.com/tu-usuario/warehouse-ops/internal/domain/entity"

// OutboundRecordRepository puerto de persistencia del registro de líneas de
// salida (una fila por línea procesada del lote).
type OutboundRecordRepository interface {
	Create(record *entity.OutboundLineRecord) error
}
