package repository

import "github.com/tu-usuario/warehouse-ops/internal/domain/entity"

// StockRepository puerto para consultar/mutar filas de existencias por
// código de identificación. El motor de salidas lo usa siempre dentro de
// una transacción.
type StockRepository interface {
	// GetByIDCode devuelve la fila o nil si el código no existe.
	GetByIDCode(idCode string) (*entity.StockRow, error)
	// GetByIDCodeForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetByIDCodeForUpdate(idCode string) (*entity.StockRow, error)
	Update(row *entity.StockRow) error
	// Delete elimina la fila; se invoca cuando estibas y bultos llegan a cero.
	Delete(idCode string) error
}
