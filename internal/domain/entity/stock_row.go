package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRow representa un parcial (cliente + código de identificación) en
// existencia dentro de una bodega. Invariante: una fila con Pallets == 0 y
// Packages == 0 no existe — el motor de salidas la elimina en lugar de
// guardarla en cero.
type StockRow struct {
	IDCode      string // código de identificación, clave de negocio única
	Customer    string
	Pallets     int // ≥ 0
	Packages    int // ≥ 0
	Weight      decimal.Decimal
	Volume      decimal.Decimal
	WarehouseID string
	UpdatedAt   time.Time
}

// Exhausted indica si la fila quedó sin existencias y debe eliminarse.
func (s *StockRow) Exhausted() bool {
	return s.Pallets == 0 && s.Packages == 0
}
