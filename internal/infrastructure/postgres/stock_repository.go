package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/warehouse-ops/internal/domain/entity"
	"github.com/tu-usuario/warehouse-ops/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de existencias. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `id_code, customer, pallets, packages, weight, volume, warehouse_id, updated_at`

// GetByIDCode obtiene la fila por código de identificación; nil si no existe.
func (r *StockRepo) GetByIDCode(idCode string) (*entity.StockRow, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_rows WHERE id_code = $1`
	return r.scanOne(query, idCode, "get stock row")
}

// GetByIDCodeForUpdate obtiene la fila y la bloquea para update (SELECT FOR UPDATE).
func (r *StockRepo) GetByIDCodeForUpdate(idCode string) (*entity.StockRow, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock_rows WHERE id_code = $1
		FOR UPDATE`
	return r.scanOne(query, idCode, "get stock row for update")
}

func (r *StockRepo) scanOne(query, idCode, op string) (*entity.StockRow, error) {
	var s entity.StockRow
	err := r.q.QueryRow(context.Background(), query, idCode).Scan(
		&s.IDCode, &s.Customer, &s.Pallets, &s.Packages,
		&s.Weight, &s.Volume, &s.WarehouseID, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Update persiste las cantidades mutadas de la fila.
func (r *StockRepo) Update(row *entity.StockRow) error {
	query := `
		UPDATE stock_rows
		SET pallets = $2, packages = $3, updated_at = $4
		WHERE id_code = $1`
	_, err := r.q.Exec(context.Background(), query,
		row.IDCode, row.Pallets, row.Packages, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock row: %w", err)
	}
	return nil
}

// Delete elimina la fila agotada (estibas y bultos en cero nunca se guardan).
func (r *StockRepo) Delete(idCode string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM stock_rows WHERE id_code = $1`, idCode)
	if err != nil {
		return fmt.Errorf("delete stock row: %w", err)
	}
	return nil
}
