package consumables

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inei-oti/activos-backend/internal/errs"
	"github.com/inei-oti/activos-backend/internal/infra/db"
)

type PostgresStore struct{ pool *pgxpool.Pool }

func NewPostgres(pool *pgxpool.Pool) *PostgresStore { return &PostgresStore{pool: pool} }

const stockQuery = `
	SELECT COALESCE(SUM(CASE movement_type
		WHEN 'IN' THEN quantity
		WHEN 'OUT' THEN -quantity
		ELSE quantity
	END), 0)
	FROM consumable_movements
	WHERE item_id=$1`

func (s *PostgresStore) WithItemLock(ctx context.Context, itemID int64, fn func(ops Ops) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var locked int64
	err = tx.QueryRow(ctx, `SELECT id FROM consumable_items WHERE id=$1 FOR UPDATE`, itemID).Scan(&locked)
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	if err != nil {
		return err
	}

	if err := fn(&pgItemOps{tx: tx}); err != nil {
		return err
	}
	return db.TranslateConstraint(tx.Commit(ctx))
}

func (s *PostgresStore) Stock(ctx context.Context, itemID int64) (int64, error) {
	var stock int64
	err := s.pool.QueryRow(ctx, stockQuery, itemID).Scan(&stock)
	return stock, err
}

func (s *PostgresStore) Item(ctx context.Context, itemID int64) (*Item, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(sku,''), unit, min_stock, is_active FROM consumable_items WHERE id=$1
	`, itemID)
	var it Item
	if err := row.Scan(&it.ID, &it.Name, &it.SKU, &it.Unit, &it.MinStock, &it.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

type pgItemOps struct{ tx pgx.Tx }

const movementColumns = `id, item_id, movement_type, quantity, unit_cost, reason, COALESCE(reference,''), created_at, created_by`

func scanMovement(row pgx.Row) (*Movement, error) {
	var m Movement
	err := row.Scan(&m.ID, &m.ItemID, &m.Type, &m.Quantity, &m.UnitCost, &m.Reason, &m.Reference, &m.CreatedAt, &m.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (o *pgItemOps) Stock(ctx context.Context, itemID int64) (int64, error) {
	var stock int64
	err := o.tx.QueryRow(ctx, stockQuery, itemID).Scan(&stock)
	return stock, err
}

func (o *pgItemOps) Get(ctx context.Context, movementID int64) (*Movement, error) {
	row := o.tx.QueryRow(ctx, `SELECT `+movementColumns+` FROM consumable_movements WHERE id=$1`, movementID)
	m, err := scanMovement(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func (o *pgItemOps) Insert(ctx context.Context, m Movement) (*Movement, error) {
	row := o.tx.QueryRow(ctx, `
		INSERT INTO consumable_movements (item_id, movement_type, quantity, unit_cost, reason, reference, created_by)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7)
		RETURNING `+movementColumns+`
	`, m.ItemID, m.Type, m.Quantity, m.UnitCost, m.Reason, m.Reference, m.CreatedBy)
	out, err := scanMovement(row)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return out, nil
}

func (o *pgItemOps) Update(ctx context.Context, m Movement) (*Movement, error) {
	row := o.tx.QueryRow(ctx, `
		UPDATE consumable_movements
		SET movement_type=$2, quantity=$3, unit_cost=$4, reason=$5, reference=NULLIF($6,'')
		WHERE id=$1
		RETURNING `+movementColumns+`
	`, m.ID, m.Type, m.Quantity, m.UnitCost, m.Reason, m.Reference)
	out, err := scanMovement(row)
	if err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return out, nil
}

/* Item catalog */

func (s *PostgresStore) CreateItem(ctx context.Context, it Item) (*Item, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO consumable_items (name, sku, unit, min_stock, is_active)
		VALUES ($1,NULLIF($2,''),$3,$4,TRUE)
		RETURNING id, name, COALESCE(sku,''), unit, min_stock, is_active
	`, it.Name, it.SKU, it.Unit, it.MinStock)
	var out Item
	if err := row.Scan(&out.ID, &out.Name, &out.SKU, &out.Unit, &out.MinStock, &out.IsActive); err != nil {
		return nil, db.TranslateConstraint(err)
	}
	return &out, nil
}

// ListItems returns items with their computed stock and low-stock flag.
func (s *PostgresStore) ListItems(ctx context.Context, onlyActive bool) ([]ItemWithStock, error) {
	q := `
		SELECT i.id, i.name, COALESCE(i.sku,''), i.unit, i.min_stock, i.is_active,
			COALESCE(SUM(CASE m.movement_type
				WHEN 'IN' THEN m.quantity
				WHEN 'OUT' THEN -m.quantity
				ELSE m.quantity
			END), 0) AS stock
		FROM consumable_items i
		LEFT JOIN consumable_movements m ON m.item_id = i.id
	`
	if onlyActive {
		q += ` WHERE i.is_active`
	}
	q += ` GROUP BY i.id ORDER BY i.name`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemWithStock
	for rows.Next() {
		var it ItemWithStock
		if err := rows.Scan(&it.ID, &it.Name, &it.SKU, &it.Unit, &it.MinStock, &it.IsActive, &it.CurrentStock); err != nil {
			return nil, err
		}
		it.LowStock = it.CurrentStock <= it.MinStock
		out = append(out, it)
	}
	return out, rows.Err()
}

// Kardex lists the item's movements newest-first.
func (s *PostgresStore) Kardex(ctx context.Context, itemID int64) ([]Movement, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+movementColumns+`
		FROM consumable_movements
		WHERE item_id=$1
		ORDER BY created_at DESC, id DESC
	`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}
