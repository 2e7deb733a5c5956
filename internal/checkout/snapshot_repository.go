package checkout

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/andeshop/storefront-go/internal/cart"
)

// SnapshotRepository keeps the submitted line items keyed by the upstream
// order ID, for later reference after the cart has been cleared.
type SnapshotRepository interface {
	Save(ctx context.Context, orderID, customerID string, lines []cart.Line) error
	Get(ctx context.Context, orderID string) ([]cart.Line, error)
}

type snapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepo{db: db}
}

func (r *snapshotRepo) Save(ctx context.Context, orderID, customerID string, lines []cart.Line) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO order_snapshots (order_id, customer_id, created_at)
         VALUES ($1, $2, NOW())
         ON CONFLICT (order_id) DO NOTHING`,
		orderID, customerID,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	for i, l := range lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_snapshot_items (id, order_id, position, product_id, name, unit_price, quantity)
             VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			uuid.NewString(), orderID, i, l.ProductID, l.Name, l.UnitPrice, l.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Get(ctx context.Context, orderID string) ([]cart.Line, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, unit_price, quantity
         FROM order_snapshot_items WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select snapshot items: %w", err)
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var l cart.Line
		if err := rows.Scan(&l.ProductID, &l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan snapshot item: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}
