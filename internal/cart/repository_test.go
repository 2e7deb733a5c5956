package cart

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestRepositoryGet_NoCart(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, updated_at FROM carts WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "updated_at"}))

	repo := NewRepository(db)
	c, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Nil(t, c)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGet_WithLines(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, updated_at FROM carts WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "updated_at"}).AddRow("c1", "u1", now))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT product_id, name, unit_price, quantity, stock, promotional
         FROM cart_lines WHERE cart_id = $1 ORDER BY position`)).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "name", "unit_price", "quantity", "stock", "promotional"}).
			AddRow("p1", "Widget", 100.0, 2, 5, false).
			AddRow("p2", "Gadget", 3.25, 1, 9, true))

	repo := NewRepository(db)
	c, err := repo.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, "c1", c.ID)
	require.Len(t, c.Lines, 2)
	require.Equal(t, Line{ProductID: "p1", Name: "Widget", UnitPrice: 100, Quantity: 2, Stock: 5}, c.Lines[0])
	require.True(t, c.Lines[1].Promotional)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	c := &Cart{
		ID:     "c1",
		UserID: "u1",
		Lines: []Line{
			{ProductID: "p1", Name: "Widget", UnitPrice: 100, Quantity: 2, Stock: 5},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO carts (id, user_id, updated_at)`)).
		WithArgs("c1", "u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "updated_at"}).AddRow("c1", time.Now()))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM cart_lines WHERE cart_id = $1`)).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO cart_lines`))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO cart_lines`)).
		WithArgs(sqlmock.AnyArg(), "c1", 0, "p1", "Widget", 100.0, 2, 5, false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewRepository(db)
	require.NoError(t, repo.Upsert(context.Background(), c))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryClear(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM carts WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewRepository(db)
	require.NoError(t, repo.Clear(context.Background(), "u1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
