package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	catalogerrors "github.com/abgdnv/shoecatalog/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const selectProducts = `SELECT sku, name, price, available, description FROM products`

// PgStore implements ProductStore using PostgreSQL as the data store.
type PgStore struct {
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of ProductStore using a PostgreSQL connection pool.
func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	return p.Find(ctx, Query{})
}

func (p *PgStore) Find(ctx context.Context, q Query) ([]Product, error) {
	sql, args := pgSelect(q)
	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, storeError("find products", err)
	}
	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[Product])
	if err != nil {
		return nil, storeError("scan products", err)
	}
	if products == nil {
		products = []Product{}
	}
	return products, nil
}

// FindBySKU retrieves a product by its sku.
// Returns ErrProductNotFound if no product exists with the given sku.
func (p *PgStore) FindBySKU(ctx context.Context, sku int64) (*Product, error) {
	rows, err := p.db.Query(ctx, selectProducts+` WHERE sku = $1`, sku)
	if err != nil {
		return nil, storeError("find product by sku", err)
	}
	product, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalogerrors.ErrProductNotFound
		}
		return nil, storeError("find product by sku", err)
	}
	return &product, nil
}

// Insert adds a new product. The primary key on sku is the uniqueness authority.
func (p *PgStore) Insert(ctx context.Context, product Product) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO products (sku, name, price, available, description) VALUES ($1, $2, $3, $4, $5)`,
		product.SKU, product.Name, product.Price, product.Available, product.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return catalogerrors.ErrDuplicateSKU
		}
		return storeError("insert product", err)
	}
	return nil
}

func (p *PgStore) ReplaceBySKU(ctx context.Context, sku int64, product Product) error {
	tag, err := p.db.Exec(ctx,
		`UPDATE products SET name = $2, price = $3, available = $4, description = $5 WHERE sku = $1`,
		sku, product.Name, product.Price, product.Available, product.Description)
	if err != nil {
		return storeError("replace product", err)
	}
	if tag.RowsAffected() == 0 {
		return catalogerrors.ErrProductNotFound
	}
	return nil
}

func (p *PgStore) DeleteBySKU(ctx context.Context, sku int64) (bool, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM products WHERE sku = $1`, sku)
	if err != nil {
		return false, storeError("delete product", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (p *PgStore) Ping(ctx context.Context) error {
	if err := p.db.Ping(ctx); err != nil {
		return storeError("ping postgres", err)
	}
	return nil
}

// pgSelect builds a parameterised SELECT for the query.
func pgSelect(q Query) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if q.Price != nil {
		where = append(where, fmt.Sprintf("price BETWEEN %s AND %s", arg(q.Price.Min), arg(q.Price.Max)))
	}
	if q.Available != nil {
		where = append(where, "available = "+arg(*q.Available))
	}
	if q.Name != "" {
		where = append(where, fmt.Sprintf("strpos(lower(name), lower(%s)) > 0", arg(q.Name)))
	}

	var b strings.Builder
	b.WriteString(selectProducts)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	switch q.Sort {
	case SortBySKU:
		b.WriteString(" ORDER BY sku")
	case SortByPrice:
		b.WriteString(" ORDER BY price, sku")
	}
	return b.String(), args
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
