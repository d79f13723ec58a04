package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore implements Store on a plain products table for deployments
// that would rather self-host than depend on Firestore.
//
// Schema:
//
//	CREATE TABLE products (
//	  id             TEXT PRIMARY KEY,
//	  name           TEXT NOT NULL,
//	  price          BIGINT NOT NULL,
//	  original_price BIGINT NOT NULL,
//	  description    TEXT NOT NULL DEFAULT '',
//	  category       TEXT NOT NULL,
//	  sizes          TEXT[] NOT NULL DEFAULT '{}',
//	  colors         JSONB NOT NULL DEFAULT '[]',
//	  images         TEXT[] NOT NULL DEFAULT '{}',
//	  features       TEXT[] NOT NULL DEFAULT '{}',
//	  rating         DOUBLE PRECISION NOT NULL DEFAULT 0,
//	  reviews        INT NOT NULL DEFAULT 0,
//	  created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	  updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
type PostgresStore struct{ db *sql.DB }

func NewPostgresStore(db *sql.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Insert(ctx context.Context, p Product) (string, error) {
	id := uuid.NewString()
	colors, err := json.Marshal(p.Colors)
	if err != nil {
		return "", err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, name, price, original_price, description, category, sizes, colors, images, features, rating, reviews)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		id, p.Name, p.Price, p.OriginalPrice, p.Description, p.Category,
		pq.Array(p.Sizes), colors, pq.Array(p.Images), pq.Array(p.Features),
		p.Rating, p.Reviews)
	if err != nil {
		return "", err
	}
	return id, nil
}

const productColumns = `id, name, price, original_price, description, category,
	sizes, colors, images, features, rating, reviews, created_at, updated_at`

func scanProduct(scan func(...interface{}) error) (Product, error) {
	var p Product
	var colors []byte
	err := scan(&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Description, &p.Category,
		pq.Array(&p.Sizes), &colors, pq.Array(&p.Images), pq.Array(&p.Features),
		&p.Rating, &p.Reviews, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if len(colors) > 0 {
		if err := json.Unmarshal(colors, &p.Colors); err != nil {
			return Product{}, err
		}
	}
	return p, nil
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id)
	p, err := scanProduct(row.Scan)
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (s *PostgresStore) Update(ctx context.Context, id string, patch Patch) error {
	set := []string{"updated_at=NOW()"}
	args := []interface{}{}
	n := 1
	add := func(col string, v interface{}) {
		set = append(set, fmt.Sprintf("%s=$%d", col, n))
		args = append(args, v)
		n++
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Price != nil {
		add("price", *patch.Price)
	}
	if patch.OriginalPrice != nil {
		add("original_price", *patch.OriginalPrice)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Sizes != nil {
		add("sizes", pq.Array(patch.Sizes))
	}
	if patch.Colors != nil {
		colors, err := json.Marshal(patch.Colors)
		if err != nil {
			return err
		}
		add("colors", colors)
	}
	if patch.Images != nil {
		add("images", pq.Array(patch.Images))
	}
	if patch.Features != nil {
		add("features", pq.Array(patch.Features))
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	if patch.Reviews != nil {
		add("reviews", *patch.Reviews)
	}

	query := "UPDATE products SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE id=$%d", n)
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}
