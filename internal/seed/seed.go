// Package seed loads the demo catalog into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"

	"github.com/prathmeshnaik91/skinet/internal/domain"
)

//go:embed data/catalog.yaml
var catalogYAML []byte

// Catalog is the seed document.
type Catalog struct {
	Brands   []domain.ProductBrand `yaml:"brands"`
	Types    []domain.ProductType  `yaml:"types"`
	Products []Product             `yaml:"products"`
}

type Product struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	PictureURL  string `yaml:"pictureUrl"`
	TypeID      int    `yaml:"typeId"`
	BrandID     int    `yaml:"brandId"`
}

// DB is the subset of *pgxpool.Pool the seeder needs.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// LoadCatalog parses the embedded catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(catalogYAML)
}

// ParseCatalog parses a seed document and checks that every product refers
// to a known brand and type.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse seed catalog: %w", err)
	}

	brands := make(map[int]bool, len(c.Brands))
	for _, b := range c.Brands {
		brands[b.ID] = true
	}
	types := make(map[int]bool, len(c.Types))
	for _, t := range c.Types {
		types[t.ID] = true
	}
	for _, p := range c.Products {
		if !brands[p.BrandID] {
			return nil, fmt.Errorf("seed product %d: unknown brand %d", p.ID, p.BrandID)
		}
		if !types[p.TypeID] {
			return nil, fmt.Errorf("seed product %d: unknown type %d", p.ID, p.TypeID)
		}
	}
	return &c, nil
}

// Seed inserts c into every catalog table that is still empty. Tables that
// already hold rows are left alone, so running it twice is harmless.
func Seed(ctx context.Context, db DB, c *Catalog, l *slog.Logger) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	steps := []struct {
		table string
		rows  int
		fn    func() error
	}{
		{"product_brands", len(c.Brands), func() error {
			for _, b := range c.Brands {
				if _, err := tx.Exec(ctx, `INSERT INTO product_brands (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, b.ID, b.Name); err != nil {
					return err
				}
			}
			return nil
		}},
		{"product_types", len(c.Types), func() error {
			for _, t := range c.Types {
				if _, err := tx.Exec(ctx, `INSERT INTO product_types (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, t.ID, t.Name); err != nil {
					return err
				}
			}
			return nil
		}},
		{"products", len(c.Products), func() error {
			for _, p := range c.Products {
				if _, err := tx.Exec(ctx, `INSERT INTO products
					(id, name, description, price, picture_url, product_type_id, product_brand_id)
					VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING`,
					p.ID, p.Name, p.Description, p.Price, p.PictureURL, p.TypeID, p.BrandID); err != nil {
					return err
				}
			}
			return nil
		}},
	}

	for _, step := range steps {
		var populated bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM "+step.table+")").Scan(&populated); err != nil {
			return fmt.Errorf("check %s: %w", step.table, err)
		}
		if populated {
			l.DebugContext(ctx, "seed skipped, table not empty", slog.String("table", step.table))
			continue
		}

		if err := step.fn(); err != nil {
			return fmt.Errorf("seed %s: %w", step.table, err)
		}
		// Explicit ids bypass the serial; move it past them.
		if _, err := tx.Exec(ctx, "SELECT setval(pg_get_serial_sequence('"+step.table+"', 'id'), (SELECT MAX(id) FROM "+step.table+"))"); err != nil {
			return fmt.Errorf("resync %s sequence: %w", step.table, err)
		}
		l.InfoContext(ctx, "seeded table", slog.String("table", step.table), slog.Int("rows", step.rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
