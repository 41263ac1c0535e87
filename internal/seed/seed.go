// Package seed loads catalog data, shops and info page sections from a JSON
// document into an empty database.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
)

//go:embed sample.json
var sample []byte

// Data is the seed document.
type Data struct {
	Categories []Category `json:"categories"`
	Shops      []Shop     `json:"shops"`
	Sections   []Section  `json:"sections"`
}

type Category struct {
	Name     string    `json:"name"`
	Slug     string    `json:"slug"`
	ImageURL string    `json:"image_url"`
	Products []Product `json:"products"`
}

type Product struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
}

type Shop struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type Section struct {
	Page  string `json:"page"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Result counts the inserted rows.
type Result struct {
	Categories int
	Products   int
	Shops      int
	Sections   int
}

// Writer is the slice of the repository seeding needs.
type Writer interface {
	CreateCategory(ctx context.Context, arg repository.CreateCategoryParams) (repository.Category, error)
	CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error)
	CreateShop(ctx context.Context, arg repository.CreateShopParams) (repository.Shop, error)
	CreateInfoSection(ctx context.Context, arg repository.CreateInfoSectionParams) (repository.InfoSection, error)
}

// Sample returns the bundled demo data.
func Sample() (Data, error) {
	return Decode(bytes.NewReader(sample))
}

// Decode reads and validates a seed document.
func Decode(r io.Reader) (Data, error) {
	var data Data
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return Data{}, fmt.Errorf("decode seed data: %w", err)
	}
	if err := data.validate(); err != nil {
		return Data{}, err
	}
	return data, nil
}

func (d Data) validate() error {
	slugs := make(map[string]bool)
	for _, c := range d.Categories {
		if c.Name == "" || c.Slug == "" {
			return fmt.Errorf("category %q: name and slug are required", c.Slug)
		}
		for _, p := range c.Products {
			if p.Title == "" || p.Slug == "" {
				return fmt.Errorf("product %q: title and slug are required", p.Slug)
			}
			if slugs[p.Slug] {
				return fmt.Errorf("product %q: duplicate slug", p.Slug)
			}
			if p.Price.IsNegative() {
				return fmt.Errorf("product %q: price must not be negative", p.Slug)
			}
			slugs[p.Slug] = true
		}
	}
	for _, s := range d.Sections {
		if !domain.IsInfoPage(s.Page) {
			return fmt.Errorf("section %q: unknown page %q", s.Title, s.Page)
		}
	}
	return nil
}

// Load inserts data through w. Run it inside Store.InTx so a failure leaves
// nothing behind.
func Load(ctx context.Context, w Writer, data Data) (Result, error) {
	var res Result

	for _, c := range data.Categories {
		category, err := w.CreateCategory(ctx, repository.CreateCategoryParams{
			Name:     c.Name,
			Slug:     c.Slug,
			ImageUrl: optional(c.ImageURL),
		})
		if err != nil {
			return res, fmt.Errorf("create category %s: %w", c.Slug, err)
		}
		res.Categories++

		for _, p := range c.Products {
			_, err := w.CreateProduct(ctx, repository.CreateProductParams{
				CategoryID:  category.ID,
				Title:       p.Title,
				Slug:        p.Slug,
				Description: optional(p.Description),
				ImageUrl:    optional(p.ImageURL),
				Price:       p.Price.Round(2),
			})
			if err != nil {
				return res, fmt.Errorf("create product %s: %w", p.Slug, err)
			}
			res.Products++
		}
	}

	for _, s := range data.Shops {
		if _, err := w.CreateShop(ctx, repository.CreateShopParams{Name: s.Name, Address: s.Address, Phone: s.Phone}); err != nil {
			return res, fmt.Errorf("create shop %s: %w", s.Name, err)
		}
		res.Shops++
	}

	for i, s := range data.Sections {
		_, err := w.CreateInfoSection(ctx, repository.CreateInfoSectionParams{
			Page:     s.Page,
			Title:    s.Title,
			Body:     s.Body,
			Position: int32(i),
		})
		if err != nil {
			return res, fmt.Errorf("create section %s: %w", s.Title, err)
		}
		res.Sections++
	}

	return res, nil
}

func optional(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
