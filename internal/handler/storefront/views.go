package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukerupert/stshop/internal/domain"
)

// JSON shapes. Money is rendered as a fixed two-decimal string.

type productView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Price       string    `json:"price"`
}

type categoryView struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"image_url,omitempty"`
}

type pageView struct {
	Number     int `json:"number"`
	TotalPages int `json:"total_pages"`
	PageSize   int `json:"page_size"`
}

type cartItemView struct {
	ProductSlug  string `json:"product_slug"`
	ProductTitle string `json:"product_title"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	LineTotal    string `json:"line_total"`
}

type cartView struct {
	ID            uuid.UUID      `json:"id"`
	Items         []cartItemView `json:"items"`
	TotalProducts int            `json:"total_products"`
	FinalPrice    string         `json:"final_price"`
}

type orderView struct {
	ID            uuid.UUID `json:"id"`
	CartID        uuid.UUID `json:"cart_id"`
	Status        string    `json:"status"`
	BuyingType    string    `json:"buying_type"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address,omitempty"`
	Comment       string    `json:"comment,omitempty"`
	OrderDate     string    `json:"order_date"`
	TotalProducts int       `json:"total_products"`
	FinalPrice    string    `json:"final_price"`
	CreatedAt     time.Time `json:"created_at"`
}

type shopView struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone,omitempty"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func newProductView(p domain.Product) productView {
	return productView{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       money(p.Price),
	}
}

func newProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, newProductView(p))
	}
	return out
}

func newCategoryViews(categories []domain.Category) []categoryView {
	out := make([]categoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, categoryView{Name: c.Name, Slug: c.Slug, ImageURL: c.ImageURL})
	}
	return out
}

func newCartView(s *domain.CartSummary) cartView {
	items := make([]cartItemView, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, cartItemView{
			ProductSlug:  item.ProductSlug,
			ProductTitle: item.ProductTitle,
			Quantity:     item.Quantity,
			UnitPrice:    money(item.UnitPrice),
			LineTotal:    money(item.LineTotal),
		})
	}
	return cartView{
		ID:            s.Cart.ID,
		Items:         items,
		TotalProducts: s.TotalProducts,
		FinalPrice:    money(s.FinalPrice),
	}
}

func newOrderView(o *domain.Order) orderView {
	return orderView{
		ID:            o.ID,
		CartID:        o.CartID,
		Status:        string(o.Status),
		BuyingType:    string(o.BuyingType),
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Phone:         o.Phone,
		Address:       o.Address,
		Comment:       o.Comment,
		OrderDate:     o.OrderDate.Format(dateLayout),
		TotalProducts: o.TotalProducts,
		FinalPrice:    money(o.FinalPrice),
		CreatedAt:     o.CreatedAt,
	}
}
