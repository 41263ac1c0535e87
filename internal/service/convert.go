package service

import (
	"github.com/dukerupert/stshop/internal/domain"
	"github.com/dukerupert/stshop/internal/repository"
)

func toDomainCart(c repository.Cart) *domain.Cart {
	return &domain.Cart{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		SessionToken:  c.SessionToken.String,
		TotalProducts: int(c.TotalProducts),
		FinalPrice:    c.FinalPrice,
		InOrder:       c.InOrder,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toDomainLineItems(rows []repository.CartLineItem) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, domain.LineItem{
			ID:        r.ID,
			CartID:    r.CartID,
			ProductID: r.ProductID,
			Quantity:  int(r.Quantity),
			UnitPrice: r.UnitPrice,
			LineTotal: r.LineTotal,
		})
	}
	return items
}

func toDomainOrder(o repository.Order) *domain.Order {
	return &domain.Order{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CartID:        o.CartID,
		FirstName:     o.FirstName,
		LastName:      o.LastName,
		Phone:         o.Phone,
		Address:       o.Address.String,
		BuyingType:    domain.BuyingType(o.BuyingType),
		Status:        domain.OrderStatus(o.Status),
		Comment:       o.Comment.String,
		OrderDate:     o.OrderDate,
		TotalProducts: int(o.TotalProducts),
		FinalPrice:    o.FinalPrice,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toDomainProduct(p repository.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description.String,
		ImageURL:    p.ImageUrl.String,
		Price:       p.Price,
	}
}

func toDomainProducts(rows []repository.Product) []domain.Product {
	products := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		products = append(products, toDomainProduct(p))
	}
	return products
}

func toDomainCategory(c repository.Category) domain.Category {
	return domain.Category{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		ImageURL: c.ImageUrl.String,
	}
}

func toDomainCustomer(c repository.Customer) *domain.Customer {
	return &domain.Customer{
		ID:           c.ID,
		Username:     c.Username,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Phone:        c.Phone.String,
		Address:      c.Address.String,
		CreatedAt:    c.CreatedAt,
	}
}
