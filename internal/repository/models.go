package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	ImageUrl  pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID          uuid.UUID
	CategoryID  uuid.UUID
	Title       string
	TitleLower  string
	Slug        string
	Description pgtype.Text
	ImageUrl    pgtype.Text
	Price       decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Shop struct {
	ID      uuid.UUID
	Name    string
	Address string
	Phone   string
}

type InfoSection struct {
	ID       uuid.UUID
	Page     string
	Title    string
	Body     string
	Position int32
}

type Customer struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        pgtype.Text
	Address      pgtype.Text
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Session struct {
	Token      string
	CustomerID uuid.UUID
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type Cart struct {
	ID            uuid.UUID
	OwnerID       uuid.NullUUID
	SessionToken  pgtype.Text
	TotalProducts int32
	FinalPrice    decimal.Decimal
	InOrder       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CartLineItem struct {
	ID         uuid.UUID
	CartID     uuid.UUID
	CustomerID uuid.NullUUID
	ProductID  uuid.UUID
	Quantity   int32
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Order struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	CartID        uuid.UUID
	FirstName     string
	LastName      string
	Phone         string
	Address       pgtype.Text
	BuyingType    string
	Status        string
	Comment       pgtype.Text
	OrderDate     time.Time
	TotalProducts int32
	FinalPrice    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Review struct {
	ID        uuid.UUID
	Title     string
	Name      string
	Phone     string
	Email     string
	Body      string
	CreatedAt time.Time
}

type Job struct {
	ID             uuid.UUID
	JobType        string
	Queue          string
	Payload        []byte
	Status         string
	Priority       int32
	RetryCount     int32
	MaxRetries     int32
	TimeoutSeconds int32
	ScheduledAt    time.Time
	WorkerID       pgtype.Text
	StartedAt      pgtype.Timestamptz
	CompletedAt    pgtype.Timestamptz
	ErrorMessage   pgtype.Text
	CreatedAt      time.Time
}
