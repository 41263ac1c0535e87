package email

// EmailTemplate defines the interface for email templates
type EmailTemplate interface {
	Subject() string
	TemplateName() string
}

// OrderPlacedEmail is the shop manager's notification of a new order.
type OrderPlacedEmail struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Phone         string
	BuyingType    string
	Address       string
	Comment       string
	OrderDate     string
	TotalProducts int
	FinalPrice    string
}

func (e OrderPlacedEmail) Subject() string {
	return "New order " + e.OrderID
}

func (e OrderPlacedEmail) TemplateName() string {
	return "order_placed.html"
}

// IsDelivery reports whether the order must be delivered rather than picked up.
func (e OrderPlacedEmail) IsDelivery() bool {
	return e.BuyingType == "delivery"
}
