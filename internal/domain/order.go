package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. Status is deliberately free text beyond these two: the
// admin can overwrite it with anything from the status-update action.
const (
	OrderStatusPending  = "pending"
	OrderStatusApproved = "Approved"
)

// Delivery periods and their lead time in days.
const (
	DeliveryExpress  = "express"
	DeliveryStandard = "standard"
	DeliveryEconomy  = "economy"
)

// DeliveryDays returns the lead time for a delivery period; unknown or
// empty periods fall back to standard.
func DeliveryDays(period string) int {
	switch period {
	case DeliveryExpress:
		return 2
	case DeliveryEconomy:
		return 10
	default:
		return 5
	}
}

// OrderItem is a frozen snapshot of a cart line at order time. Later
// product edits never touch it.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Discount  int       `json:"discount"`
	Color     string    `json:"color,omitempty"`
}

// Order is an immutable record of a checkout. Amounts are USD.
type Order struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"userId"`
	CustomerName     string      `json:"customerName"`
	CustomerPhone    string      `json:"customerPhone"`
	CustomerAddress  string      `json:"customerAddress"`
	PaymentReference string      `json:"paymentReference"`
	Items            []OrderItem `json:"items"`
	Subtotal         float64     `json:"subtotal"`
	Tax              float64     `json:"tax"`
	Total            float64     `json:"total"`
	Status           string      `json:"status"`
	PaymentVerified  bool        `json:"paymentVerified"`
	DeliveryPeriod   string      `json:"deliveryPeriod,omitempty"`
	OrderDate        time.Time   `json:"orderDate"`
	ApprovedDate     *time.Time  `json:"approvedDate,omitempty"`
}

// ExpectedDelivery is the order date plus the delivery period lead time.
func (o Order) ExpectedDelivery() time.Time {
	return o.OrderDate.AddDate(0, 0, DeliveryDays(o.DeliveryPeriod))
}

// CartLine is one cart row, identified by (ProductID, Color). Name, Price,
// Image and Discount are the snapshot captured at add time; readers
// re-resolve them from the live product so the cart tracks catalog edits,
// keeping the stored copy only as a fallback for deleted products.
type CartLine struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	Color     string    `json:"color,omitempty"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Image     string    `json:"image"`
	Discount  int       `json:"discount"`
}
