package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatusConfirmed is stored on every persisted order.
const OrderStatusConfirmed = "CONFIRMED"

// OrderLineItem is a normalised line of an order. Quantity is within [1, 100].
type OrderLineItem struct {
	ProductID int64 `json:"productId" db:"product_id"`
	Quantity  int   `json:"quantity" db:"quantity"`
}

// OrderCalculation is the rounded monetary breakdown of an order.
type OrderCalculation struct {
	TotalAmount    float64 `json:"totalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	TaxAmount      float64 `json:"taxAmount"`
	FinalAmount    float64 `json:"finalAmount"`
}

// Order is the persisted record of a priced order.
type Order struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	CustomerID     int64           `json:"customerId" db:"customer_id"`
	TotalAmount    float64         `json:"totalAmount" db:"total_amount"`
	DiscountAmount float64         `json:"discountAmount" db:"discount_amount"`
	TaxAmount      float64         `json:"taxAmount" db:"tax_amount"`
	FinalAmount    float64         `json:"finalAmount" db:"final_amount"`
	Status         string          `json:"status" db:"status"`
	Items          []OrderLineItem `json:"items"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// OrderRequest is the raw inbound payload. Pointer fields distinguish absent
// values from zero values.
type OrderRequest struct {
	CustomerID *int64             `json:"customerId" validate:"required"`
	Items      []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemRequest is a single raw line item.
type OrderItemRequest struct {
	ProductID *int64 `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required,min=1,max=100"`
}

// OrderResult is returned by the order service after a successful persist.
type OrderResult struct {
	OrderID     uuid.UUID
	CustomerID  int64
	Calculation OrderCalculation
}

// OrderResponse is the success payload of the process-order endpoint.
type OrderResponse struct {
	OrderID          uuid.UUID `json:"orderId"`
	CustomerID       int64     `json:"customerId"`
	TotalAmount      float64   `json:"totalAmount"`
	DiscountApplied  float64   `json:"discountApplied"`
	TaxAmount        float64   `json:"taxAmount"`
	FinalAmount      float64   `json:"finalAmount"`
	ProcessingTimeMs float64   `json:"processingTimeMs"`
	Status           string    `json:"status"`
}
