package model

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error            string         `json:"error"`
	Message          string         `json:"message"`
	Status           string         `json:"status"`
	Details          map[string]any `json:"details,omitempty"`
	ProcessingTimeMs float64        `json:"processingTimeMs"`
	CorrelationID    string         `json:"correlationId,omitempty"`
}

// Response status values.
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeCustomerNotFound     = "CUSTOMER_NOT_FOUND"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeCreditLimitExceeded  = "CREDIT_LIMIT_EXCEEDED"
	ErrCodeRegionalVerification = "REGIONAL_VERIFICATION_REQUIRED"
	ErrCodePersistence          = "PERSISTENCE_ERROR"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeInvalidParameter     = "INVALID_PARAMETER"
)

// DomainError is implemented by every error the order pipeline returns on
// purpose. Code is the category reported to callers.
type DomainError interface {
	error
	Code() string
	Details() map[string]any
}

// ValidationError reports a malformed or out-of-range request field.
type ValidationError struct {
	Field   string
	Rule    string
	Limit   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Code returns the error category.
func (e *ValidationError) Code() string { return ErrCodeValidation }

// Details returns the offending field and, when relevant, the violated limit.
func (e *ValidationError) Details() map[string]any {
	d := map[string]any{"field": e.Field}
	if e.Rule != "" {
		d["rule"] = e.Rule
	}
	if e.Limit != "" {
		d["limit"] = e.Limit
	}
	return d
}

// CustomerNotFoundError reports an unknown customer identifier.
type CustomerNotFoundError struct {
	CustomerID int64
}

func (e *CustomerNotFoundError) Error() string {
	return fmt.Sprintf("customer not found: %d", e.CustomerID)
}

// Code returns the error category.
func (e *CustomerNotFoundError) Code() string { return ErrCodeCustomerNotFound }

// Details names the missing customer.
func (e *CustomerNotFoundError) Details() map[string]any {
	return map[string]any{"customerId": e.CustomerID}
}

// ProductNotFoundError reports a product identifier missing from the catalogue.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// Code returns the error category.
func (e *ProductNotFoundError) Code() string { return ErrCodeProductNotFound }

// Details names the missing product.
func (e *ProductNotFoundError) Details() map[string]any {
	return map[string]any{"productId": e.ProductID}
}

// OrderNotFoundError reports an order identifier with no stored record.
type OrderNotFoundError struct {
	OrderID uuid.UUID
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order not found: %s", e.OrderID)
}

// Code returns the error category.
func (e *OrderNotFoundError) Code() string { return ErrCodeOrderNotFound }

// Details names the missing order.
func (e *OrderNotFoundError) Details() map[string]any {
	return map[string]any{"orderId": e.OrderID.String()}
}

// CreditLimitExceededError is returned when the final amount is above the
// customer's credit limit.
type CreditLimitExceededError struct {
	CustomerID  int64
	FinalAmount float64
	CreditLimit float64
}

func (e *CreditLimitExceededError) Error() string {
	return fmt.Sprintf("order amount %s exceeds customer credit limit %s",
		formatAmount(e.FinalAmount), formatAmount(e.CreditLimit))
}

// Code returns the error category.
func (e *CreditLimitExceededError) Code() string { return ErrCodeCreditLimitExceeded }

// Details carries both amounts.
func (e *CreditLimitExceededError) Details() map[string]any {
	return map[string]any{
		"customerId":  e.CustomerID,
		"finalAmount": e.FinalAmount,
		"creditLimit": e.CreditLimit,
	}
}

// RegionalVerificationRequiredError is returned for orders that need a manual
// check before they can be accepted in the customer's region.
type RegionalVerificationRequiredError struct {
	Region      Region
	TotalAmount float64
	Threshold   float64
}

func (e *RegionalVerificationRequiredError) Error() string {
	return fmt.Sprintf("%s orders over %s require additional verification",
		e.Region, formatAmount(e.Threshold))
}

// Code returns the error category.
func (e *RegionalVerificationRequiredError) Code() string { return ErrCodeRegionalVerification }

// Details carries the region, the order total and the threshold it crossed.
func (e *RegionalVerificationRequiredError) Details() map[string]any {
	return map[string]any{
		"region":      string(e.Region),
		"totalAmount": e.TotalAmount,
		"threshold":   e.Threshold,
	}
}

// PersistenceError wraps a storage failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Code returns the error category.
func (e *PersistenceError) Code() string { return ErrCodePersistence }

// Details names the failed operation.
func (e *PersistenceError) Details() map[string]any {
	return map[string]any{"operation": e.Op}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
