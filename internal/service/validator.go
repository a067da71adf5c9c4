package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"pricebench/internal/model"

	"github.com/go-playground/validator/v10"
)

const (
	minQuantity = 1
	maxQuantity = 100
)

// OrderValidator checks the shape of an inbound order and normalises it.
type OrderValidator struct {
	validate *validator.Validate
}

// NewOrderValidator creates a validator that reports fields by their JSON names.
func NewOrderValidator() *OrderValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &OrderValidator{validate: v}
}

// Validate returns the customer id and line items of req, or a
// *model.ValidationError naming the first offending field.
func (v *OrderValidator) Validate(req *model.OrderRequest) (int64, []model.OrderLineItem, error) {
	if req == nil {
		return 0, nil, &model.ValidationError{
			Field:   "body",
			Rule:    "required",
			Message: "order request is required",
		}
	}

	if err := v.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return 0, nil, toValidationError(fieldErrs[0])
		}
		return 0, nil, fmt.Errorf("failed to validate order request: %w", err)
	}

	items := make([]model.OrderLineItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = model.OrderLineItem{
			ProductID: *item.ProductID,
			Quantity:  *item.Quantity,
		}
	}

	return *req.CustomerID, items, nil
}

func toValidationError(fe validator.FieldError) *model.ValidationError {
	field := fieldPath(fe)

	switch {
	case fe.Field() == "items" && (fe.Tag() == "required" || fe.Tag() == "min"):
		return &model.ValidationError{
			Field:   field,
			Rule:    "min",
			Limit:   "1",
			Message: "order must contain at least one item",
		}
	case fe.Field() == "quantity" && (fe.Tag() == "min" || fe.Tag() == "max"):
		return &model.ValidationError{
			Field:   field,
			Rule:    fe.Tag(),
			Limit:   fe.Param(),
			Message: fmt.Sprintf("quantity must be between %d and %d", minQuantity, maxQuantity),
		}
	case fe.Tag() == "required":
		return &model.ValidationError{
			Field:   field,
			Rule:    "required",
			Message: fmt.Sprintf("%s is required", field),
		}
	default:
		return &model.ValidationError{
			Field:   field,
			Rule:    fe.Tag(),
			Limit:   fe.Param(),
			Message: fmt.Sprintf("%s is invalid", field),
		}
	}
}

// fieldPath strips the struct name from the namespace: items[0].quantity.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// DecodeValidationError converts a JSON type mismatch, such as a string
// customerId, into a *model.ValidationError. Any other decode failure yields
// nil and should be reported as invalid JSON.
func DecodeValidationError(err error) *model.ValidationError {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return nil
	}

	field := typeErr.Field
	if field == "" {
		field = "body"
	}

	return &model.ValidationError{
		Field:   field,
		Rule:    "type",
		Limit:   typeErr.Type.String(),
		Message: fmt.Sprintf("%s is malformed: expected %s, got %s", field, typeErr.Type, typeErr.Value),
	}
}
