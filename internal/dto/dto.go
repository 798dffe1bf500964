// dto.go
package dto

import "storefront-checkout/internal/model"

// CheckoutRequest es el formulario de checkout. Los campos del cliente no llevan
// binding: los revisa el validador para devolver todos los errores juntos.
type CheckoutRequest struct {
	CartID         string      `json:"cartId" binding:"required"`
	Customer       CustomerDTO `json:"customer"`
	Shipping       ShippingDTO `json:"shipping"`
	ShippingMethod string      `json:"shippingMethod" binding:"omitempty,oneof=standard express"`
	PaymentMethod  string      `json:"paymentMethod"`
	PromoCode      string      `json:"promoCode"`
}

type CustomerDTO struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// ShippingDTO para la dirección de entrega
type ShippingDTO struct {
	StreetAddress string `json:"streetAddress"`
	Apartment     string `json:"apartment"`
	City          string `json:"city"`
	Department    string `json:"department"`
}

// ToDraft arma el borrador con los items actuales del carrito.
func (r CheckoutRequest) ToDraft(items []model.CartItem) model.OrderDraft {
	method := model.ShippingMethod(r.ShippingMethod)
	if method == "" {
		method = model.ShippingStandard
	}
	return model.OrderDraft{
		Customer: model.CustomerInfo{
			FullName: r.Customer.FullName,
			Email:    r.Customer.Email,
			Phone:    r.Customer.Phone,
		},
		Address: model.ShippingAddress{
			City:       r.Shipping.City,
			Department: r.Shipping.Department,
			Street:     r.Shipping.StreetAddress,
			Apartment:  r.Shipping.Apartment,
		},
		ShippingMethod: method,
		PaymentMethod:  model.PaymentMethod(r.PaymentMethod),
		PromoCode:      r.PromoCode,
		Items:          items,
	}
}

type CheckoutResponse struct {
	State       string       `json:"state"`
	Order       *model.Order `json:"order,omitempty"`
	RedirectURL string       `json:"redirectUrl,omitempty"`
}

// ValidationErrorResponse lleva todos los campos con error y el primero para enfocar.
type ValidationErrorResponse struct {
	Error      string            `json:"error"`
	Fields     map[string]string `json:"fields"`
	FirstField string            `json:"firstField"`
}

type EligibilityResponse struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message,omitempty"`
}

type ShippingPolicyResponse struct {
	StandardCost   int64    `json:"standardCost"`
	ExpressCost    int64    `json:"expressCost"`
	CashOnDelivery bool     `json:"cashOnDelivery"`
	Sections       []string `json:"sections"`
}
