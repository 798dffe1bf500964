// models.go
package model

import "time"

type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

type PaymentMethod string

const (
	PaymentWompi    PaymentMethod = "wompi"
	PaymentBold     PaymentMethod = "bold"
	PaymentCard     PaymentMethod = "card"
	PaymentCredit   PaymentMethod = "credit"
	PaymentVisa     PaymentMethod = "visa"
	PaymentAmex     PaymentMethod = "amex"
	PaymentDiscover PaymentMethod = "discover"
	PaymentPSE      PaymentMethod = "pse"
	PaymentCOD      PaymentMethod = "cod"
)

var cardFamily = map[PaymentMethod]bool{
	PaymentWompi:    true,
	PaymentBold:     true,
	PaymentCard:     true,
	PaymentCredit:   true,
	PaymentVisa:     true,
	PaymentAmex:     true,
	PaymentDiscover: true,
}

// IsCardFamily indica si el método se cobra con tarjeta a través de la pasarela.
func (m PaymentMethod) IsCardFamily() bool {
	return cardFamily[m]
}

// RequiresRedirect indica si el pago se completa fuera de la tienda (pasarela).
func (m PaymentMethod) RequiresRedirect() bool {
	return m.IsCardFamily() || m == PaymentPSE
}

// IsKnown reporta si el método está soportado por la tienda.
func (m PaymentMethod) IsKnown() bool {
	return m.IsCardFamily() || m == PaymentPSE || m == PaymentCOD
}

type OrderStatus string

const StatusAwaitingPayment OrderStatus = "awaiting_payment"

const (
	CurrencyCOP = "COP"
	SourceWeb   = "web"
)

type CartItem struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	UnitPrice int64  `bson:"unit_price" json:"unitPrice"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	ImageURL  string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// CartTotal suma precio unitario por cantidad. Se ignoran líneas sin cantidad
// o sin precio; un carrito vacío vale 0.
func CartTotal(items []CartItem) int64 {
	var total int64
	for _, it := range items {
		if it.Quantity <= 0 || it.UnitPrice <= 0 {
			continue
		}
		total += it.UnitPrice * int64(it.Quantity)
	}
	return total
}

type CustomerInfo struct {
	FullName string `bson:"full_name" json:"fullName"`
	Email    string `bson:"email" json:"email"`
	Phone    string `bson:"phone" json:"phone"`
}

type ShippingAddress struct {
	City       string `bson:"city" json:"city"`
	Department string `bson:"department" json:"department"`
	Street     string `bson:"street" json:"street"`
	Apartment  string `bson:"apartment,omitempty" json:"apartment,omitempty"`
}

// OrderDraft es la orden candidata, todavía sin validar ni persistir.
type OrderDraft struct {
	Customer       CustomerInfo
	Address        ShippingAddress
	ShippingMethod ShippingMethod
	PaymentMethod  PaymentMethod
	PromoCode      string
	Items          []CartItem
}

// OrderLineSnapshot es una copia congelada de un item del carrito.
type OrderLineSnapshot struct {
	ProductID string `bson:"product_id" json:"productId"`
	Name      string `bson:"name" json:"name"`
	Price     int64  `bson:"price" json:"price"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	ImageURL  string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

type Order struct {
	ID              string              `bson:"_id" json:"id"`
	OrderNumber     string              `bson:"order_number" json:"orderNumber"`
	Status          OrderStatus         `bson:"status" json:"status"`
	PaymentMethod   PaymentMethod       `bson:"payment_method" json:"paymentMethod"`
	ShippingMethod  ShippingMethod      `bson:"shipping_method" json:"shippingMethod"`
	Currency        string              `bson:"currency" json:"currency"`
	Subtotal        int64               `bson:"subtotal" json:"subtotal"`
	ShippingCost    int64               `bson:"shipping_cost" json:"shippingCost"`
	Total           int64               `bson:"total" json:"total"`
	Items           []OrderLineSnapshot `bson:"items" json:"items"`
	IsVerified      bool                `bson:"is_verified" json:"isVerified"`
	Customer        CustomerInfo        `bson:"customer" json:"customer"`
	ShippingAddress ShippingAddress     `bson:"shipping_address" json:"shippingAddress"`
	PromoCode       string              `bson:"promo_code,omitempty" json:"promoCode,omitempty"`
	Source          string              `bson:"source" json:"source"`
	CreatedAt       time.Time           `bson:"created_at" json:"createdAt"`
}

// CustomerProfile se guarda por teléfono; se actualiza en cada compra.
type CustomerProfile struct {
	Phone     string          `bson:"phone" json:"phone"`
	FullName  string          `bson:"full_name" json:"fullName"`
	Email     string          `bson:"email" json:"email"`
	Address   ShippingAddress `bson:"address" json:"address"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updatedAt"`
}

type Department struct {
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

type CallingCode struct {
	Code    string `json:"code"`
	Country string `json:"country"`
}
