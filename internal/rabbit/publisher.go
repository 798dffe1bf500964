package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"storefront-checkout/internal/model"
)

type Publisher struct {
	ch       Channel
	exchange string
	now      func() time.Time
}

func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange, now: time.Now}
}

type ConfirmedLine struct {
	ArticleID string `json:"articleId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// OrderConfirmedMessage conserva el sobre que usan los demás servicios de la tienda.
type OrderConfirmedMessage struct {
	CorrelationID string `json:"correlation_id"`
	Exchange      string `json:"exchange"`
	RoutingKey    string `json:"routing_key"`
	Message       struct {
		OrderID       string                `json:"orderId"`
		OrderNumber   string                `json:"orderNumber"`
		PaymentMethod model.PaymentMethod   `json:"paymentMethod"`
		Currency      string                `json:"currency"`
		Total         int64                 `json:"total"`
		Customer      model.CustomerInfo    `json:"customer"`
		Shipping      model.ShippingAddress `json:"shipping"`
		Articles      []ConfirmedLine       `json:"articles"`
	} `json:"message"`
}

func newConfirmedMessage(exchange string, o model.Order) OrderConfirmedMessage {
	var msg OrderConfirmedMessage
	msg.CorrelationID = uuid.NewString()
	msg.Exchange = exchange
	msg.Message.OrderID = o.ID
	msg.Message.OrderNumber = o.OrderNumber
	msg.Message.PaymentMethod = o.PaymentMethod
	msg.Message.Currency = o.Currency
	msg.Message.Total = o.Total
	msg.Message.Customer = o.Customer
	msg.Message.Shipping = o.ShippingAddress
	msg.Message.Articles = make([]ConfirmedLine, 0, len(o.Items))
	for _, l := range o.Items {
		msg.Message.Articles = append(msg.Message.Articles, ConfirmedLine{
			ArticleID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
		})
	}
	return msg
}

// Send publica la confirmación; el servicio de correo la consume desde el exchange.
func (p *Publisher) Send(ctx context.Context, o model.Order) error {
	msg := newConfirmedMessage(p.exchange, o)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("serializar orden %s: %w", o.ID, err)
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		CorrelationId: msg.CorrelationID,
		MessageId:     o.ID,
		Timestamp:     p.now().UTC(),
		Type:          "order_confirmed",
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publicar orden %s: %w", o.ID, err)
	}
	return nil
}
