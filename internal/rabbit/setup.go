// setup.go
package rabbit

import (
	"context"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const DefaultExchange = "order_confirmed"

// Channel es el subconjunto de *amqp091.Channel que usa el publisher.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp091.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// SetupPublisher declara el exchange fanout y devuelve el publisher listo.
func SetupPublisher(ch Channel, exchange string, log *zap.Logger) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if log == nil {
		log = zap.NewNop()
	}

	err := ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeFanout,
		true,  // durable
		false, // auto-delete
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}

	log.Info("exchange declarado", zap.String("exchange", exchange), zap.String("kind", amqp091.ExchangeFanout))
	return NewPublisher(ch, exchange), nil
}
