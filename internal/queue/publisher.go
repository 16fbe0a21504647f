package queue

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Publisher sends status events to RabbitMQ.  Each publish dials the broker,
// declares the durable queue and sends one persistent message; failures are
// logged and returned so callers can ignore them.
type Publisher struct {
    url string
    log *zap.Logger
}

func NewPublisher(url string, log *zap.Logger) *Publisher {
    if log == nil {
        log = zap.NewNop()
    }
    return &Publisher{url: url, log: log.Named("publisher")}
}

func (p *Publisher) PublishReservationStatusChanged(ctx context.Context, ev ReservationStatusChangedEvent) error {
    return p.publish(ctx, ReservationStatusQueue, ev)
}

func (p *Publisher) PublishAddonOrderStatusChanged(ctx context.Context, ev AddonOrderStatusChangedEvent) error {
    return p.publish(ctx, AddonOrderStatusQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queueName string, event any) error {
    conn, err := amqp.Dial(p.url)
    if err != nil {
        p.log.Warn("dial failed", zap.Error(err))
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        p.log.Warn("channel open failed", zap.Error(err))
        return err
    }
    defer func() { _ = ch.Close() }()

    // durable, not auto-deleted, not exclusive
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        p.log.Warn("queue declare failed", zap.String("queue", queueName), zap.Error(err))
        return err
    }

    body, err := json.Marshal(event)
    if err != nil {
        return err
    }

    msg := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    // default exchange, routing key = queue name
    if err := ch.PublishWithContext(ctx, "", queueName, false, false, msg); err != nil {
        p.log.Warn("publish failed", zap.String("queue", queueName), zap.Error(err))
        return err
    }
    return nil
}
