package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "go.uber.org/zap"
)

// Consumer drains the status-change queues and writes every event to the
// structured log, giving operators an activity feed of the front desk.
type Consumer struct {
    url string
    log *zap.Logger
}

func NewConsumer(url string, log *zap.Logger) *Consumer {
    if log == nil {
        log = zap.NewNop()
    }
    return &Consumer{url: url, log: log.Named("consumer")}
}

// Run connects to the broker and consumes until ctx is cancelled,
// reconnecting with exponential backoff capped at 30 seconds.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        if ctx.Err() != nil {
            return ctx.Err()
        }
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.Warn("dial failed, retrying", zap.Duration("backoff", backoff), zap.Error(err))
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        err = c.consume(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.Warn("consume loop ended, reconnecting", zap.Error(err))
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.Warn("set QoS failed", zap.Error(err))
    }

    reservations, err := c.subscribe(ch, ReservationStatusQueue)
    if err != nil {
        return err
    }
    orders, err := c.subscribe(ch, AddonOrderStatusQueue)
    if err != nil {
        return err
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-reservations:
            if !ok {
                return errors.New("reservation deliveries channel closed")
            }
            c.ack(d, c.handleReservation(d.Body))
        case d, ok := <-orders:
            if !ok {
                return errors.New("addon order deliveries channel closed")
            }
            c.ack(d, c.handleAddonOrder(d.Body))
        }
    }
}

func (c *Consumer) subscribe(ch *amqp.Channel, queueName string) (<-chan amqp.Delivery, error) {
    if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
        return nil, fmt.Errorf("queue declare %s: %w", queueName, err)
    }
    msgs, err := ch.Consume(queueName, "", false, false, false, false, nil)
    if err != nil {
        return nil, fmt.Errorf("queue consume %s: %w", queueName, err)
    }
    return msgs, nil
}

func (c *Consumer) ack(d amqp.Delivery, err error) {
    if err != nil {
        c.log.Error("handle message failed", zap.String("queue", d.RoutingKey), zap.Error(err))
        _ = d.Nack(false, false) // do not requeue poison messages
        return
    }
    _ = d.Ack(false)
}

func (c *Consumer) handleReservation(body []byte) error {
    var ev ReservationStatusChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    c.log.Info("reservation status changed",
        zap.Uint64("reservation_id", ev.ReservationID),
        zap.String("from", ev.FromStatus),
        zap.String("to", ev.ToStatus),
        zap.Uint64("changed_by", ev.ChangedBy),
        zap.Time("changed_at", ev.ChangedAt))
    return nil
}

func (c *Consumer) handleAddonOrder(body []byte) error {
    var ev AddonOrderStatusChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    c.log.Info("addon order status changed",
        zap.Uint64("order_id", ev.OrderID),
        zap.Uint64("reservation_id", ev.ReservationID),
        zap.String("from", ev.FromStatus),
        zap.String("to", ev.ToStatus),
        zap.Uint64("changed_by", ev.ChangedBy),
        zap.String("remarks", ev.Remarks))
    return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}
