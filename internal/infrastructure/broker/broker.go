package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	appreplay "main/internal/application/service/replay"
	"main/internal/config"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer subscribes to the order-record fanout exchange and spools
// incoming rows into the audit store via a buffered batch writer. Records
// without a fingerprint of their own are filed under a per-session one.
type Consumer struct {
	cfg     config.RabbitMQConfig
	logger  *logrus.Logger
	session string

	conn    *amqp.Connection
	channel *amqp.Channel
	wg      sync.WaitGroup
	batcher *BatchWriter
}

// NewConsumer prepares a consumer for the given configuration.
func NewConsumer(cfg config.RabbitMQConfig, audit interfaces.AuditRepository, logger *logrus.Logger) (*Consumer, error) {
	if cfg.URL == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	batchCfg := BatchConfig{
		Size:    cfg.BatchSize,
		Timeout: cfg.BatchTimeout,
	}
	return &Consumer{
		cfg:     cfg,
		logger:  logger,
		session: "stream-" + uuid.NewString(),
		batcher: NewBatchWriter(batchCfg, audit, logger),
	}, nil
}

// Start establishes the AMQP connection and begins consuming the
// record exchange.
func (c *Consumer) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("connect to rabbitmq: %w", err)
	}
	c.conn = conn
	c.batcher.Run(ctx)

	ch, err := conn.Channel()
	if err != nil {
		c.Close(ctx)
		return fmt.Errorf("open channel: %w", err)
	}
	c.channel = ch

	exchange := c.cfg.RecordsExchange
	if err := ch.ExchangeDeclare(exchange, "fanout", true, false, false, false, nil); err != nil {
		c.Close(ctx)
		return fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		c.Close(ctx)
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, "", exchange, false, nil); err != nil {
		c.Close(ctx)
		return fmt.Errorf("bind queue %s to %s: %w", queue.Name, exchange, err)
	}
	prefetch := c.cfg.Prefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		c.Close(ctx)
		return fmt.Errorf("set qos: %w", err)
	}
	deliveries, err := ch.Consume(queue.Name, "", false, true, false, false, nil)
	if err != nil {
		c.Close(ctx)
		return fmt.Errorf("start consume: %w", err)
	}

	c.wg.Add(1)
	go c.consumeLoop(ctx, deliveries)

	c.logger.WithFields(logrus.Fields{
		"exchange": exchange,
		"session":  c.session,
	}).Info("rabbitmq consumer started")
	return nil
}

// Close stops consumption, flushes pending batches, and releases
// resources.
func (c *Consumer) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.channel != nil {
		_ = c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.wg.Wait()
	if c.batcher == nil {
		return nil
	}
	return c.batcher.Stop(ctx)
}

func (c *Consumer) consumeLoop(ctx context.Context, deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()
	log := c.logger.WithField("exchange", c.cfg.RecordsExchange)
	for {
		select {
		case <-ctx.Done():
			return
		case delivery, ok := <-deliveries:
			if !ok {
				return
			}
			if err := c.handleDelivery(log, &delivery); err != nil {
				log.WithError(err).Warn("failed to process message")
				_ = delivery.Nack(false, true)
				continue
			}
			if err := delivery.Ack(false); err != nil {
				log.WithError(err).Warn("failed to ack delivery")
			}
		}
	}
}

// handleDelivery decodes and spools one record. Undecodable or malformed
// records are dropped with a warning (and acked): a broken row from a
// live feed must not wedge the queue in a redelivery loop.
func (c *Consumer) handleDelivery(log *logrus.Entry, delivery *amqp.Delivery) error {
	var payload BaseMessage
	if err := json.Unmarshal(delivery.Body, &payload); err != nil {
		log.WithError(err).Warn("skip undecodable payload")
		return nil
	}
	if payload.Record == nil {
		log.Warn("skip payload without order record")
		return nil
	}

	event, err := appreplay.NormalizeRecord(*payload.Record)
	if err != nil {
		log.WithError(err).Warn("skip malformed record")
		return nil
	}

	fingerprint := payload.Fingerprint
	if fingerprint == "" {
		fingerprint = c.session
	}
	return c.batcher.Add(fingerprint, event)
}
