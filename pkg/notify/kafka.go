package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
)

// KafkaNotifier 将通知作为事件发布到 Kafka
// 实际投递由独立的邮件服务消费完成；发布失败同样归入 ErrDeliveryFailed
type KafkaNotifier struct {
	writer  *kafka.Writer
	timeout time.Duration
	logger  *zap.Logger
}

// noticeEvent Kafka 消息载荷
type noticeEvent struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// NewKafkaNotifier 创建 Kafka 通知器
// 配置了用户名时启用 SASL/PLAIN + TLS 传输
func NewKafkaNotifier(cfg config.KafkaConfig, timeout time.Duration, logger *zap.Logger) *KafkaNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Broker),
		Topic:        cfg.Topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: timeout,
	}

	if cfg.Username != "" {
		writer.Transport = &kafka.Transport{
			SASL: plain.Mechanism{
				Username: cfg.Username,
				Password: cfg.Password,
			},
			TLS: &tls.Config{},
		}
	}

	return &KafkaNotifier{writer: writer, timeout: timeout, logger: logger}
}

// Notify 发布一条通知事件
func (n *KafkaNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	if !ValidRecipient(recipient) {
		return fmt.Errorf("%w: invalid recipient %q", ErrDeliveryFailed, recipient)
	}

	value, err := json.Marshal(noticeEvent{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	if err := n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(recipient),
		Value: value,
		Time:  time.Now(),
	}); err != nil {
		n.logger.Warn("通知事件发布失败",
			zap.String("to", recipient),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	return nil
}

// Close 关闭底层 writer
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
