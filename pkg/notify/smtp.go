package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KarthikaJayachandran/Leave-Management-System-for-College/config"
)

// SMTPNotifier 通过 SMTP (STARTTLS) 投递通知邮件
// 连接与整个会话均受 deadline 约束，超时归入 ErrDeliveryFailed
type SMTPNotifier struct {
	cfg     config.SMTPConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewSMTPNotifier 创建 SMTP 通知器
func NewSMTPNotifier(cfg config.SMTPConfig, timeout time.Duration, logger *zap.Logger) *SMTPNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMTPNotifier{cfg: cfg, timeout: timeout, logger: logger}
}

// Notify 发送一封纯文本通知邮件
func (n *SMTPNotifier) Notify(ctx context.Context, recipient, subject, body string) error {
	if !ValidRecipient(recipient) {
		return fmt.Errorf("%w: invalid recipient %q", ErrDeliveryFailed, recipient)
	}

	from := n.cfg.From
	if from == "" {
		from = n.cfg.Username
	}
	msg := strings.Join([]string{
		fmt.Sprintf("From: %s <%s>", n.cfg.FromName, from),
		fmt.Sprintf("To: %s", recipient),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	if err := n.send(ctx, recipient, from, []byte(msg)); err != nil {
		n.logger.Warn("通知邮件发送失败",
			zap.String("to", recipient),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	n.logger.Info("通知邮件已发送", zap.String("to", recipient))
	return nil
}

func (n *SMTPNotifier) send(ctx context.Context, recipient, from string, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)

	deadline := time.Now().Add(n.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := net.Dialer{Deadline: deadline}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	// 对整个 SMTP 会话生效，防止任一步骤无限阻塞
	_ = conn.SetDeadline(deadline)

	c, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() { _ = c.Quit() }()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return err
		}
	}

	if n.cfg.Username != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	if err := c.Rcpt(recipient); err != nil {
		return err
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
