package mailer

import (
	"io"

	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"examspace/config"
)

// Mailer SMTP 邮件发送封装
// 未启用时所有发送调用直接返回，便于本地开发
type Mailer struct {
	cfg    *config.MailConfig
	logger *zap.Logger
}

// NewMailer 创建 Mailer 实例
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Enabled 是否启用邮件发送
func (m *Mailer) Enabled() bool {
	return m.cfg.Enabled
}

// Send 发送纯文本邮件，ics 非空时作为日历附件一并发送
func (m *Mailer) Send(to, subject, body string, ics []byte) error {
	if !m.cfg.Enabled {
		m.logger.Debug("邮件发送未启用，跳过", zap.String("to", to), zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if len(ics) > 0 {
		msg.Attach("reservation.ics",
			gomail.SetHeader(map[string][]string{"Content-Type": {"text/calendar; method=REQUEST"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(ics)
				return err
			}),
		)
	}

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.logger.Error("邮件发送失败", zap.String("to", to), zap.Error(err))
		return err
	}

	m.logger.Info("邮件发送成功", zap.String("to", to), zap.String("subject", subject))
	return nil
}
