package notification

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
)

// KindOneTimeCode indicates a verification code sent during registration.
const KindOneTimeCode = "one_time_code"

// ChannelWhatsApp is the only channel beneficiaries are reached on.
const ChannelWhatsApp = "whatsapp"

// ErrNoDestination is returned when a message has no usable number.
var ErrNoDestination = errors.New("notification destination is empty")

// Message is one outbound message to a beneficiary.
type Message struct {
	Kind        string
	Channel     string
	Destination string
	Body        string
}

// Notifier delivers messages to the messaging provider.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier stands in for the messaging provider by writing messages to the log.
// Bodies carry one-time codes, so they are redacted unless reveal is set.
type LoggerNotifier struct {
	logger *slog.Logger
	reveal bool
}

func NewLoggerNotifier(logger *slog.Logger, reveal bool) *LoggerNotifier {
	return &LoggerNotifier{logger: logger, reveal: reveal}
}

func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	if digitsOf(message.Destination) == "" {
		return ErrNoDestination
	}
	channel := message.Channel
	if channel == "" {
		channel = ChannelWhatsApp
	}
	body := "[redacted]"
	if n.reveal {
		body = message.Body
	}
	n.logger.Info("notification queued",
		slog.String("kind", message.Kind),
		slog.String("channel", channel),
		slog.String("destination", maskNumber(message.Destination)),
		slog.String("body", body))
	return nil
}

// SupportLink builds a pre-filled WhatsApp link to phone. Non-digits are stripped from the number.
func SupportLink(phone, message string) string {
	link := "https://wa.me/" + digitsOf(phone)
	if message != "" {
		link += "?text=" + url.QueryEscape(message)
	}
	return link
}

func digitsOf(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// maskNumber keeps the last three digits.
func maskNumber(s string) string {
	d := digitsOf(s)
	if len(d) <= 3 {
		return d
	}
	return strings.Repeat("*", len(d)-3) + d[len(d)-3:]
}
