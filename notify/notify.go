// Package notify fans bet-result notifications out to email and push.
// Channels fail independently: a dead SMTP relay never suppresses a push
// and vice versa. Sends are fire-and-forget from the caller's view.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/turfnote/turfapi/models"
)

// UserSource resolves the recipient's contact details.
type UserSource interface {
	UserByID(ctx context.Context, userID int) (*models.User, error)
}

// Sender delivers one message over one channel.
type Sender interface {
	Send(ctx context.Context, user *models.User, title, body string, meta map[string]string) error
	Name() string
}

// Notifier dispatches to every configured channel.
type Notifier struct {
	users    UserSource
	channels []Sender
	log      *zap.Logger
}

// New builds a Notifier. nil senders are skipped so callers can pass
// whatever channels configuration enabled.
func New(users UserSource, log *zap.Logger, channels ...Sender) *Notifier {
	active := make([]Sender, 0, len(channels))
	for _, ch := range channels {
		if ch != nil {
			active = append(active, ch)
		}
	}
	return &Notifier{users: users, channels: active, log: log}
}

// Notify sends title/body to the user on every channel. Failures are
// logged per channel and never returned; notification loss is preferable
// to blocking settlement.
func (n *Notifier) Notify(ctx context.Context, userID int, title, body string, meta map[string]string) {
	user, err := n.users.UserByID(ctx, userID)
	if err != nil {
		n.log.Warn("notify: user lookup failed", zap.Int("user_id", userID), zap.Error(err))
		return
	}
	for _, ch := range n.channels {
		if err := ch.Send(ctx, user, title, body, meta); err != nil {
			n.log.Warn("notify: send failed",
				zap.String("channel", ch.Name()),
				zap.Int("user_id", userID),
				zap.Error(err))
		}
	}
}
