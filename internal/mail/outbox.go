package mail

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelapi/internal/storage"
)

// Dispatcher hands a message off for delivery and returns where it was queued.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Outbox queues messages as .eml objects under a key prefix.
type Outbox struct {
	store  storage.Storage
	prefix string
	domain string
	now    func() time.Time
	newID  func() string
}

// NewOutbox creates an Outbox writing under prefix. Message-IDs use the sender's domain.
func NewOutbox(store storage.Storage, prefix, from string) *Outbox {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 && i < len(from)-1 {
		domain = strings.TrimSuffix(from[i+1:], ">")
	}
	return &Outbox{
		store:  store,
		prefix: prefix,
		domain: domain,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

var _ Dispatcher = (*Outbox)(nil)

// Send encodes msg and stores it as outbox/<timestamp>-<id>.eml.
func (o *Outbox) Send(ctx context.Context, msg Message) (string, error) {
	now := o.now()
	id := o.newID()

	raw, err := msg.Encode(now, id+"@"+o.domain)
	if err != nil {
		return "", fmt.Errorf("encode message: %w", err)
	}

	key := path.Join(o.prefix, now.Format("20060102T150405Z")+"-"+id+".eml")
	_, err = o.store.Put(ctx, key, bytes.NewReader(raw), storage.PutObjectOptions{
		Size:        int64(len(raw)),
		ContentType: "message/rfc822",
		Metadata: map[string]string{
			"mail-to":      msg.To,
			"mail-subject": msg.Subject,
		},
	})
	if err != nil {
		return "", fmt.Errorf("queue message: %w", err)
	}
	return key, nil
}
