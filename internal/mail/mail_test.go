package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travelapi/internal/storage"
	"travelapi/internal/storage/mocks"
)

func TestRenderer_Welcome(t *testing.T) {
	r := NewRenderer("Travel <no-reply@travel.test>", "Travel", "https://travel.test")

	msg, err := r.Welcome("Ana", "<Lopez>", "ana@example.com")
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, "Welcome to Travel", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Ana,")
	assert.Contains(t, msg.HTML, `<a href="https://travel.test">`)
	assert.Contains(t, msg.HTML, "ana@example.com")
}

func TestRenderer_EscapesHTML(t *testing.T) {
	r := NewRenderer("no-reply@travel.test", "Travel", "https://travel.test")

	msg, err := r.Welcome("<script>x</script>", "L", "ana@example.com")
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
}

func TestMessage_Encode(t *testing.T) {
	msg := Message{
		From:    "no-reply@travel.test",
		To:      "ana@example.com",
		Subject: "Welcome to Trävel",
		Text:    "hello",
		HTML:    "<p>hello</p>",
	}
	date := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	raw, err := msg.Encode(date, "abc@travel.test")
	require.NoError(t, err)

	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", parsed.Header.Get("To"))
	assert.Equal(t, "<abc@travel.test>", parsed.Header.Get("Message-ID"))
	subject, err := new(mime.WordDecoder).DecodeHeader(parsed.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Trävel", subject)

	mediaType, params, err := mime.ParseMediaType(parsed.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(parsed.Body, params["boundary"])
	var types []string
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		types = append(types, strings.SplitN(p.Header.Get("Content-Type"), ";", 2)[0])
	}
	assert.Equal(t, []string{"text/plain", "text/html"}, types)
}

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
	}{
		{name: "bad from", msg: Message{From: "nope", To: "a@b.com", Text: "x"}},
		{name: "bad to", msg: Message{From: "a@b.com", To: "", Text: "x"}},
		{name: "no body", msg: Message{From: "a@b.com", To: "c@d.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.msg.Validate())
		})
	}
}

func TestOutbox_Send(t *testing.T) {
	ctx := context.Background()
	msg := Message{From: "Travel <no-reply@travel.test>", To: "ana@example.com", Subject: "Hi", Text: "hello"}

	t.Run("stores an eml object under the prefix", func(t *testing.T) {
		store := new(mocks.MockStorage)
		o := NewOutbox(store, "outbox/", msg.From)
		o.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
		o.newID = func() string { return "id-1" }

		store.On("Put", ctx, "outbox/20240501T100000Z-id-1.eml", mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "message/rfc822" && opt.Size > 0 && opt.Metadata["mail-to"] == "ana@example.com"
		})).Return(storage.ObjectInfo{Key: "outbox/20240501T100000Z-id-1.eml"}, nil)

		key, err := o.Send(ctx, msg)

		assert.NoError(t, err)
		assert.Equal(t, "outbox/20240501T100000Z-id-1.eml", key)
		assert.Equal(t, "travel.test", o.domain)
		store.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		store := new(mocks.MockStorage)
		o := NewOutbox(store, "outbox/", msg.From)

		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("bucket unavailable"))

		key, err := o.Send(ctx, msg)

		assert.Empty(t, key)
		assert.ErrorContains(t, err, "queue message")
	})

	t.Run("invalid message never reaches storage", func(t *testing.T) {
		store := new(mocks.MockStorage)
		o := NewOutbox(store, "outbox/", msg.From)

		_, err := o.Send(ctx, Message{From: msg.From, To: "not-an-address", Text: "x"})

		assert.ErrorContains(t, err, "encode message")
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
