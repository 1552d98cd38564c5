package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, m...)
	return nil
}

func rendered(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Message{To: "a@b.c", Subject: "Hi", Text: "x"}.Validate())
	assert.NoError(t, Message{To: "a@b.c", Subject: "Hi", HTML: "<p>x</p>"}.Validate())
	assert.ErrorIs(t, Message{Subject: "Hi", Text: "x"}.Validate(), ErrMissingFields)
	assert.ErrorIs(t, Message{To: "a@b.c", Text: "x"}.Validate(), ErrMissingFields)
	assert.ErrorIs(t, Message{To: "a@b.c", Subject: "Hi"}.Validate(), ErrMissingFields)
}

func TestSendUsesDefaultFrom(t *testing.T) {
	d := &recordingDialer{}
	s := newSMTPSender(d, "orders@castledepots.co.ke", quietLogger())

	id, err := s.Send(context.Background(), Message{
		To:      "jane@example.com, joe@example.com",
		Subject: "Your order",
		Text:    "Thanks",
		HTML:    "<p>Thanks</p>",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(id, "@castledepots.co.ke>"))
	require.Len(t, d.sent, 1)

	m := d.sent[0]
	assert.Equal(t, []string{"orders@castledepots.co.ke"}, m.GetHeader("From"))
	assert.Equal(t, []string{"jane@example.com", "joe@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{id}, m.GetHeader("Message-ID"))

	body := rendered(t, m)
	assert.Contains(t, body, "multipart/alternative")
	assert.Contains(t, body, "<p>Thanks</p>")
}

func TestSendExplicitFromAndHTMLOnly(t *testing.T) {
	d := &recordingDialer{}
	s := newSMTPSender(d, "orders@castledepots.co.ke", quietLogger())

	_, err := s.Send(context.Background(), Message{To: "a@b.c", Subject: "S", HTML: "<b>hi</b>", From: "sales@castledepots.co.ke"})
	require.NoError(t, err)
	assert.Equal(t, []string{"sales@castledepots.co.ke"}, d.sent[0].GetHeader("From"))
	assert.Contains(t, rendered(t, d.sent[0]), "text/html")
}

func TestSendErrors(t *testing.T) {
	d := &recordingDialer{err: errors.New("connection refused")}
	s := newSMTPSender(d, "orders@castledepots.co.ke", quietLogger())

	_, err := s.Send(context.Background(), Message{To: "a@b.c", Subject: "S", Text: "x"})
	assert.ErrorContains(t, err, "connection refused")

	_, err = s.Send(context.Background(), Message{To: "a@b.c"})
	assert.ErrorIs(t, err, ErrMissingFields)
}
