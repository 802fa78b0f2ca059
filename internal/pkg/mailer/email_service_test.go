package mailer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func TestSendCalendarLink(t *testing.T) {
	cs := &captureSender{}
	svc := NewEmailServiceWithSender(cs, "bot@haruhi.example", "Haruhi Agent")

	require.NoError(t, svc.SendCalendarLink("user@example.com", "https://accounts.google.com/o/oauth2/auth?state=a&b=<c>", ""))
	require.Len(t, cs.sent, 1)

	assert.Equal(t, []string{"user@example.com"}, cs.sent[0].GetHeader("To"))
	assert.Equal(t, []string{"Connect your Google Calendar"}, cs.sent[0].GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := cs.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "multipart/alternative")
}

func TestSendCalendarLink_Errors(t *testing.T) {
	svc := NewEmailService("", 587, "", "", "Haruhi Agent")
	assert.ErrorIs(t, svc.SendCalendarLink("a@b.c", "https://x", ""), ErrNotConfigured)

	cs := &captureSender{err: errors.New("dial tcp: refused")}
	svc = NewEmailServiceWithSender(cs, "bot@haruhi.example", "Haruhi Agent")
	assert.ErrorContains(t, svc.SendCalendarLink("a@b.c", "https://x", "hi"), "refused")
}
