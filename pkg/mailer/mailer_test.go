package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
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

func TestSMTPSender_Send(t *testing.T) {
	t.Run("Builds message headers", func(t *testing.T) {
		d := &recordingDialer{}
		s := &SMTPSender{from: "reservations@example.com", dialer: d}

		err := s.Send(context.Background(), Message{
			To:      "guest@example.com",
			Subject: "Reservation Confirmation",
			HTML:    "<p>Booked</p>",
			Text:    "Booked",
		})
		require.NoError(t, err)
		require.Len(t, d.sent, 1)

		m := d.sent[0]
		assert.Equal(t, []string{"reservations@example.com"}, m.GetHeader("From"))
		assert.Equal(t, []string{"guest@example.com"}, m.GetHeader("To"))
		assert.Equal(t, []string{"Reservation Confirmation"}, m.GetHeader("Subject"))
	})

	t.Run("Missing recipient", func(t *testing.T) {
		d := &recordingDialer{}
		s := &SMTPSender{from: "reservations@example.com", dialer: d}

		err := s.Send(context.Background(), Message{Subject: "x"})
		assert.Error(t, err)
		assert.Empty(t, d.sent)
	})

	t.Run("Dial failure is wrapped", func(t *testing.T) {
		d := &recordingDialer{err: errors.New("connection refused")}
		s := &SMTPSender{from: "reservations@example.com", dialer: d}

		err := s.Send(context.Background(), Message{To: "guest@example.com", HTML: "<p>x</p>"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "guest@example.com")
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("Cancelled context", func(t *testing.T) {
		d := &recordingDialer{}
		s := &SMTPSender{from: "reservations@example.com", dialer: d}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := s.Send(ctx, Message{To: "guest@example.com"})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, d.sent)
	})
}

func TestLogSender_Send(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	err := NewLogSender(logger).Send(context.Background(), Message{To: "guest@example.com", Subject: "Hello"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "guest@example.com")
	assert.Contains(t, buf.String(), "Hello")
}
