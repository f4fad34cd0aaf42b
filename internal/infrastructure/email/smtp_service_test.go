package email

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmail_BuildsMessage(t *testing.T) {
	var gotTo []string
	var gotMsg string
	svc := &smtpEmailService{
		smtpAddr: "localhost:1025",
		smtpFrom: "noreply@netshop.dev",
		send: func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotTo = to
			gotMsg = string(msg)
			return nil
		},
	}

	err := svc.SendEmail(context.Background(), EmailRequest{
		To:      []string{"a@example.com"},
		Cc:      []string{"b@example.com"},
		Subject: "Đơn hàng #ORD-20251108-0001",
		Body:    "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Đơn hàng #ORD-20251108-0001\r\n")
	assert.Contains(t, gotMsg, "text/plain")
	assert.Contains(t, gotMsg, "\r\n\r\nhello")
}

func TestSendEmail_Errors(t *testing.T) {
	svc := &smtpEmailService{
		send: func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("connection refused")
		},
	}

	assert.Error(t, svc.SendEmail(context.Background(), EmailRequest{}))
	assert.ErrorContains(t, svc.SendEmail(context.Background(), EmailRequest{To: []string{"a@example.com"}}), "connection refused")
}
