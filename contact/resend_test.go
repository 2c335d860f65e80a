package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/resend/resend-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

type fakeSender struct {
	sent []*resend.SendEmailRequest
	ctxs []context.Context
	err  error
}

func (f *fakeSender) SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error) {
	f.sent = append(f.sent, params)
	f.ctxs = append(f.ctxs, ctx)
	if f.err != nil {
		return nil, f.err
	}
	return &resend.SendEmailResponse{Id: "re_123"}, nil
}

func testDelivery() Delivery {
	return Delivery{
		ID:       "id-1",
		Identity: "1.2.3.4",
		Submission: Submission{
			Name:    "Ada <script>alert(1)</script>",
			Email:   "ada@example.com",
			Subject: "Tom's <b>quote</b>",
			Message: "line one\nline two <img src=x onerror=alert(1)>",
		},
		ReceivedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestResendNotifier_BuildsSanitizedEmail(t *testing.T) {
	sender := &fakeSender{}
	n := newResendNotifier(sender, ResendConfig{
		From:     "contact@example.com",
		FromName: "Landing",
		To:       []string{"owner@example.com"},
	}, quietLogger())

	require.NoError(t, n.Notify(context.Background(), testDelivery()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Landing <contact@example.com>", msg.From)
	assert.Equal(t, []string{"owner@example.com"}, msg.To)
	assert.Equal(t, "Contact Form: Tom's quote", msg.Subject)
	assert.Equal(t, "ada@example.com", msg.ReplyTo)
	assert.Contains(t, msg.Html, "line one<br>line two")
	assert.NotContains(t, msg.Html, "<script>")
	assert.NotContains(t, msg.Html, "<img")
	assert.Contains(t, msg.Text, "Name: Ada <script>alert(1)</script>")
}

func TestResendNotifier_TestModeDoesNotSend(t *testing.T) {
	sender := &fakeSender{}
	n := newResendNotifier(sender, ResendConfig{To: []string{"owner@example.com"}, TestMode: true}, quietLogger())

	require.NoError(t, n.Notify(context.Background(), testDelivery()))
	assert.Empty(t, sender.sent)
}

func TestResendNotifier_WrapsSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("401 unauthorized")}
	n := newResendNotifier(sender, ResendConfig{To: []string{"owner@example.com"}}, quietLogger())

	err := n.Notify(context.Background(), testDelivery())
	assert.ErrorContains(t, err, "401 unauthorized")
}

func TestResendNotifier_WaitHonorsContext(t *testing.T) {
	sender := &fakeSender{}
	n := newResendNotifier(sender, ResendConfig{To: []string{"owner@example.com"}, RPS: 0.001}, quietLogger())

	require.NoError(t, n.Notify(context.Background(), testDelivery()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := n.Notify(ctx, testDelivery())
	assert.Error(t, err)
	assert.Len(t, sender.sent, 1)
}

func TestNewResendNotifier_RequiresKeyOutsideTestMode(t *testing.T) {
	_, err := NewResendNotifier(ResendConfig{To: []string{"owner@example.com"}}, quietLogger())
	assert.Error(t, err)

	_, err = NewResendNotifier(ResendConfig{TestMode: true}, quietLogger())
	assert.Error(t, err)

	n, err := NewResendNotifier(ResendConfig{To: []string{"owner@example.com"}, TestMode: true}, quietLogger())
	require.NoError(t, err)
	assert.NotNil(t, n)
}

func TestResendNotifier_PassesRequestContextToSender(t *testing.T) {
	sender := &fakeSender{}
	n := newResendNotifier(sender, ResendConfig{To: []string{"owner@example.com"}}, quietLogger())

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	require.NoError(t, n.Notify(ctx, testDelivery()))

	require.Len(t, sender.ctxs, 1)
	assert.Equal(t, "req-1", sender.ctxs[0].Value(ctxKey{}))
}
