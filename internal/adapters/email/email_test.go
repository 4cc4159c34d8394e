package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dancehub/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTemplateRenderer_Render(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	t.Run("connection request escapes html", func(t *testing.T) {
		subject, html, text, err := r.Render("connection_request", &domain.ConnectionRequestEmailData{
			RecipientName: "Bea", SenderName: "Ana", Reason: "<b>practice</b>",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ana wants to connect on DanceHub", subject)
		assert.Contains(t, html, "&lt;b&gt;practice&lt;/b&gt;")
		assert.Contains(t, text, `"<b>practice</b>"`)
		assert.NotContains(t, text, "Context:")
	})

	t.Run("trip response", func(t *testing.T) {
		subject, _, text, err := r.Render("trip_response", &domain.TripResponseEmailData{
			RecipientName: "Bea", OwnerName: "Ana", Destination: "Lisbon", Accepted: false,
		})
		require.NoError(t, err)
		assert.Equal(t, "Your trip request to Lisbon was declined", subject)
		assert.Contains(t, text, "Ana declined your request")
	})

	t.Run("sync proposal", func(t *testing.T) {
		_, html, _, err := r.Render("sync_proposal", &domain.SyncProposalEmailData{
			RecipientName: "Bea", SenderName: "Ana", SyncType: "training", ScheduledAt: "Sat 7 Jun 2025 18:00 UTC",
		})
		require.NoError(t, err)
		assert.Contains(t, html, "When: Sat 7 Jun 2025 18:00 UTC")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, _, err := r.Render("welcome", nil)
		assert.Error(t, err)
	})
}

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESMailer_Send(t *testing.T) {
	client := &fakeSES{}
	m := newSESMailer(client, MailerConfig{FromAddress: "hello@dancehub.app", FromName: "DanceHub"}, discardLogger())

	require.NoError(t, m.Send(context.Background(), "bea@example.com", "Hi", "<p>Hi</p>", ""))
	assert.Equal(t, `"DanceHub" <hello@dancehub.app>`, aws.ToString(client.input.Source))
	assert.Equal(t, []string{"bea@example.com"}, client.input.Destination.ToAddresses)
	require.NotNil(t, client.input.Message.Body.Html)
	assert.Nil(t, client.input.Message.Body.Text)

	assert.Equal(t, "UTF-8", aws.ToString(client.input.Message.Subject.Charset))

	client.err = errors.New("throttled")
	assert.ErrorContains(t, m.Send(context.Background(), "bea@example.com", "Hi", "", "Hi"), "throttled")
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, discardLogger())
	require.NoError(t, err)
	assert.NoError(t, m.Send(context.Background(), "a@example.com", "s", "", "t"))

	_, err = NewMailer(MailerConfig{Provider: "ses"}, discardLogger())
	assert.Error(t, err)

	m, err = NewMailer(MailerConfig{Provider: "ses", SES: SESConfig{Region: "eu-west-1", Endpoint: "http://localhost:4566"}}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)

	m, err = NewMailer(MailerConfig{Provider: "smtp"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	bare := newSESMailer(&fakeSES{}, MailerConfig{FromAddress: "hello@dancehub.app"}, discardLogger())
	assert.Equal(t, "hello@dancehub.app", bare.source)
}
