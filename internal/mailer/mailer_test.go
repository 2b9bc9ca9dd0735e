package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoopSenderLogsInsteadOfSending(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewNoopSender(zap.New(core))

	res, err := s.Send(context.Background(), Message{To: []string{"owner@acme.test"}, Subject: "Weekly report"})
	require.NoError(t, err)
	assert.Contains(t, res.MessageID, "noop-")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Weekly report", logs.All()[0].ContextMap()["subject"])
}

func TestSendersRequireRecipients(t *testing.T) {
	_, err := NewNoopSender(zap.NewNop()).Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)

	_, err = NewResendSender("re_test", "from@acme.test", zap.NewNop()).Send(context.Background(), Message{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}
