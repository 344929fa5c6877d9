package sendnotification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"team-builder/internal/common/logger"
)

// Mock implementations
type mockSES struct {
	err      error
	lastSent *ses.SendEmailInput
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	m.lastSent = params
	if m.err != nil {
		return nil, m.err
	}
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	err           error
	lastPublished *sns.PublishInput
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.lastPublished = params
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{}, nil
}

func createTestHandler(t *testing.T, config *Config, sesClient SESService, snsClient SNSService) *Handler {
	return &Handler{
		config:    config,
		logger:    logger.NewZapAdapter(zaptest.NewLogger(t)).WithFields(map[string]interface{}{"taskType": TaskType}),
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

func testConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SNSEnabled:   true,
		FromEmail:    "noreply@example.com",
		ToEmail:      "coach@example.com",
		TopicARN:     "arn:aws:sns:us-west-2:123456789012:team-updates",
		Timeout:      5 * time.Second,
	}
}

func testInput() *Input {
	return &Input{
		SessionID:   "session-1",
		TeamType:    "Professional Team Submission",
		Composition: "TenZ on Jett, Laz on Cypher.",
	}
}

func TestHandler_Execute_SendsEmailAndSNS(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := createTestHandler(t, testConfig(), sesMock, snsMock)

	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotEmpty(t, output.NotificationID)
	assert.NotEmpty(t, output.SentAt)

	require.NotNil(t, sesMock.lastSent)
	assert.Equal(t, "coach@example.com", sesMock.lastSent.Destination.ToAddresses[0])
	assert.Contains(t, *sesMock.lastSent.Message.Subject.Data, "Professional Team Submission")

	require.NotNil(t, snsMock.lastPublished)
	assert.Contains(t, *snsMock.lastPublished.Message, "session-1")
}

func TestHandler_Execute_AllChannelsDisabled(t *testing.T) {
	config := testConfig()
	config.EmailEnabled = false
	config.SNSEnabled = false

	handler := createTestHandler(t, config, &mockSES{}, &mockSNS{})
	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestHandler_Execute_EmailFailure(t *testing.T) {
	sesMock := &mockSES{err: errors.New("MessageRejected")}
	handler := createTestHandler(t, testConfig(), sesMock, &mockSNS{})

	output, err := handler.execute(context.Background(), testInput())

	// Delivery failures surface in the status, not as errors
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestHandler_Execute_SNSFailure(t *testing.T) {
	snsMock := &mockSNS{err: errors.New("AuthorizationError")}
	handler := createTestHandler(t, testConfig(), &mockSES{}, snsMock)

	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, StatusFailed, output.Status)
}

func TestHandler_Execute_SNSOnly(t *testing.T) {
	config := testConfig()
	config.EmailEnabled = false

	snsMock := &mockSNS{}
	handler := createTestHandler(t, config, &mockSES{}, snsMock)

	output, err := handler.execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.NotNil(t, snsMock.lastPublished)
}

func TestHandler_Execute_EmailOverride(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := createTestHandler(t, testConfig(), sesMock, snsMock)

	input := testInput()
	input.Channel = "email"
	input.Recipient = "scout@example.com"

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	require.NotNil(t, sesMock.lastSent)
	assert.Equal(t, "scout@example.com", sesMock.lastSent.Destination.ToAddresses[0])
	assert.Nil(t, snsMock.lastPublished)
}

func TestHandler_Execute_SNSOverride(t *testing.T) {
	sesMock := &mockSES{}
	snsMock := &mockSNS{}
	handler := createTestHandler(t, testConfig(), sesMock, snsMock)

	input := testInput()
	input.Channel = "sns"

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Nil(t, sesMock.lastSent)
	assert.NotNil(t, snsMock.lastPublished)
}

func TestHandler_Execute_OverrideCannotEnableDisabledChannel(t *testing.T) {
	config := testConfig()
	config.EmailEnabled = false

	sesMock := &mockSES{}
	handler := createTestHandler(t, config, sesMock, &mockSNS{})

	input := testInput()
	input.Channel = "email"

	output, err := handler.execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Nil(t, sesMock.lastSent)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := createTestHandler(t, testConfig(), &mockSES{}, &mockSNS{})

	output, err := handler.execute(context.Background(), nil)

	assert.Error(t, err)
	assert.Nil(t, output)
}
