package webhook

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wagerbot/application"
	"wagerbot/models"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) HandlePaymentEvent(ctx context.Context, event application.PaymentEvent) (*models.PaymentConfirmation, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentConfirmation), args.Error(1)
}

type outcomeLog struct {
	mu       sync.Mutex
	outcomes []string
}

func (l *outcomeLog) RecordWebhookEvent(_ context.Context, outcome string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outcomes = append(l.outcomes, outcome)
}

func (l *outcomeLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.outcomes...)
}

func newTestServer(processor PaymentEventProcessor) (*httptest.Server, *outcomeLog) {
	outcomes := &outcomeLog{}
	s := NewServer(":0", processor, outcomes)
	return httptest.NewServer(s.Routes()), outcomes
}

func assertOK(t *testing.T, resp *http.Response) {
	t.Helper()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestIPN_CompletedPaymentIsConfirmed(t *testing.T) {
	processor := new(mockProcessor)
	ts, outcomes := newTestServer(processor)
	defer ts.Close()

	event := application.PaymentEvent{WagerID: "WGR-ABC123", UserID: 42, Status: "Completed"}
	processor.On("HandlePaymentEvent", mock.Anything, event).
		Return(&models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 42, Changed: true, PaidCount: 1}, nil).Once()

	resp, err := http.PostForm(ts.URL+"/paypal/ipn", url.Values{
		"payment_status": {"Completed"},
		"invoice":        {"WGR-ABC123"},
		"custom":         {"42"},
	})
	require.NoError(t, err)

	assertOK(t, resp)
	processor.AssertExpectations(t)
	assert.Equal(t, []string{OutcomeConfirmed}, outcomes.list())
}

func TestIPN_PendingPaymentIsAcknowledgedOnly(t *testing.T) {
	processor := new(mockProcessor)
	ts, outcomes := newTestServer(processor)
	defer ts.Close()

	resp, err := http.PostForm(ts.URL+"/paypal/ipn", url.Values{
		"payment_status": {"Pending"},
		"invoice":        {"WGR-ABC123"},
		"custom":         {"42"},
	})
	require.NoError(t, err)

	assertOK(t, resp)
	processor.AssertNotCalled(t, "HandlePaymentEvent", mock.Anything, mock.Anything)
	assert.Equal(t, []string{OutcomeIgnored}, outcomes.list())
}

func TestIPN_InvalidUserIsAcknowledged(t *testing.T) {
	processor := new(mockProcessor)
	ts, outcomes := newTestServer(processor)
	defer ts.Close()

	resp, err := http.PostForm(ts.URL+"/paypal/ipn", url.Values{
		"payment_status": {"Completed"},
		"invoice":        {"WGR-ABC123"},
		"custom":         {"not-a-user"},
	})
	require.NoError(t, err)

	assertOK(t, resp)
	processor.AssertNotCalled(t, "HandlePaymentEvent", mock.Anything, mock.Anything)
	assert.Equal(t, []string{OutcomeMalformed}, outcomes.list())
}

func TestJSONWebhook_LedgerErrorStillAcknowledged(t *testing.T) {
	processor := new(mockProcessor)
	ts, outcomes := newTestServer(processor)
	defer ts.Close()

	event := application.PaymentEvent{WagerID: "WGR-NOPE00", UserID: 987654321012345678, Status: "completed"}
	processor.On("HandlePaymentEvent", mock.Anything, event).Return(nil, errors.New("not_found: wager WGR-NOPE00 not found")).Once()

	resp, err := http.Post(ts.URL+"/payments/webhook", "application/json",
		strings.NewReader(`{"wager_id":"WGR-NOPE00","user_id":"987654321012345678","status":"completed"}`))
	require.NoError(t, err)

	assertOK(t, resp)
	processor.AssertExpectations(t)
	assert.Equal(t, []string{OutcomeRejected}, outcomes.list())
}

func TestJSONWebhook_NumericUserID(t *testing.T) {
	processor := new(mockProcessor)
	ts, _ := newTestServer(processor)
	defer ts.Close()

	event := application.PaymentEvent{WagerID: "WGR-ABC123", UserID: 42, Status: "COMPLETED"}
	processor.On("HandlePaymentEvent", mock.Anything, event).
		Return(&models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 42}, nil).Once()

	resp, err := http.Post(ts.URL+"/payments/webhook", "application/json",
		strings.NewReader(`{"wager_id":"WGR-ABC123","user_id":42,"status":"COMPLETED"}`))
	require.NoError(t, err)

	assertOK(t, resp)
	processor.AssertExpectations(t)
}

func TestJSONWebhook_MalformedBodyAcknowledged(t *testing.T) {
	processor := new(mockProcessor)
	ts, outcomes := newTestServer(processor)
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payments/webhook", "application/json", strings.NewReader(`{not json`))
	require.NoError(t, err)

	assertOK(t, resp)
	assert.Equal(t, []string{OutcomeMalformed}, outcomes.list())
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(new(mockProcessor))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assertOK(t, resp)
}

func TestSecret_MissingSecretIsAcknowledgedAndDropped(t *testing.T) {
	processor := new(mockProcessor)
	outcomes := &outcomeLog{}
	ts := httptest.NewServer(NewServer(":0", processor, outcomes).WithSecret("s3cret").Routes())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/payments/webhook", "application/json",
		strings.NewReader(`{"wager_id":"WGR-ABC123","user_id":42,"status":"completed"}`))
	require.NoError(t, err)

	assertOK(t, resp)
	processor.AssertNotCalled(t, "HandlePaymentEvent", mock.Anything, mock.Anything)
	assert.Equal(t, []string{OutcomeUnauthorized}, outcomes.list())
}

func TestSecret_HeaderAndTokenAccepted(t *testing.T) {
	processor := new(mockProcessor)
	outcomes := &outcomeLog{}
	ts := httptest.NewServer(NewServer(":0", processor, outcomes).WithSecret("s3cret").Routes())
	defer ts.Close()

	event := application.PaymentEvent{WagerID: "WGR-ABC123", UserID: 42, Status: "completed"}
	processor.On("HandlePaymentEvent", mock.Anything, event).
		Return(&models.PaymentConfirmation{WagerID: "WGR-ABC123", UserID: 42, Changed: true}, nil).Twice()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/payments/webhook",
		strings.NewReader(`{"wager_id":"WGR-ABC123","user_id":42,"status":"completed"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SecretHeader, "s3cret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assertOK(t, resp)

	resp, err = http.PostForm(ts.URL+"/paypal/ipn?token=s3cret", url.Values{
		"payment_status": {"completed"},
		"invoice":        {"WGR-ABC123"},
		"custom":         {"42"},
	})
	require.NoError(t, err)
	assertOK(t, resp)

	processor.AssertExpectations(t)
	assert.Equal(t, []string{OutcomeConfirmed, OutcomeConfirmed}, outcomes.list())
}

func TestSecret_HealthStaysOpen(t *testing.T) {
	ts := httptest.NewServer(NewServer(":0", new(mockProcessor), nil).WithSecret("s3cret").Routes())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	assertOK(t, resp)
}
