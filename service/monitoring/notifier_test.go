/*
 * @module service/monitoring/notifier_test
 * @description Notifier tests: fan-out, disabled channel skipping, alert content
 * @architecture Unit tests - fake channels, no network
 * @stateFlow Register fake channels -> notify -> verify deliveries
 * @rules Delivery failures surface as errors but never stop other channels
 * @dependencies testing, testify
 * @refs notifier.go, notification.go
 */

package monitoring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gus-analytics-service/service/config"
	"gus-analytics-service/service/etl"
)

type fakeChannel struct {
	name    string
	enabled bool
	err     error
	sent    []*Alert
}

func (f *fakeChannel) Send(alert *Alert) error {
	f.sent = append(f.sent, alert)
	return f.err
}
func (f *fakeChannel) ChannelType() string { return f.name }
func (f *fakeChannel) IsEnabled() bool     { return f.enabled }

func TestNotifier_FanOut(t *testing.T) {
	first := &fakeChannel{name: "a", enabled: true}
	second := &fakeChannel{name: "b", enabled: true}
	disabled := &fakeChannel{name: "c", enabled: false}

	notifier := NewNotifier(first, second, disabled)
	err := notifier.Notify(&Alert{Severity: "INFO", Subject: "test"})

	require.NoError(t, err)
	assert.Len(t, first.sent, 1)
	assert.Len(t, second.sent, 1)
	assert.Empty(t, disabled.sent)
	assert.False(t, first.sent[0].CreatedAt.IsZero())
}

func TestNotifier_FailureDoesNotStopOthers(t *testing.T) {
	failing := &fakeChannel{name: "email", enabled: true, err: errors.New("smtp down")}
	logging := &fakeChannel{name: "log", enabled: true}

	notifier := NewNotifier(failing, logging)
	err := notifier.Notify(&Alert{Subject: "test"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
	assert.Len(t, logging.sent, 1, "later channels still receive the alert")
}

func TestNotifier_EtlFailureAlert(t *testing.T) {
	ch := &fakeChannel{name: "log", enabled: true}
	notifier := NewNotifier(ch)

	outcome := &etl.PipelineOutcome{
		RunUID:           "run-123",
		ErrorMessage:     "api unreachable",
		RecordsProcessed: 10,
		RecordsFailed:    2,
	}
	require.NoError(t, notifier.NotifyEtlFailure(outcome))

	require.Len(t, ch.sent, 1)
	alert := ch.sent[0]
	assert.Equal(t, "ERROR", alert.Severity)
	assert.Contains(t, alert.Body, "run-123")
	assert.Contains(t, alert.Body, "api unreachable")
}

func TestNotifier_WeeklyReportAlert(t *testing.T) {
	ch := &fakeChannel{name: "log", enabled: true}
	notifier := NewNotifier(ch)

	err := notifier.NotifyWeeklyReport(
		&etl.PipelineOutcome{RecordsInserted: 42},
		[]string{"costs rose 5%"},
		[]string{"/data/output/raport_20260301.html"},
	)
	require.NoError(t, err)

	require.Len(t, ch.sent, 1)
	assert.Contains(t, ch.sent[0].Body, "inserted=42")
	assert.Contains(t, ch.sent[0].Body, "costs rose 5%")
	assert.Contains(t, ch.sent[0].Body, "raport_20260301.html")
}

func TestEmailChannel_DisabledSkips(t *testing.T) {
	ch := NewEmailChannel(config.SMTPConfig{})

	assert.False(t, ch.IsEnabled())
	assert.NoError(t, ch.Send(&Alert{Subject: "ignored"}))
}
