/*
 * @module service/monitoring/notifier
 * @description Notifier fan-out plus domain alert builders for pipeline
 *              failures, new source data, and weekly report delivery
 * @architecture Layered architecture - business service layer
 * @stateFlow Domain event -> alert construction -> every enabled channel
 * @rules Channel errors are logged and aggregated, never panic the caller
 * @dependencies gus-analytics-service/service/etl
 * @refs service/monitoring/notification.go, service/scheduler
 */

package monitoring

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gus-analytics-service/service/etl"
)

// Notifier fans alerts out to every registered channel.
type Notifier struct {
	channels []NotificationSender
}

// NewNotifier builds a notifier over the given channels.
func NewNotifier(channels ...NotificationSender) *Notifier {
	return &Notifier{channels: channels}
}

// Notify sends the alert to every enabled channel and returns the first
// delivery error, after trying all channels.
func (n *Notifier) Notify(alert *Alert) error {
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}

	var firstErr error
	for _, ch := range n.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(alert); err != nil {
			slog.Error("notification delivery failed",
				"channel", ch.ChannelType(), "subject", alert.Subject, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("channel %s: %w", ch.ChannelType(), err)
			}
		}
	}
	return firstErr
}

// NotifyEtlFailure reports a failed pipeline run.
func (n *Notifier) NotifyEtlFailure(outcome *etl.PipelineOutcome) error {
	body := fmt.Sprintf(
		"ETL run %s failed after %.1fs.\n\nError: %s\n\nProcessed: %d\nFailed: %d\nDropped: %d\n",
		outcome.RunUID, outcome.DurationSeconds, outcome.ErrorMessage,
		outcome.RecordsProcessed, outcome.RecordsFailed, outcome.RecordsDropped)
	return n.Notify(&Alert{
		Severity: "ERROR",
		Subject:  "Import danych GUS zakończony błędem",
		Body:     body,
	})
}

// NotifyNewData reports that the source published changed data.
func (n *Notifier) NotifyNewData(subjectID, newHash string) error {
	body := fmt.Sprintf(
		"New data detected for subject %s (content hash %s).\nAn import has been started automatically.\n",
		subjectID, newHash)
	return n.Notify(&Alert{
		Severity: "INFO",
		Subject:  "Wykryto nowe dane GUS BDL",
		Body:     body,
	})
}

// NotifyWeeklyReport delivers the weekly run summary with report locations.
func (n *Notifier) NotifyWeeklyReport(outcome *etl.PipelineOutcome, insights []string, reportPaths []string) error {
	var b strings.Builder
	b.WriteString("Cotygodniowy raport kosztów utrzymania zasobów mieszkaniowych.\n\n")
	if outcome != nil {
		fmt.Fprintf(&b, "Import: processed=%d inserted=%d failed=%d\n\n",
			outcome.RecordsProcessed, outcome.RecordsInserted, outcome.RecordsFailed)
	}
	if len(insights) > 0 {
		b.WriteString("Wnioski:\n")
		for _, insight := range insights {
			fmt.Fprintf(&b, "  - %s\n", insight)
		}
		b.WriteString("\n")
	}
	if len(reportPaths) > 0 {
		b.WriteString("Wygenerowane raporty:\n")
		for _, path := range reportPaths {
			fmt.Fprintf(&b, "  - %s\n", path)
		}
	}
	return n.Notify(&Alert{
		Severity: "INFO",
		Subject:  "Raport tygodniowy - koszty utrzymania zasobów mieszkaniowych",
		Body:     b.String(),
	})
}
