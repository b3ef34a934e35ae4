package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastPathNoTelemetry(t *testing.T) {
	SetTelemetryReporter(nil)

	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
}

func TestBuilderKeepsContextAndCategory(t *testing.T) {
	t.Parallel()

	sentinel := NewStd("lifelist not found")
	ee := New(sentinel).
		Component("lifelist").
		Category(CategoryNotFound).
		Context("lifelist_id", 42).
		Build()

	require.ErrorIs(t, ee, sentinel)
	assert.True(t, IsNotFound(ee))
	assert.False(t, IsValidation(ee))
	assert.Equal(t, "lifelist", ee.GetComponent())
	assert.Equal(t, 42, ee.GetContext()["lifelist_id"])

	wrapped := fmt.Errorf("outer: %w", ee)
	assert.True(t, IsNotFound(wrapped))
	assert.Equal(t, CategoryNotFound, CategoryOf(wrapped))
	assert.Equal(t, CategoryGeneric, CategoryOf(fmt.Errorf("plain")))
}

func TestDetectCategoryHeuristics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err       error
		component string
		want      ErrorCategory
	}{
		{fmt.Errorf("UNIQUE constraint failed: tags.name"), "", CategoryConflict},
		{fmt.Errorf("classification not found"), "", CategoryNotFound},
		{fmt.Errorf("parse error on line 3"), "", CategoryFileParsing},
		{fmt.Errorf("something odd"), "datastore", CategoryDatabase},
		{fmt.Errorf("something odd"), "registry", CategoryConfiguration},
		{fmt.Errorf("something odd"), "", CategoryGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, detectCategory(tt.err, tt.component), tt.err.Error())
	}
}

func TestBuilderPriorityAndNetworkContext(t *testing.T) {
	t.Parallel()

	ee := New(fmt.Errorf("duplicate tag")).
		Category(CategoryConflict).
		Priority(PriorityLow).
		Build()
	assert.Equal(t, PriorityLow, ee.GetPriority())
	assert.Equal(t, sentry.LevelInfo, eventLevel(ee))

	ee = New(fmt.Errorf("schema")).Category(CategoryDatabase).Priority(PriorityCritical).Build()
	assert.Equal(t, sentry.LevelFatal, eventLevel(ee))

	assert.Equal(t, PriorityMedium, New(fmt.Errorf("x")).Priority("urgent").Build().GetPriority())
	assert.Empty(t, New(fmt.Errorf("x")).Priority("").Build().GetPriority())
	assert.Equal(t, sentry.LevelWarning, eventLevel(New(fmt.Errorf("x")).Category(CategoryNetwork).Build()))

	ee = New(fmt.Errorf("timeout")).
		NetworkContext("https://api.ebird.org/v2/ref/taxonomy/ebird?key=secret", 30*time.Second).
		Build()
	ctx := ee.GetContext()
	assert.Equal(t, "https-endpoint", ctx["url_category"])
	assert.InDelta(t, 30.0, ctx["timeout_seconds"], 0.001)
	for _, v := range ctx {
		assert.NotContains(t, fmt.Sprint(v), "secret")
	}
	assert.NotContains(t, New(fmt.Errorf("x")).NetworkContext("", 0).Build().GetContext(), "url_category")
}

func TestLookupComponent(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "classification",
		lookupComponent("github.com/rcrdcsnv/LifelistTracker-sub001/internal/classification.(*Service).Search"))
	assert.Equal(t, "datastore",
		lookupComponent("github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore/repository.(*tagRepository).Create"))
	assert.Equal(t, "configuration",
		lookupComponent("github.com/rcrdcsnv/LifelistTracker-sub001/internal/conf.Load"))
	assert.Equal(t, ComponentUnknown, lookupComponent("main.main"))
}

func TestScrubMessageForPrivacy(t *testing.T) {
	t.Parallel()

	scrubbed := scrubMessageForPrivacy("GET https://api.ebird.org/v2/ref?key=abc failed")
	assert.Equal(t, "GET https://api.ebird.org/v2/ref?[REDACTED] failed", scrubbed)

	scrubbed = scrubMessageForPrivacy("config api_key=secret123 is invalid")
	assert.Contains(t, scrubbed, "[API_KEY_REDACTED]")
	assert.NotContains(t, scrubbed, "secret123")
}

func TestSentryReporterCapturesOnce(t *testing.T) {
	t.Parallel()

	var events []*sentry.Event
	reporter := &SentryReporter{enabled: true, capture: func(e *sentry.Event) { events = append(events, e) }}

	ee := New(fmt.Errorf("download https://example.org/a.csv?token=x failed")).
		Component("classification").
		Category(CategoryNetwork).
		Context("operation", "download_source").
		Build()

	reporter.ReportError(ee)
	reporter.ReportError(ee)

	require.Len(t, events, 1)
	assert.Equal(t, sentry.LevelWarning, events[0].Level)
	assert.Equal(t, "Classification Network Error Download Source", events[0].Tags["error_title"])
	assert.NotContains(t, events[0].Message, "token=x")
	assert.True(t, ee.IsReported())
}

func TestDisabledSentryReporterIsNoop(t *testing.T) {
	t.Parallel()

	called := false
	reporter := &SentryReporter{enabled: false, capture: func(*sentry.Event) { called = true }}
	reporter.ReportError(New(fmt.Errorf("x")).Build())
	assert.False(t, called)
}
