package alerts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ogulcanaydogan/cur-scenarios/pkg/alerts"
)

type recordingNotifier struct {
	name string
	fail bool
	got  []alerts.Alert
}

func (r *recordingNotifier) Name() string { return r.name }

func (r *recordingNotifier) Send(_ context.Context, a alerts.Alert) error {
	if r.fail {
		return errors.New("unreachable")
	}
	r.got = append(r.got, a)
	return nil
}

func TestDispatch(t *testing.T) {
	ok := &recordingNotifier{name: "ok"}
	broken := &recordingNotifier{name: "broken", fail: true}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	list := []alerts.Alert{
		{Kind: alerts.KindCoverageBelowTarget},
		{Kind: alerts.KindSavingsOpportunity},
	}

	sent := alerts.Dispatch(context.Background(), []alerts.Notifier{broken, ok}, list, logger)
	assert.Equal(t, 2, sent)
	assert.Equal(t, list, ok.got)
	assert.Empty(t, broken.got)
}

func TestDispatch_NoNotifiers(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Equal(t, 0, alerts.Dispatch(context.Background(), nil, []alerts.Alert{{}}, logger))
}
