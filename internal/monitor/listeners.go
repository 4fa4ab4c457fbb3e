package monitor

import (
	"context"

	"github.com/roamcast/roamcast/internal/alerting"
	"github.com/roamcast/roamcast/internal/trigger"
)

// ChangeListener receives trigger events for detected weather changes. The
// reshuffling engine subscribes through this interface.
//
// Delivery contract: listeners run synchronously on the poll goroutine, in
// registration order, at most once per event. A panicking listener is
// recovered and logged; later listeners still run.
type ChangeListener interface {
	OnWeatherChange(ctx context.Context, ev trigger.Event)
}

// ChangeListenerFunc adapts a function to the ChangeListener interface.
type ChangeListenerFunc func(ctx context.Context, ev trigger.Event)

// OnWeatherChange implements ChangeListener.
func (f ChangeListenerFunc) OnWeatherChange(ctx context.Context, ev trigger.Event) {
	f(ctx, ev)
}

// AlertListener receives raised weather alerts. Same delivery contract as
// ChangeListener.
type AlertListener interface {
	OnWeatherAlert(ctx context.Context, alert alerting.Alert)
}

// AlertListenerFunc adapts a function to the AlertListener interface.
type AlertListenerFunc func(ctx context.Context, alert alerting.Alert)

// OnWeatherAlert implements AlertListener.
func (f AlertListenerFunc) OnWeatherAlert(ctx context.Context, alert alerting.Alert) {
	f(ctx, alert)
}

// OnWeatherChange registers a change listener.
func (m *Monitor) OnWeatherChange(l ChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.changeListeners = append(m.changeListeners, l)
}

// OnWeatherAlert registers an alert listener.
func (m *Monitor) OnWeatherAlert(l AlertListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alertListeners = append(m.alertListeners, l)
}

func (m *Monitor) dispatchChange(ctx context.Context, ev trigger.Event) {
	m.mu.Lock()
	listeners := append([]ChangeListener(nil), m.changeListeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		m.safeDispatch(func() { l.OnWeatherChange(ctx, ev) })
	}
}

func (m *Monitor) dispatchAlert(ctx context.Context, alert alerting.Alert) {
	m.mu.Lock()
	listeners := append([]AlertListener(nil), m.alertListeners...)
	m.mu.Unlock()

	for _, l := range listeners {
		m.safeDispatch(func() { l.OnWeatherAlert(ctx, alert) })
	}
}

// safeDispatch isolates listener panics from the poll loop.
func (m *Monitor) safeDispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Interface("panic", r).Msg("listener panicked")
		}
	}()
	fn()
}
