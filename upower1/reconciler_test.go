// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package upower1

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/common/topic"
	"github.com/clight/clight-daemon/state"
)

// fakeSource replays a fixed sequence of fetch results.
type fakeSource struct {
	values []bool
	errs   []error
	calls  int
}

func (s *fakeSource) OnBattery() (bool, error) {
	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return false, s.errs[i]
	}
	return s.values[i], nil
}

type countingRecorder struct {
	metrics.NoopRecorder
	outcomes []metrics.Outcome
}

func (r *countingRecorder) IncReconcile(service string, outcome metrics.Outcome) {
	r.outcomes = append(r.outcomes, outcome)
}

func newTestBus(t *testing.T) (*topic.Bus, *[]*topic.Message) {
	bus := topic.NewBus()
	bus.RegisterTopic(TopicUPower)
	var got []*topic.Message
	_, err := bus.Subscribe(TopicUPower, topic.ReceiverFunc(func(msg *topic.Message, _ interface{}) {
		got = append(got, msg)
	}), nil)
	require.NoError(t, err)
	return bus, &got
}

func TestReconcilerDeduplicates(t *testing.T) {
	ctx := state.NewContext(nil, nil)
	bus, got := newTestBus(t)
	source := &fakeSource{values: []bool{true, true, false}}
	recorder := &countingRecorder{}
	r := newReconciler(ctx, source, bus, recorder)

	r.OnNotify()
	require.Len(t, *got, 1)
	assert.Equal(t, "Changed", (*got)[0].Payload)
	assert.Equal(t, state.OnBattery, ctx.State.ACState)

	r.OnNotify()
	assert.Len(t, *got, 1)

	r.OnNotify()
	assert.Len(t, *got, 2)
	assert.Equal(t, state.OnAC, ctx.State.ACState)
	assert.False(t, r.onBattery)
	assert.Equal(t, []metrics.Outcome{
		metrics.OutcomeTransition,
		metrics.OutcomeUnchanged,
		metrics.OutcomeTransition,
	}, recorder.outcomes)
}

func TestReconcilerFetchFailure(t *testing.T) {
	ctx := state.NewContext(nil, nil)
	bus, got := newTestBus(t)
	source := &fakeSource{
		values: []bool{true, false},
		errs:   []error{nil, errors.New("no reply")},
	}
	r := newReconciler(ctx, source, bus, nil)

	require.NoError(t, r.init())
	assert.True(t, r.onBattery)
	assert.Equal(t, state.OnBattery, ctx.State.ACState)
	assert.Empty(t, *got)

	r.OnNotify()
	assert.True(t, r.onBattery)
	assert.Equal(t, state.OnBattery, ctx.State.ACState)
	assert.Empty(t, *got)
}

func TestReconcilerInitFailureKeepsDefault(t *testing.T) {
	ctx := state.NewContext(nil, nil)
	bus, got := newTestBus(t)
	source := &fakeSource{
		values: []bool{false, false},
		errs:   []error{errors.New("no reply")},
	}
	r := newReconciler(ctx, source, bus, nil)

	assert.Error(t, r.init())
	assert.False(t, r.onBattery)
	assert.Equal(t, state.OnAC, ctx.State.ACState)

	r.OnNotify()
	assert.Empty(t, *got)
}

func TestAcStateOf(t *testing.T) {
	assert.Equal(t, state.OnBattery, acStateOf(true))
	assert.Equal(t, state.OnAC, acStateOf(false))
}
