// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package upower1

import (
	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/state"
)

const (
	TopicUPower = "UPower"
	msgChanged  = "Changed"
	senderName  = "UPOWER"
)

// PowerSource fetches the OnBattery property of the power monitor.
type PowerSource interface {
	OnBattery() (bool, error)
}

type powerSourceFunc func() (bool, error)

func (f powerSourceFunc) OnBattery() (bool, error) {
	return f()
}

// Publisher delivers internal topic messages.
type Publisher interface {
	Publish(topic, sender string, payload interface{}) error
}

// Reconciler turns the coarse PropertiesChanged broadcasts of UPower into
// one UPower topic message per real OnBattery transition.
type Reconciler struct {
	ctx       *state.Context
	source    PowerSource
	publisher Publisher
	recorder  metrics.Recorder

	// last fetched value, only accessed inside a context turn
	onBattery bool
}

func newReconciler(ctx *state.Context, source PowerSource, publisher Publisher,
	recorder metrics.Recorder) *Reconciler {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Reconciler{
		ctx:       ctx,
		source:    source,
		publisher: publisher,
		recorder:  recorder,
	}
}

// init reads the initial value. A failure keeps the default and is only
// reported to the caller for logging.
func (r *Reconciler) init() error {
	onBattery, err := r.source.OnBattery()
	if err != nil {
		return err
	}

	r.ctx.Lock()
	r.onBattery = onBattery
	r.ctx.State.ACState = acStateOf(onBattery)
	r.ctx.Unlock()
	logger.Info("initial power source:", acStateOf(onBattery))
	return nil
}

// OnNotify is called for every broadcast of the watched object, whatever
// property it is about.
func (r *Reconciler) OnNotify() {
	onBattery, err := r.source.OnBattery()
	if err != nil {
		logger.Warning("failed to get OnBattery:", err)
		r.recorder.IncReconcile(TopicUPower, metrics.OutcomeFetchFailed)
		return
	}

	r.ctx.Lock()
	changed := onBattery != r.onBattery
	if changed {
		r.onBattery = onBattery
		r.ctx.State.ACState = acStateOf(onBattery)
	}
	r.ctx.Unlock()

	if !changed {
		r.recorder.IncReconcile(TopicUPower, metrics.OutcomeUnchanged)
		return
	}

	if onBattery {
		logger.Info("AC cable disconnected, powersaving mode enabled")
	} else {
		logger.Info("AC cable connected, powersaving mode disabled")
	}
	r.recorder.IncReconcile(TopicUPower, metrics.OutcomeTransition)
	err = r.publisher.Publish(TopicUPower, senderName, msgChanged)
	if err != nil {
		logger.Warning(err)
	}
}

func acStateOf(onBattery bool) state.ACState {
	if onBattery {
		return state.OnBattery
	}
	return state.OnAC
}
