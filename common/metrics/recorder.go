// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes daemon counters. Components hold a Recorder and
// default to NoopRecorder; the Prometheus implementation is installed by the
// daemon binary when a metrics address is configured.
package metrics

// Result of a remote property write.
type Result string

const (
	ResultOk       Result = "ok"
	ResultInvalid  Result = "invalid"
	ResultReadOnly Result = "read_only"
	ResultFailed   Result = "failed"
)

// Channel of an emitted notification.
type Channel string

const (
	ChannelRemote Channel = "remote"
	ChannelTopic  Channel = "topic"
)

// Outcome of one reconciler notification.
type Outcome string

const (
	OutcomeTransition  Outcome = "transition"
	OutcomeUnchanged   Outcome = "unchanged"
	OutcomeFetchFailed Outcome = "fetch_failed"
)

type Recorder interface {
	IncPropertyWrite(iface, property string, result Result)
	IncMethodCall(method string, result Result)
	IncNotification(channel Channel, name string)
	IncReconcile(service string, outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) IncPropertyWrite(string, string, Result) {}
func (NoopRecorder) IncMethodCall(string, Result)            {}
func (NoopRecorder) IncNotification(Channel, string)         {}
func (NoopRecorder) IncReconcile(string, Outcome)            {}

var _global Recorder = NoopRecorder{}

// SetGlobal installs the recorder handed to modules started afterwards.
func SetGlobal(r Recorder) {
	if r == nil {
		r = NoopRecorder{}
	}
	_global = r
}

func Global() Recorder {
	return _global
}
