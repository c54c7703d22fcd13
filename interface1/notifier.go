// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	dbus "github.com/godbus/dbus/v5"

	"github.com/clight/clight-daemon/common/metrics"
)

const senderName = "INTERFACE"

// notification is one confirmed change, queued during a turn.
type notification struct {
	channel  Channel
	path     dbus.ObjectPath
	iface    string
	property string
	gated    bool
	topic    string
	payload  interface{}
}

// turn collects the notifications produced while the context lock is held.
type turn struct {
	notes []notification
}

func (t *turn) notify(n notification) {
	if n.channel == ChannelNone {
		return
	}
	t.notes = append(t.notes, n)
}

// Emitter broadcasts a property change on the remote bus, naming the
// property only.
type Emitter interface {
	EmitPropertyChanged(path dbus.ObjectPath, iface, property string) error
}

// Publisher delivers internal topic messages.
type Publisher interface {
	Publish(topic, sender string, payload interface{}) error
}

// Notifier dispatches the notifications of a finished turn.
type Notifier struct {
	emitter   Emitter
	publisher Publisher
	// active reports whether the owning module runs; gated remote
	// emissions are skipped otherwise
	active   func() bool
	recorder metrics.Recorder
}

func NewNotifier(emitter Emitter, publisher Publisher, active func() bool,
	recorder metrics.Recorder) *Notifier {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Notifier{
		emitter:   emitter,
		publisher: publisher,
		active:    active,
		recorder:  recorder,
	}
}

func (n *Notifier) isActive() bool {
	return n.active == nil || n.active()
}

func (n *Notifier) dispatch(notes []notification) {
	for _, note := range notes {
		if note.channel.Has(ChannelRemote) {
			n.emit(note)
		}
		if note.channel.Has(ChannelTopic) {
			n.publish(note)
		}
	}
}

func (n *Notifier) emit(note notification) {
	if note.gated && !n.isActive() {
		logger.Debug("module inactive, skip emitting", note.property)
		return
	}
	if n.emitter == nil {
		return
	}
	err := n.emitter.EmitPropertyChanged(note.path, note.iface, note.property)
	if err != nil {
		logger.Warning("failed to emit PropertiesChanged for", note.property, err)
		return
	}
	n.recorder.IncNotification(metrics.ChannelRemote, note.property)
}

func (n *Notifier) publish(note notification) {
	if n.publisher == nil {
		return
	}
	err := n.publisher.Publish(note.topic, senderName, note.payload)
	if err != nil {
		logger.Warning(err)
		return
	}
	n.recorder.IncNotification(metrics.ChannelTopic, note.topic)
}
