// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	dbus "github.com/godbus/dbus/v5"

	"github.com/clight/clight-daemon/state"
)

var (
	sigBool     = dbus.ParseSignatureMust("b")
	sigInt32    = dbus.ParseSignatureMust("i")
	sigUint64   = dbus.ParseSignatureMust("t")
	sigDouble   = dbus.ParseSignatureMust("d")
	sigString   = dbus.ParseSignatureMust("s")
	sigLocation = dbus.ParseSignatureMust("(dd)")
	sigCurve    = dbus.ParseSignatureMust("ad")
)

// TimeoutChange is published when the timeout currently in effect is
// rewritten.
type TimeoutChange struct {
	Name string
	Old  int32
}

const (
	timeoutNameBacklight = "backlight_timeout"
	timeoutNameDimmer    = "dimmer_timeout"
	timeoutNameDPMS      = "dpms_timeout"
)

// decode checks the wire type first so a mismatching variant never reaches
// the field, then stores the value into dst.
func decode(v dbus.Variant, sig dbus.Signature, dst interface{}) *dbus.Error {
	if v.Signature() != sig {
		return errInvalidArgs("expected type %s, got %s", sig, v.Signature())
	}
	err := dbus.Store([]interface{}{v.Value()}, dst)
	if err != nil {
		return errInvalidArgs("%v", err)
	}
	return nil
}

func channelOf(access Access) Channel {
	if access == AccessEmitsChange {
		return ChannelRemote
	}
	return ChannelNone
}

// readOnly binds a const or emits-change property to get.
func readOnly[T any](name string, sig dbus.Signature, access Access, get func() T) *Property {
	return &Property{
		Name:      name,
		Signature: sig,
		Access:    access,
		Channel:   channelOf(access),
		get: func() interface{} {
			return get()
		},
	}
}

// scalar binds a field reached through ref. The decoded value is always
// stored; a notification is queued and onChange called only when it
// differs from the previous one.
func scalar[T comparable](name string, sig dbus.Signature, access Access, channel Channel,
	topic string, ref func() *T, onChange func(T)) *Property {
	p := &Property{
		Name:      name,
		Signature: sig,
		Access:    access,
		Channel:   channel,
		Topic:     topic,
	}
	p.get = func() interface{} {
		return *ref()
	}
	p.set = func(t *turn, value dbus.Variant) *dbus.Error {
		var val T
		err := decode(value, sig, &val)
		if err != nil {
			return err
		}
		field := ref()
		old := *field
		*field = val
		if old != val {
			t.notify(p.notification(nil))
			if onChange != nil {
				onChange(val)
			}
		}
		return nil
	}
	return p
}

// writable is a plain setting, announced on the remote bus only.
func writable[T comparable](name string, sig dbus.Signature, ref func() *T) *Property {
	return scalar(name, sig, AccessWritable, ChannelRemote, "", ref, nil)
}

// hooked settings share one internal topic and have no remote broadcast.
func hooked[T comparable](name string, sig dbus.Signature, topic string, ref func() *T) *Property {
	return scalar(name, sig, AccessWritableHook, ChannelTopic, topic, ref, nil)
}

// curve validates the length before copying, so a rejected write leaves the
// stored points untouched. Every accepted write is published with the power
// state the curve belongs to.
func curve(name string, ac state.ACState, ref func() *state.Curve) *Property {
	p := &Property{
		Name:      name,
		Signature: sigCurve,
		Access:    AccessWritable,
		Channel:   ChannelTopic,
		Topic:     TopicCurve,
	}
	p.get = func() interface{} {
		points := *ref()
		return points[:]
	}
	p.set = func(t *turn, value dbus.Variant) *dbus.Error {
		var points []float64
		err := decode(value, sigCurve, &points)
		if err != nil {
			return err
		}
		if len(points) != state.CurvePoints {
			logger.Debugf("%s: got %d points, want %d", name, len(points), state.CurvePoints)
			return errWrongParameters
		}
		copy(ref()[:], points)
		t.notify(p.notification(ac))
		return nil
	}
	return p
}

// timeout stores the new duration and, when the written slot is the one in
// effect right now, publishes the previous value under notifyName. Writes to
// inactive slots are silent.
func timeout(name, notifyName, topic string, ref func() *int32, inEffect func() bool) *Property {
	p := &Property{
		Name:      name,
		Signature: sigInt32,
		Access:    AccessWritableHook,
		Channel:   ChannelTopic,
		Topic:     topic,
	}
	p.get = func() interface{} {
		return *ref()
	}
	p.set = func(t *turn, value dbus.Variant) *dbus.Error {
		var val int32
		err := decode(value, sigInt32, &val)
		if err != nil {
			return err
		}
		field := ref()
		old := *field
		*field = val
		if old != val && inEffect() {
			t.notify(p.notification(TimeoutChange{Name: notifyName, Old: old}))
		}
		return nil
	}
	return p
}
