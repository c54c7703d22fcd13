// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package upower1

import (
	"sync"

	dbus "github.com/godbus/dbus/v5"
	"github.com/linuxdeepin/go-lib/dbusutil"
)

const (
	upowerServiceName = "org.freedesktop.UPower"
	upowerPath        = "/org/freedesktop/UPower"

	propsInterface     = "org.freedesktop.DBus.Properties"
	propsChangedMember = "PropertiesChanged"
	propsChangedSignal = propsInterface + "." + propsChangedMember
)

// subscription owns the match rule and the signal loop handler watching the
// UPower object. The signal body is ignored.
type subscription struct {
	conn      *dbus.Conn
	sigLoop   *dbusutil.SignalLoop
	handlerId dbusutil.SignalHandlerId
	closeOnce sync.Once
}

func matchOptions() []dbus.MatchOption {
	return []dbus.MatchOption{
		dbus.WithMatchObjectPath(upowerPath),
		dbus.WithMatchSender(upowerServiceName),
	}
}

func subscribe(sigLoop *dbusutil.SignalLoop, onNotify func()) (*subscription, error) {
	conn := sigLoop.Conn()
	err := conn.BusObject().AddMatchSignal(propsInterface, propsChangedMember, matchOptions()...).Err
	if err != nil {
		return nil, err
	}

	id := sigLoop.AddHandler(&dbusutil.SignalRule{
		Path: upowerPath,
		Name: propsChangedSignal,
	}, func(sig *dbus.Signal) {
		onNotify()
	})
	return &subscription{
		conn:      conn,
		sigLoop:   sigLoop,
		handlerId: id,
	}, nil
}

func (s *subscription) close() {
	s.closeOnce.Do(func() {
		s.sigLoop.RemoveHandler(s.handlerId)
		err := s.conn.BusObject().RemoveMatchSignal(propsInterface, propsChangedMember, matchOptions()...).Err
		if err != nil {
			logger.Warning(err)
		}
	})
}
