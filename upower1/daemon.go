// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package upower1

import (
	"errors"
	"fmt"

	dbus "github.com/godbus/dbus/v5"
	upower "github.com/linuxdeepin/go-dbus-factory/org.freedesktop.upower"
	ofdbus "github.com/linuxdeepin/go-dbus-factory/system/org.freedesktop.dbus"
	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"

	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/loader"
)

var logger = log.NewLogger("daemon/upower")

func init() {
	loader.Register(NewDaemon(logger))
}

type Daemon struct {
	*loader.ModuleBase
	reconciler *Reconciler
	sigLoop    *dbusutil.SignalLoop
	sub        *subscription
}

func NewDaemon(logger *log.Logger) *Daemon {
	daemon := new(Daemon)
	daemon.ModuleBase = loader.NewModuleBase("upower", daemon, logger)
	return daemon
}

func (d *Daemon) GetDependencies() []string {
	return []string{}
}

func newUPowerSource(conn *dbus.Conn) PowerSource {
	obj := upower.NewUPower(conn)
	return powerSourceFunc(func() (bool, error) {
		return obj.OnBattery().Get(0)
	})
}

func (d *Daemon) Start() error {
	if d.reconciler != nil {
		return nil
	}
	ctx := loader.GetContext()
	bus := loader.GetTopicBus()
	if ctx == nil || bus == nil {
		return errors.New("daemon context is not ready")
	}

	sysBus, err := dbus.SystemBus()
	if err != nil {
		return err
	}
	hasOwner, err := ofdbus.NewDBus(sysBus).NameHasOwner(0, upowerServiceName)
	if err != nil {
		return err
	}
	if !hasOwner {
		return fmt.Errorf("%s is not running", upowerServiceName)
	}

	bus.RegisterTopic(TopicUPower)
	r := newReconciler(ctx, newUPowerSource(sysBus), bus, metrics.Global())
	err = r.init()
	if err != nil {
		logger.Warning("failed to get initial OnBattery:", err)
	}

	d.sigLoop = dbusutil.NewSignalLoop(sysBus, 10)
	d.sigLoop.Start()
	d.sub, err = subscribe(d.sigLoop, r.OnNotify)
	if err != nil {
		d.sigLoop.Stop()
		d.sigLoop = nil
		return err
	}
	d.reconciler = r
	return nil
}

func (d *Daemon) Stop() error {
	if d.reconciler == nil {
		return nil
	}
	d.sub.close()
	d.sigLoop.Stop()
	d.sub = nil
	d.sigLoop = nil
	d.reconciler = nil
	return nil
}
