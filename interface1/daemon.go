// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	"errors"

	"github.com/linuxdeepin/go-lib/log"

	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/loader"
)

var logger = log.NewLogger("daemon/interface")

const moduleName = "interface"

func init() {
	loader.Register(NewDaemon(logger))
}

type Daemon struct {
	*loader.ModuleBase
	manager *Manager
}

var _manager *Manager

// GetManager returns the running manager, nil when the module is stopped.
func GetManager() *Manager {
	return _manager
}

func NewDaemon(logger *log.Logger) *Daemon {
	daemon := new(Daemon)
	daemon.ModuleBase = loader.NewModuleBase(moduleName, daemon, logger)
	return daemon
}

func (d *Daemon) GetDependencies() []string {
	return []string{}
}

func (d *Daemon) Start() error {
	if d.manager != nil {
		return nil
	}
	service := loader.GetService()
	ctx := loader.GetContext()
	bus := loader.GetTopicBus()
	if service == nil || ctx == nil || bus == nil {
		return errors.New("daemon context is not ready")
	}

	for _, name := range topics {
		bus.RegisterTopic(name)
	}

	recorder := metrics.Global()
	notifier := NewNotifier(busEmitter{conn: service.Conn()}, bus, d.IsEnable, recorder)
	m, err := newManager(ctx, notifier, recorder)
	if err != nil {
		return err
	}

	err = m.export(service.Conn())
	if err != nil {
		m.unexport(service.Conn())
		return err
	}

	err = service.RequestName(dbusServiceName)
	if err != nil {
		m.unexport(service.Conn())
		return err
	}

	d.manager = m
	_manager = m
	return nil
}

func (d *Daemon) Stop() error {
	if d.manager == nil {
		return nil
	}
	service := loader.GetService()
	err := service.ReleaseName(dbusServiceName)
	if err != nil {
		logger.Warning(err)
	}
	d.manager.unexport(service.Conn())
	d.manager = nil
	_manager = nil
	return nil
}
