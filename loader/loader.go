// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"fmt"
	"sync"
	"time"

	"github.com/linuxdeepin/go-lib/dbusutil"
	"github.com/linuxdeepin/go-lib/log"

	"github.com/clight/clight-daemon/common/topic"
	"github.com/clight/clight-daemon/state"
)

type EnableFlag int

const (
	EnableFlagNone EnableFlag = 1 << iota
	EnableFlagIgnoreMissingModule
	EnableFlagForceStart
)

func (flags EnableFlag) HasFlag(flag EnableFlag) bool {
	return flags&flag != 0
}

const (
	ErrorNoDependencies int = iota
	ErrorCircleDependencies
	ErrorMissingModule
	ErrorInternalError
	ErrorConflict
)

type EnableError struct {
	ModuleName string
	Code       int
	detail     string
}

func (e *EnableError) Error() string {
	switch e.Code {
	case ErrorNoDependencies:
		return fmt.Sprintf("%s's dependencies is not meet, %s is need", e.ModuleName, e.detail)
	case ErrorCircleDependencies:
		return "dependency circle"
	case ErrorMissingModule:
		return fmt.Sprintf("%s is missing", e.ModuleName)
	case ErrorInternalError:
		return fmt.Sprintf("%s started failed: %s", e.ModuleName, e.detail)
	case ErrorConflict:
		return fmt.Sprintf("tring to enable disabled module(%s)", e.ModuleName)
	}
	panic("EnableError: Unknown Error, Should not be reached")
}

type Loader struct {
	modules Modules
	log     *log.Logger
	lock    sync.Mutex
	service *dbusutil.Service
	ctx     *state.Context
	bus     *topic.Bus
	// start order of the enabled modules, used to stop them in reverse
	started []string
}

func (l *Loader) SetLogLevel(pri log.Priority) {
	l.log.SetLogLevel(pri)

	l.lock.Lock()
	defer l.lock.Unlock()

	for _, module := range l.modules {
		module.SetLogLevel(pri)
	}
}

func (l *Loader) AddModule(m Module) {
	l.lock.Lock()
	defer l.lock.Unlock()
	name := m.Name()
	_, exist := l.modules[name]
	if exist {
		l.log.Debug("Register", name, "is already registered")
		return
	}
	l.log.Debug("Register module:", name)
	l.modules[name] = m
}

func (l *Loader) DeleteModule(name string) {
	l.lock.Lock()
	defer l.lock.Unlock()
	delete(l.modules, name)
}

func (l *Loader) List() []Module {
	l.lock.Lock()
	defer l.lock.Unlock()
	modules := make([]Module, 0, len(l.modules))
	for _, m := range l.modules {
		modules = append(modules, m)
	}
	return modules
}

func (l *Loader) GetModule(name string) Module {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.modules[name]
}

// IsRunning reports whether the named module is registered and enabled.
func (l *Loader) IsRunning(name string) bool {
	m := l.GetModule(name)
	return m != nil && m.IsEnable()
}

// EnableModules starts the modules and their dependencies one after the
// other. A module failing to start is logged and skipped; modules depending
// on it are skipped too.
func (l *Loader) EnableModules(enablingModules []string, disableModules []string, flag EnableFlag) error {
	l.lock.Lock()
	startTime := time.Now()
	builder := NewDAGBuilder(l, enablingModules, disableModules, flag)
	order, err := builder.Execute()
	if err != nil {
		l.lock.Unlock()
		return err
	}
	l.log.Infof("resolve start order done, cost %s", time.Since(startTime))
	modules := make([]Module, 0, len(order))
	for _, name := range order {
		if m, ok := l.modules[name]; ok {
			modules = append(modules, m)
		}
	}
	l.lock.Unlock()

	failed := make(map[string]bool)
	for _, module := range modules {
		name := module.Name()
		if module.IsEnable() {
			continue
		}
		skip := false
		for _, dependency := range module.GetDependencies() {
			if failed[dependency] {
				l.log.Warningf("skip module %s, dependency %s is not running", name, dependency)
				skip = true
				break
			}
		}
		if skip {
			failed[name] = true
			continue
		}

		moduleStart := time.Now()
		l.log.Info("enable module", name)
		err := module.Enable(true)
		if err != nil {
			failed[name] = true
			l.log.Warningf("enable module %s failed: %s, cost %s", name, err, time.Since(moduleStart))
			continue
		}
		l.log.Infof("enable module %s done cost %s", name, time.Since(moduleStart))
		l.lock.Lock()
		l.started = append(l.started, name)
		l.lock.Unlock()
	}

	l.log.Infof("enable modules done, cost add up to %s", time.Since(startTime))
	return nil
}

// StopAll stops the started modules in reverse start order.
func (l *Loader) StopAll() {
	l.lock.Lock()
	started := l.started
	l.started = nil
	l.lock.Unlock()

	for i := len(started) - 1; i >= 0; i-- {
		module := l.GetModule(started[i])
		if module == nil || !module.IsEnable() {
			continue
		}
		err := module.Enable(false)
		if err != nil {
			l.log.Warningf("disable module %s failed: %s", started[i], err)
		}
	}
}
