// SPDX-FileCopyrightText: 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/linuxdeepin/go-lib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Test_Module struct {
	*ModuleBase
	dependencies string
	startErr     error
	trace        *[]string
}

type testItem struct {
	input  Modules
	output error
}

func NewTestModule(name, dependencies string, trace *[]string) *Test_Module {
	daemon := new(Test_Module)
	logger := log.NewLogger(name)
	daemon.ModuleBase = NewModuleBase(name, daemon, logger)
	daemon.dependencies = dependencies
	daemon.trace = trace
	return daemon
}

func (d *Test_Module) GetDependencies() []string {
	if d.dependencies == "" {
		return nil
	}
	return strings.Split(d.dependencies, " ")
}

func (d *Test_Module) Start() error {
	if d.startErr != nil {
		return d.startErr
	}
	if d.trace != nil {
		*d.trace = append(*d.trace, "start "+d.Name())
	}
	return nil
}

func (d *Test_Module) Stop() error {
	if d.trace != nil {
		*d.trace = append(*d.trace, "stop "+d.Name())
	}
	return nil
}

func resetLoader() {
	_loader = &Loader{
		modules: Modules{},
		log:     log.NewLogger("daemon/loader"),
	}
}

func Test_Loader(t *testing.T) {
	testItems := []testItem{
		{
			Modules{
				"1": NewTestModule("1", "", nil),
				"2": NewTestModule("2", "", nil),
				"3": NewTestModule("3", "", nil),
			},
			nil,
		},
		{
			Modules{
				"1": NewTestModule("1", "2", nil),
				"2": NewTestModule("2", "3", nil),
				"3": NewTestModule("3", "", nil),
			},
			nil,
		},
		{
			Modules{
				"1": NewTestModule("1", "2", nil),
				"2": NewTestModule("2", "3", nil),
				"3": NewTestModule("3", "1", nil),
			},
			&EnableError{Code: ErrorCircleDependencies},
		},
	}
	for _, data := range testItems {
		resetLoader()
		allModules := []string{}
		for name, module := range data.input {
			Register(module)
			allModules = append(allModules, name)
		}
		err := EnableModules(allModules, nil, EnableFlagNone)
		if data.output == nil {
			assert.NoError(t, err)
			for _, m := range data.input {
				assert.True(t, m.IsEnable())
			}
			continue
		}
		var enableErr *EnableError
		require.True(t, errors.As(err, &enableErr))
		assert.Equal(t, data.output.(*EnableError).Code, enableErr.Code)
	}
}

func TestStartOrderAndStop(t *testing.T) {
	resetLoader()
	var trace []string
	Register(NewTestModule("interface", "", &trace))
	Register(NewTestModule("upower", "interface", &trace))

	require.NoError(t, EnableModules([]string{"upower"}, nil, EnableFlagNone))
	assert.Equal(t, []string{"start interface", "start upower"}, trace)
	assert.True(t, IsRunning("interface"))
	assert.True(t, IsRunning("upower"))
	assert.False(t, IsRunning("missing"))

	StopAll()
	assert.Equal(t, []string{"start interface", "start upower", "stop upower", "stop interface"}, trace)
	assert.False(t, IsRunning("interface"))
}

func TestFailedDependencySkipsDependents(t *testing.T) {
	resetLoader()
	var trace []string
	base := NewTestModule("upower", "", &trace)
	base.startErr = errors.New("org.freedesktop.UPower not available")
	Register(base)
	Register(NewTestModule("dimmer", "upower", &trace))
	Register(NewTestModule("interface", "", &trace))

	require.NoError(t, EnableModules([]string{"dimmer", "interface"}, nil, EnableFlagNone))
	assert.Equal(t, []string{"start interface"}, trace)
	assert.False(t, IsRunning("upower"))
	assert.False(t, IsRunning("dimmer"))
}

func TestMissingAndDisabledModules(t *testing.T) {
	resetLoader()
	Register(NewTestModule("interface", "", nil))

	err := EnableModules([]string{"nope"}, nil, EnableFlagNone)
	var enableErr *EnableError
	require.True(t, errors.As(err, &enableErr))
	assert.Equal(t, ErrorMissingModule, enableErr.Code)

	assert.NoError(t, EnableModules([]string{"nope"}, nil, EnableFlagIgnoreMissingModule))

	err = EnableModules([]string{"interface"}, []string{"interface"}, EnableFlagNone)
	require.True(t, errors.As(err, &enableErr))
	assert.Equal(t, ErrorConflict, enableErr.Code)
	assert.False(t, IsRunning("interface"))

	assert.NoError(t, EnableModules([]string{"interface"}, []string{"interface"}, EnableFlagForceStart))
	assert.True(t, IsRunning("interface"))
}

func TestModuleBaseEnableTwice(t *testing.T) {
	m := NewTestModule("interface", "", nil)
	require.NoError(t, m.Enable(true))
	assert.Error(t, m.Enable(true))
	require.NoError(t, m.Enable(false))
	assert.Error(t, m.Enable(false))
}
