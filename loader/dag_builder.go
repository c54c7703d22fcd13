// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package loader

import (
	"github.com/linuxdeepin/go-lib/log"
	"github.com/linuxdeepin/go-lib/strv"
)

// DAGBuilder resolves the modules to enable, dependencies included, into a
// start order where every module comes after its dependencies.
type DAGBuilder struct {
	modules         Modules
	enablingModules []string
	disableModules  strv.Strv
	flag            EnableFlag

	log *log.Logger
}

func NewDAGBuilder(loader *Loader, enablingModules []string, disableModules []string, flag EnableFlag) *DAGBuilder {
	var disabled strv.Strv
	for _, name := range disableModules {
		if _, ok := loader.modules[name]; !ok {
			loader.log.Warningf("disabled module(%s) is no existed", name)
			continue
		}
		disabled = append(disabled, name)
	}

	return &DAGBuilder{
		modules:         loader.modules,
		enablingModules: enablingModules,
		disableModules:  disabled,
		flag:            flag,
		log:             loader.log,
	}
}

const (
	markNone = iota
	markVisiting
	markDone
)

func (builder *DAGBuilder) visit(name string, marks map[string]int, order *[]string) error {
	switch marks[name] {
	case markDone:
		return nil
	case markVisiting:
		return &EnableError{ModuleName: name, Code: ErrorCircleDependencies}
	}

	module, ok := builder.modules[name]
	if !ok {
		if builder.flag.HasFlag(EnableFlagIgnoreMissingModule) {
			builder.log.Info("no such a module named", name)
			marks[name] = markDone
			return nil
		}
		return &EnableError{ModuleName: name, Code: ErrorMissingModule}
	}
	if builder.disableModules.Contains(name) && !builder.flag.HasFlag(EnableFlagForceStart) {
		return &EnableError{ModuleName: name, Code: ErrorConflict}
	}

	marks[name] = markVisiting
	for _, dependency := range module.GetDependencies() {
		err := builder.visit(dependency, marks, order)
		if err != nil {
			return err
		}
	}
	marks[name] = markDone
	*order = append(*order, name)
	return nil
}

// Execute returns the module names in start order.
func (builder *DAGBuilder) Execute() ([]string, error) {
	marks := make(map[string]int, len(builder.modules))
	order := make([]string, 0, len(builder.enablingModules))
	for _, name := range builder.enablingModules {
		err := builder.visit(name, marks, &order)
		if err != nil {
			return nil, err
		}
	}
	return order, nil
}
