// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	"strings"

	dbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
)

// propsObject is org.freedesktop.DBus.Properties for one object path.
type propsObject struct {
	m    *Manager
	path dbus.ObjectPath
}

func (o *propsObject) Get(iface, name string) (dbus.Variant, *dbus.Error) {
	return o.m.GetProperty(o.path, iface, name)
}

func (o *propsObject) GetAll(iface string) (map[string]dbus.Variant, *dbus.Error) {
	return o.m.GetAllProperties(o.path, iface)
}

func (o *propsObject) Set(iface, name string, value dbus.Variant) *dbus.Error {
	return o.m.SetProperty(o.path, iface, name, value)
}

// introspectNode describes path, its registered interfaces and the direct
// child objects.
func (m *Manager) introspectNode(path dbus.ObjectPath) *introspect.Node {
	node := &introspect.Node{
		Name: string(path),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
		},
	}
	for _, ns := range m.registry.AtPath(path) {
		node.Interfaces = append(node.Interfaces, ns.introspect())
	}

	prefix := string(path) + "/"
	for _, other := range m.registry.Paths() {
		rest := strings.TrimPrefix(string(other), prefix)
		if rest == string(other) || rest == "" || strings.Contains(rest, "/") {
			continue
		}
		node.Children = append(node.Children, introspect.Node{Name: rest})
	}
	return node
}

func (m *Manager) export(conn *dbus.Conn) error {
	for _, path := range m.registry.Paths() {
		err := conn.Export(&propsObject{m: m, path: path}, path, propertiesInterface)
		if err != nil {
			return err
		}
		for _, ns := range m.registry.AtPath(path) {
			if len(ns.methods) == 0 {
				continue
			}
			err = conn.ExportMethodTable(ns.methodTable(), path, ns.Interface)
			if err != nil {
				return err
			}
		}
		err = conn.Export(introspect.NewIntrospectable(m.introspectNode(path)), path,
			"org.freedesktop.DBus.Introspectable")
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) unexport(conn *dbus.Conn) {
	for _, path := range m.registry.Paths() {
		for _, ns := range m.registry.AtPath(path) {
			if len(ns.methods) == 0 {
				continue
			}
			err := conn.Export(nil, path, ns.Interface)
			if err != nil {
				logger.Warning(err)
			}
		}
		for _, iface := range []string{propertiesInterface, "org.freedesktop.DBus.Introspectable"} {
			err := conn.Export(nil, path, iface)
			if err != nil {
				logger.Warning(err)
			}
		}
	}
}

// busEmitter broadcasts PropertiesChanged with the property listed as
// invalidated, so readers fetch the value again.
type busEmitter struct {
	conn *dbus.Conn
}

func (e busEmitter) EmitPropertyChanged(path dbus.ObjectPath, iface, property string) error {
	return e.conn.Emit(path, propertiesInterface+".PropertiesChanged",
		iface, map[string]dbus.Variant{}, []string{property})
}
