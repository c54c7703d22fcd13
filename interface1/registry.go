// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	"fmt"
	"sort"

	dbus "github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

// Access is the access mode of a registered property.
type Access int

const (
	// AccessConst never changes once registered.
	AccessConst Access = iota
	// AccessEmitsChange is read-only for callers and changed by the daemon.
	AccessEmitsChange
	// AccessWritable is stored as written, no side effect.
	AccessWritable
	// AccessWritableHook routes writes through a dedicated setter.
	AccessWritableHook
)

func (a Access) writable() bool {
	return a == AccessWritable || a == AccessWritableHook
}

func (a Access) introspectAccess() string {
	if a.writable() {
		return "readwrite"
	}
	return "read"
}

func (a Access) emitsChangedSignal() string {
	switch a {
	case AccessConst:
		return "const"
	case AccessEmitsChange:
		return "true"
	}
	return "false"
}

// Channel tells where a confirmed change of a member is announced.
type Channel uint

const ChannelNone Channel = 0

const (
	// ChannelRemote emits org.freedesktop.DBus.Properties.PropertiesChanged
	// naming the property, without value.
	ChannelRemote Channel = 1 << iota
	// ChannelTopic publishes on the member's internal topic.
	ChannelTopic
)

func (c Channel) Has(flag Channel) bool {
	return c&flag != 0
}

type getter func() interface{}

type setter func(t *turn, value dbus.Variant) *dbus.Error

// Property binds a member name to daemon context fields through its get and
// set closures.
type Property struct {
	Name      string
	Signature dbus.Signature
	Access    Access
	Channel   Channel
	Topic     string

	ns  *Namespace
	get getter
	set setter
}

func (p *Property) notification(payload interface{}) notification {
	return notification{
		channel:  p.Channel,
		path:     p.ns.Path,
		iface:    p.ns.Interface,
		property: p.Name,
		gated:    p.ns.Gated,
		topic:    p.Topic,
		payload:  payload,
	}
}

func (p *Property) introspect() introspect.Property {
	return introspect.Property{
		Name:   p.Name,
		Type:   p.Signature.String(),
		Access: p.Access.introspectAccess(),
		Annotations: []introspect.Annotation{{
			Name:  "org.freedesktop.DBus.Property.EmitsChangedSignal",
			Value: p.Access.emitsChangedSignal(),
		}},
	}
}

// Arg describes one input argument of a method.
type Arg struct {
	Name      string
	Signature dbus.Signature
}

// Method is a remote invocable member. Fn is exported as is, its
// parameters must match Args and it must return *dbus.Error.
type Method struct {
	Name string
	Args []Arg
	// what a state changing call announces: Property is named in the remote
	// broadcast, Topic receives the internal message
	Channel  Channel
	Property string
	Topic    string
	Fn       interface{}

	ns *Namespace
}

func (m *Method) notification(payload interface{}) notification {
	return notification{
		channel:  m.Channel,
		path:     m.ns.Path,
		iface:    m.ns.Interface,
		property: m.Property,
		gated:    m.ns.Gated,
		topic:    m.Topic,
		payload:  payload,
	}
}

func (m *Method) introspect() introspect.Method {
	args := make([]introspect.Arg, 0, len(m.Args))
	for _, arg := range m.Args {
		args = append(args, introspect.Arg{
			Name:      arg.Name,
			Type:      arg.Signature.String(),
			Direction: "in",
		})
	}
	return introspect.Method{Name: m.Name, Args: args}
}

// Namespace groups the members exported on one object path and interface.
type Namespace struct {
	Path      dbus.ObjectPath
	Interface string
	// Gated remote emissions are dropped while the owning module is not
	// running.
	Gated bool

	props      map[string]*Property
	propOrder  []string
	methods    map[string]*Method
	methodKeys []string
}

func NewNamespace(path dbus.ObjectPath, iface string, gated bool) *Namespace {
	return &Namespace{
		Path:      path,
		Interface: iface,
		Gated:     gated,
		props:     make(map[string]*Property),
		methods:   make(map[string]*Method),
	}
}

func (ns *Namespace) hasMember(name string) bool {
	_, isProp := ns.props[name]
	_, isMethod := ns.methods[name]
	return isProp || isMethod
}

func (ns *Namespace) AddProperty(p *Property) error {
	if ns.hasMember(p.Name) {
		return fmt.Errorf("member %s already registered on %s", p.Name, ns.Interface)
	}
	if p.get == nil {
		return fmt.Errorf("property %s has no getter", p.Name)
	}
	if p.Access.writable() != (p.set != nil) {
		return fmt.Errorf("property %s: setter does not match access mode", p.Name)
	}
	if p.Channel.Has(ChannelTopic) && p.Topic == "" {
		return fmt.Errorf("property %s: topic channel without topic", p.Name)
	}
	p.ns = ns
	ns.props[p.Name] = p
	ns.propOrder = append(ns.propOrder, p.Name)
	return nil
}

func (ns *Namespace) AddMethod(m *Method) error {
	if ns.hasMember(m.Name) {
		return fmt.Errorf("member %s already registered on %s", m.Name, ns.Interface)
	}
	if m.Fn == nil {
		return fmt.Errorf("method %s has no handler", m.Name)
	}
	if m.Channel.Has(ChannelTopic) && m.Topic == "" {
		return fmt.Errorf("method %s: topic channel without topic", m.Name)
	}
	if m.Channel.Has(ChannelRemote) && m.Property == "" {
		return fmt.Errorf("method %s: remote channel without property", m.Name)
	}
	m.ns = ns
	ns.methods[m.Name] = m
	ns.methodKeys = append(ns.methodKeys, m.Name)
	return nil
}

func (ns *Namespace) Property(name string) (*Property, bool) {
	p, ok := ns.props[name]
	return p, ok
}

// Properties returns the properties in registration order.
func (ns *Namespace) Properties() []*Property {
	result := make([]*Property, 0, len(ns.propOrder))
	for _, name := range ns.propOrder {
		result = append(result, ns.props[name])
	}
	return result
}

func (ns *Namespace) Method(name string) (*Method, bool) {
	m, ok := ns.methods[name]
	return m, ok
}

func (ns *Namespace) methodTable() map[string]interface{} {
	table := make(map[string]interface{}, len(ns.methods))
	for name, m := range ns.methods {
		table[name] = m.Fn
	}
	return table
}

func (ns *Namespace) introspect() introspect.Interface {
	ifc := introspect.Interface{Name: ns.Interface}
	for _, p := range ns.Properties() {
		ifc.Properties = append(ifc.Properties, p.introspect())
	}
	for _, name := range ns.methodKeys {
		ifc.Methods = append(ifc.Methods, ns.methods[name].introspect())
	}
	return ifc
}

type namespaceKey struct {
	path  dbus.ObjectPath
	iface string
}

// Registry maps (object path, interface) to the registered namespace.
// It owns nothing but closures over the daemon context.
type Registry struct {
	namespaces map[namespaceKey]*Namespace
}

func NewRegistry() *Registry {
	return &Registry{
		namespaces: make(map[namespaceKey]*Namespace),
	}
}

func (r *Registry) Add(ns *Namespace) error {
	key := namespaceKey{ns.Path, ns.Interface}
	if _, ok := r.namespaces[key]; ok {
		return fmt.Errorf("namespace %s on %s already registered", ns.Interface, ns.Path)
	}
	r.namespaces[key] = ns
	return nil
}

func (r *Registry) Lookup(path dbus.ObjectPath, iface string) (*Namespace, bool) {
	ns, ok := r.namespaces[namespaceKey{path, iface}]
	return ns, ok
}

// Paths returns the registered object paths, sorted.
func (r *Registry) Paths() []dbus.ObjectPath {
	seen := make(map[dbus.ObjectPath]bool)
	var paths []dbus.ObjectPath
	for key := range r.namespaces {
		if !seen[key.path] {
			seen[key.path] = true
			paths = append(paths, key.path)
		}
	}
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
	return paths
}

// AtPath returns the namespaces registered on path, sorted by interface.
func (r *Registry) AtPath(path dbus.ObjectPath) []*Namespace {
	var result []*Namespace
	for key, ns := range r.namespaces {
		if key.path == path {
			result = append(result, ns)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Interface < result[j].Interface })
	return result
}
