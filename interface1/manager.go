// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	dbus "github.com/godbus/dbus/v5"

	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/loader"
	"github.com/clight/clight-daemon/state"
)

// Manager serves the three clight namespaces over the daemon context.
type Manager struct {
	ctx      *state.Context
	registry *Registry
	notifier *Notifier
	recorder metrics.Recorder

	live     *Namespace
	conf     *Namespace
	timeouts *Namespace

	inhibit *Method
	// called after a confirmed Verbose change
	setLogDebug func(bool)
}

func newManager(ctx *state.Context, notifier *Notifier, recorder metrics.Recorder) (*Manager, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	m := &Manager{
		ctx:         ctx,
		registry:    NewRegistry(),
		notifier:    notifier,
		recorder:    recorder,
		setLogDebug: loader.ToggleLogDebug,
	}

	var err error
	m.live, err = m.buildLive()
	if err != nil {
		return nil, err
	}
	m.conf, err = m.buildConf()
	if err != nil {
		return nil, err
	}
	m.timeouts, err = m.buildTimeouts()
	if err != nil {
		return nil, err
	}

	for _, ns := range []*Namespace{m.live, m.conf, m.timeouts} {
		err = m.registry.Add(ns)
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func addProperties(ns *Namespace, props ...*Property) error {
	for _, p := range props {
		err := ns.AddProperty(p)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) state() *state.State {
	return m.ctx.State
}

func (m *Manager) config() *state.Conf {
	return m.ctx.Conf
}

func (m *Manager) buildLive() (*Namespace, error) {
	ns := NewNamespace(dbusPath, dbusInterface, true)
	s := m.state
	err := addProperties(ns,
		readOnly("Version", sigString, AccessConst, func() string { return Version }),
		readOnly("Sunrise", sigUint64, AccessEmitsChange, func() uint64 { return s().Events[state.Sunrise] }),
		readOnly("Sunset", sigUint64, AccessEmitsChange, func() uint64 { return s().Events[state.Sunset] }),
		readOnly("Time", sigInt32, AccessEmitsChange, func() int32 { return int32(s().Time) }),
		readOnly("InEvent", sigBool, AccessEmitsChange, func() bool { return s().InEvent }),
		readOnly("DisplayState", sigInt32, AccessEmitsChange, func() int32 { return s().DisplayState }),
		readOnly("PmState", sigInt32, AccessEmitsChange, func() int32 { return s().PMInhibit.Mask() }),
		readOnly("CurrentBlPct", sigDouble, AccessEmitsChange, func() float64 { return s().CurrentBlPct }),
		readOnly("CurrentKbdPct", sigDouble, AccessEmitsChange, func() float64 { return s().CurrentKbdPct }),
		readOnly("CurrentAmbientBr", sigDouble, AccessEmitsChange, func() float64 { return s().AmbientBr }),
		readOnly("CurrentTemp", sigInt32, AccessEmitsChange, func() int32 { return s().CurrentTemp }),
		readOnly("Location", sigLocation, AccessEmitsChange, func() state.Location { return s().CurrentLoc }),
	)
	if err != nil {
		return nil, err
	}

	err = ns.AddMethod(&Method{
		Name: "Calibrate",
		Fn:   m.Calibrate,
	})
	if err != nil {
		return nil, err
	}

	m.inhibit = &Method{
		Name:     "Inhibit",
		Args:     []Arg{{Name: "inhibit", Signature: sigBool}},
		Channel:  ChannelRemote | ChannelTopic,
		Property: "PmState",
		Topic:    TopicInhibit,
		Fn:       m.Inhibit,
	}
	err = ns.AddMethod(m.inhibit)
	if err != nil {
		return nil, err
	}
	return ns, nil
}

func (m *Manager) buildConf() (*Namespace, error) {
	ns := NewNamespace(confPath, confInterface, false)
	c := m.config
	err := addProperties(ns,
		readOnly("Location", sigLocation, AccessConst, func() state.Location { return c().Loc }),
		readOnly("Sunrise", sigString, AccessConst, func() string { return c().Events[state.Sunrise] }),
		readOnly("Sunset", sigString, AccessConst, func() string { return c().Events[state.Sunset] }),

		hooked("NoAutoCalib", sigBool, TopicAutoCalib, func() *bool { return &c().NoAutoCalib }),
		writable("NoKbdCalib", sigBool, func() *bool { return &c().NoKbdCalib }),
		writable("AmbientGamma", sigBool, func() *bool { return &c().AmbientGamma }),
		writable("NoSmoothBacklight", sigBool, func() *bool { return &c().NoSmoothBacklight }),
		writable("NoSmoothDimmerEnter", sigBool, func() *bool { return &c().NoSmoothDimmer[state.Enter] }),
		writable("NoSmoothDimmerExit", sigBool, func() *bool { return &c().NoSmoothDimmer[state.Exit] }),
		writable("NoSmoothGamma", sigBool, func() *bool { return &c().NoSmoothGamma }),
		writable("NumCaptures", sigInt32, func() *int32 { return &c().NumCaptures }),
		writable("SensorName", sigString, func() *string { return &c().DevName }),
		writable("BacklightSyspath", sigString, func() *string { return &c().ScreenPath }),
		writable("EventDuration", sigInt32, func() *int32 { return &c().EventDuration }),
		writable("DimmerPct", sigDouble, func() *float64 { return &c().DimmerPct }),
		scalar("Verbose", sigBool, AccessWritableHook, ChannelRemote, "",
			func() *bool { return &c().Verbose }, m.onVerboseChanged),
		writable("BacklightTransStep", sigDouble, func() *float64 { return &c().BacklightTransStep }),
		writable("DimmerTransStepEnter", sigDouble, func() *float64 { return &c().DimmerTransStep[state.Enter] }),
		writable("DimmerTransStepExit", sigDouble, func() *float64 { return &c().DimmerTransStep[state.Exit] }),
		writable("GammaTransStep", sigInt32, func() *int32 { return &c().GammaTransStep }),
		writable("BacklightTransDuration", sigInt32, func() *int32 { return &c().BacklightTransTime }),
		writable("GammaTransDuration", sigInt32, func() *int32 { return &c().GammaTransTime }),
		writable("DimmerTransDurationEnter", sigInt32, func() *int32 { return &c().DimmerTransTime[state.Enter] }),
		writable("DimmerTransDurationExit", sigInt32, func() *int32 { return &c().DimmerTransTime[state.Exit] }),
		hooked("DayTemp", sigInt32, TopicTemp, func() *int32 { return &c().Temp[state.Day] }),
		hooked("NightTemp", sigInt32, TopicTemp, func() *int32 { return &c().Temp[state.Night] }),
		curve("AcCurvePoints", state.OnAC, func() *state.Curve { return &c().RegressionPoints[state.OnAC] }),
		curve("BattCurvePoints", state.OnBattery, func() *state.Curve { return &c().RegressionPoints[state.OnBattery] }),
		writable("ShutterThreshold", sigDouble, func() *float64 { return &c().ShutterThreshold }),
		writable("GammaLongTransition", sigBool, func() *bool { return &c().GammaLongTransition }),
	)
	if err != nil {
		return nil, err
	}

	err = ns.AddMethod(&Method{
		Name: "Store",
		Fn:   m.Store,
	})
	if err != nil {
		return nil, err
	}
	return ns, nil
}

var acPrefix = map[state.ACState]string{
	state.OnAC:      "Ac",
	state.OnBattery: "Batt",
}

var slotName = map[state.DayTime]string{
	state.Day:   "Day",
	state.Night: "Night",
	state.Event: "Event",
}

func (m *Manager) buildTimeouts() (*Namespace, error) {
	ns := NewNamespace(timeoutsPath, confInterface, false)
	for _, ac := range []state.ACState{state.OnAC, state.OnBattery} {
		for _, slot := range []state.DayTime{state.Day, state.Night, state.Event} {
			err := ns.AddProperty(m.captureTimeout(ac, slot))
			if err != nil {
				return nil, err
			}
		}
	}
	for _, ac := range []state.ACState{state.OnAC, state.OnBattery} {
		err := addProperties(ns, m.dimmerTimeout(ac), m.dpmsTimeout(ac))
		if err != nil {
			return nil, err
		}
	}
	return ns, nil
}

func (m *Manager) captureTimeout(ac state.ACState, slot state.DayTime) *Property {
	return timeout(acPrefix[ac]+slotName[slot]+"Capture", timeoutNameBacklight, TopicBlTo,
		func() *int32 { return &m.config().Timeout[ac][slot] },
		func() bool {
			s := m.state()
			return s.ACState == ac && s.CaptureSlot() == slot
		})
}

func (m *Manager) dimmerTimeout(ac state.ACState) *Property {
	return timeout(acPrefix[ac]+"Dimmer", timeoutNameDimmer, TopicDimmerTo,
		func() *int32 { return &m.config().DimmerTimeout[ac] },
		func() bool { return m.state().ACState == ac })
}

func (m *Manager) dpmsTimeout(ac state.ACState) *Property {
	return timeout(acPrefix[ac]+"Dpms", timeoutNameDPMS, TopicDPMSTo,
		func() *int32 { return &m.config().DPMSTimeout[ac] },
		func() bool { return m.state().ACState == ac })
}

func (m *Manager) onVerboseChanged(verbose bool) {
	logger.Info("verbose logging:", verbose)
	if m.setLogDebug != nil {
		m.setLogDebug(verbose)
	}
}

// runTurn runs fn under the context lock and dispatches the queued
// notifications once the lock is released.
func (m *Manager) runTurn(fn func(t *turn)) {
	var t turn
	func() {
		m.ctx.Lock()
		defer m.ctx.Unlock()
		fn(&t)
	}()
	m.notifier.dispatch(t.notes)
}

func (m *Manager) lookup(path dbus.ObjectPath, iface string) (*Namespace, *dbus.Error) {
	ns, ok := m.registry.Lookup(path, iface)
	if !ok {
		return nil, errUnknownInterface(path, iface)
	}
	return ns, nil
}

func (m *Manager) GetProperty(path dbus.ObjectPath, iface, name string) (dbus.Variant, *dbus.Error) {
	ns, busErr := m.lookup(path, iface)
	if busErr != nil {
		return dbus.Variant{}, busErr
	}
	p, ok := ns.Property(name)
	if !ok {
		return dbus.Variant{}, errUnknownProperty(iface, name)
	}

	m.ctx.Lock()
	defer m.ctx.Unlock()
	return dbus.MakeVariantWithSignature(p.get(), p.Signature), nil
}

func (m *Manager) GetAllProperties(path dbus.ObjectPath, iface string) (map[string]dbus.Variant, *dbus.Error) {
	ns, busErr := m.lookup(path, iface)
	if busErr != nil {
		return nil, busErr
	}

	m.ctx.Lock()
	defer m.ctx.Unlock()
	props := ns.Properties()
	result := make(map[string]dbus.Variant, len(props))
	for _, p := range props {
		result[p.Name] = dbus.MakeVariantWithSignature(p.get(), p.Signature)
	}
	return result, nil
}

func (m *Manager) SetProperty(path dbus.ObjectPath, iface, name string, value dbus.Variant) *dbus.Error {
	ns, busErr := m.lookup(path, iface)
	if busErr != nil {
		return busErr
	}
	p, ok := ns.Property(name)
	if !ok {
		return errUnknownProperty(iface, name)
	}
	if !p.Access.writable() {
		m.recorder.IncPropertyWrite(iface, name, metrics.ResultReadOnly)
		return errPropertyReadOnly(name)
	}

	m.runTurn(func(t *turn) {
		busErr = p.set(t, value)
	})

	switch {
	case busErr == nil:
		m.recorder.IncPropertyWrite(iface, name, metrics.ResultOk)
	case isValidationFault(busErr):
		logger.Debug("rejected write of", name, busErr)
		m.recorder.IncPropertyWrite(iface, name, metrics.ResultInvalid)
	default:
		logger.Warning("failed to set", name, busErr)
		m.recorder.IncPropertyWrite(iface, name, metrics.ResultFailed)
	}
	return busErr
}

// UpdateState lets other modules change the live state. Every emits-change
// property whose value differs afterwards is announced once.
func (m *Manager) UpdateState(fn func(s *state.State)) {
	props := m.live.Properties()
	m.runTurn(func(t *turn) {
		before := make([]interface{}, len(props))
		for i, p := range props {
			before[i] = p.get()
		}
		fn(m.ctx.State)
		for i, p := range props {
			if p.Access == AccessEmitsChange && p.get() != before[i] {
				t.notify(p.notification(nil))
			}
		}
	})
}
