// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	dbus "github.com/godbus/dbus/v5"

	"github.com/clight/clight-daemon/common/metrics"
	"github.com/clight/clight-daemon/state"
)

// Calibrate always fails for now.
// TODO: run the calibration capture once a backlight module exists and is
// running, keep NotSupported otherwise.
func (m *Manager) Calibrate() *dbus.Error {
	logger.Debug("calibration requested, not available")
	m.recorder.IncMethodCall("Calibrate", metrics.ResultFailed)
	return errCalibrationUnavailable
}

// Inhibit sets or clears the forced-on reason only; the other inhibition
// reasons are kept as they are.
func (m *Manager) Inhibit(inhibit bool) *dbus.Error {
	m.runTurn(func(t *turn) {
		s := m.ctx.State
		old := s.PMInhibit
		if inhibit {
			s.PMInhibit = old.With(state.PMForcedOn)
			logger.Info("power management inhibition enabled by bus API")
		} else {
			s.PMInhibit = old.Without(state.PMForcedOn)
			logger.Info("power management inhibition disabled by bus API")
		}
		if s.PMInhibit != old {
			t.notify(m.inhibit.notification(nil))
		}
	})
	m.recorder.IncMethodCall("Inhibit", metrics.ResultOk)
	return nil
}

func (m *Manager) Store() *dbus.Error {
	var err error
	m.runTurn(func(*turn) {
		err = m.ctx.StoreConf()
	})
	if err != nil {
		logger.Warning("failed to store conf:", err)
		m.recorder.IncMethodCall("Store", metrics.ResultFailed)
		return errStoreFailed
	}
	m.recorder.IncMethodCall("Store", metrics.ResultOk)
	return nil
}
