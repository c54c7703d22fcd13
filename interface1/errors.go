// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

import (
	"fmt"

	dbus "github.com/godbus/dbus/v5"
)

const (
	errNameFailed           = "org.freedesktop.DBus.Error.Failed"
	errNameNotSupported     = "org.freedesktop.DBus.Error.NotSupported"
	errNameInvalidArgs      = "org.freedesktop.DBus.Error.InvalidArgs"
	errNamePropertyReadOnly = "org.freedesktop.DBus.Error.PropertyReadOnly"
	errNameUnknownProperty  = "org.freedesktop.DBus.Error.UnknownProperty"
	errNameUnknownInterface = "org.freedesktop.DBus.Error.UnknownInterface"
)

var (
	errWrongParameters        = dbus.NewError(errNameFailed, []interface{}{"Wrong parameters."})
	errStoreFailed            = dbus.NewError(errNameFailed, []interface{}{"Failed to store conf."})
	errCalibrationUnavailable = dbus.NewError(errNameNotSupported, []interface{}{"Calibration is not available."})
)

func errInvalidArgs(format string, args ...interface{}) *dbus.Error {
	return dbus.NewError(errNameInvalidArgs, []interface{}{fmt.Sprintf(format, args...)})
}

func errPropertyReadOnly(name string) *dbus.Error {
	return dbus.NewError(errNamePropertyReadOnly,
		[]interface{}{fmt.Sprintf("property %s is read-only", name)})
}

func errUnknownProperty(iface, name string) *dbus.Error {
	return dbus.NewError(errNameUnknownProperty,
		[]interface{}{fmt.Sprintf("no property %s on interface %s", name, iface)})
}

func errUnknownInterface(path dbus.ObjectPath, iface string) *dbus.Error {
	return dbus.NewError(errNameUnknownInterface,
		[]interface{}{fmt.Sprintf("no interface %s on %s", iface, path)})
}

// isValidationFault tells malformed input apart from operational failures.
func isValidationFault(err *dbus.Error) bool {
	return err == errWrongParameters || err.Name == errNameInvalidArgs
}
