// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package interface1

const (
	dbusServiceName = "org.clight.clight"
	dbusPath        = "/org/clight/clight"
	dbusInterface   = dbusServiceName
	confPath        = dbusPath + "/Conf"
	timeoutsPath    = confPath + "/Timeouts"
	confInterface   = dbusInterface + ".Conf"

	propertiesInterface = "org.freedesktop.DBus.Properties"
)

// Topics registered by the interface module.
const (
	TopicTemp      = "InterfaceTemp"
	TopicAutoCalib = "InterfaceAutoCalib"
	TopicCurve     = "InterfaceCurve"
	TopicBlTo      = "InterfaceBlTo"
	TopicDimmerTo  = "InterfaceDimmerTo"
	TopicDPMSTo    = "InterfaceDPMSTo"
	TopicInhibit   = "InterfaceInhibit"
)

var topics = []string{
	TopicTemp,
	TopicAutoCalib,
	TopicCurve,
	TopicBlTo,
	TopicDimmerTo,
	TopicDPMSTo,
	TopicInhibit,
}

// Version is set at link time.
var Version = "4.10"
