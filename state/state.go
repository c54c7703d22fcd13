// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package state

// ACState is the power source the machine currently runs on.
type ACState int

const (
	OnAC ACState = iota
	OnBattery
	sizeACStates
)

func (s ACState) String() string {
	switch s {
	case OnAC:
		return "ac"
	case OnBattery:
		return "battery"
	}
	return "unknown"
}

// DayTime is the time-of-day bucket. Event is only used as capture
// timeout slot, State.Time itself is Day or Night.
type DayTime int32

const (
	Day DayTime = iota
	Night
	Event
	sizeDayTimes
)

const (
	Sunrise = iota
	Sunset
	sizeEvents
)

// nolint
const (
	DisplayOn int32 = iota
	DisplayDimmed
	DisplayOff
)

// PMInhibit is the set of reasons power management is inhibited.
type PMInhibit uint8

const (
	// PMInhibitedByApp is set by the screensaver inhibition watcher.
	PMInhibitedByApp PMInhibit = 1 << iota
	// PMForcedOn is set through the bus Inhibit method.
	PMForcedOn
)

func (p PMInhibit) Has(flag PMInhibit) bool {
	return p&flag != 0
}

func (p PMInhibit) With(flag PMInhibit) PMInhibit {
	return p | flag
}

func (p PMInhibit) Without(flag PMInhibit) PMInhibit {
	return p &^ flag
}

// Mask is the wire representation published as PmState.
func (p PMInhibit) Mask() int32 {
	return int32(p)
}

type Location struct {
	Lat float64 `yaml:"lat"`
	Lon float64 `yaml:"lon"`
}

// State is the runtime snapshot of the daemon. It is only mutated while
// holding the Context turn lock.
type State struct {
	Events        [sizeEvents]uint64
	Time          DayTime
	InEvent       bool
	DisplayState  int32
	PMInhibit     PMInhibit
	CurrentBlPct  float64
	CurrentKbdPct float64
	AmbientBr     float64
	CurrentTemp   int32
	CurrentLoc    Location
	ACState       ACState
}

// CaptureSlot returns the capture timeout slot in effect.
func (s *State) CaptureSlot() DayTime {
	if s.InEvent {
		return Event
	}
	return s.Time
}
