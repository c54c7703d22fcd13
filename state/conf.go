// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package state

// CurvePoints is the fixed number of points of a regression curve.
const CurvePoints = 11

type Curve [CurvePoints]float64

const (
	Enter = iota
	Exit
	sizeTransitions
)

// LocationUndefined marks a coordinate not yet resolved.
const LocationUndefined = 360.0

// Conf holds the persisted, bus writable settings.
type Conf struct {
	Loc     Location           `yaml:"location"`
	Events  [sizeEvents]string `yaml:"events"`
	Verbose bool               `yaml:"verbose"`

	NoAutoCalib         bool                     `yaml:"no_auto_calibration"`
	NoKbdCalib          bool                     `yaml:"no_kbd_calibration"`
	AmbientGamma        bool                     `yaml:"ambient_gamma"`
	NoSmoothBacklight   bool                     `yaml:"no_smooth_backlight"`
	NoSmoothDimmer      [sizeTransitions]bool    `yaml:"no_smooth_dimmer"`
	NoSmoothGamma       bool                     `yaml:"no_smooth_gamma"`
	GammaLongTransition bool                     `yaml:"gamma_long_transition"`
	NumCaptures         int32                    `yaml:"captures"`
	DevName             string                   `yaml:"sensor_devname"`
	ScreenPath          string                   `yaml:"backlight_syspath"`
	EventDuration       int32                    `yaml:"event_duration"`
	DimmerPct           float64                  `yaml:"dimmer_pct"`
	ShutterThreshold    float64                  `yaml:"shutter_threshold"`
	Temp                [2]int32                 `yaml:"gamma_temp"`
	RegressionPoints    [sizeACStates]Curve      `yaml:"regression_points"`
	BacklightTransStep  float64                  `yaml:"backlight_trans_step"`
	DimmerTransStep     [sizeTransitions]float64 `yaml:"dimmer_trans_step"`
	GammaTransStep      int32                    `yaml:"gamma_trans_step"`
	BacklightTransTime  int32                    `yaml:"backlight_trans_timeout"`
	GammaTransTime      int32                    `yaml:"gamma_trans_timeout"`
	DimmerTransTime     [sizeTransitions]int32   `yaml:"dimmer_trans_timeout"`

	Timeout       [sizeACStates][sizeDayTimes]int32 `yaml:"capture_timeouts"`
	DimmerTimeout [sizeACStates]int32               `yaml:"dimmer_timeouts"`
	DPMSTimeout   [sizeACStates]int32               `yaml:"dpms_timeouts"`
}

// DefaultConf returns the settings used when nothing was stored yet.
func DefaultConf() *Conf {
	return &Conf{
		Loc:                Location{Lat: LocationUndefined, Lon: LocationUndefined},
		NumCaptures:        5,
		EventDuration:      30 * 60,
		DimmerPct:          0.2,
		Temp:               [2]int32{6500, 4000},
		BacklightTransStep: 0.05,
		DimmerTransStep:    [sizeTransitions]float64{0.05, 0.05},
		GammaTransStep:     50,
		BacklightTransTime: 30,
		GammaTransTime:     300,
		DimmerTransTime:    [sizeTransitions]int32{30, 30},
		RegressionPoints: [sizeACStates]Curve{
			OnAC:      {0.0, 0.15, 0.29, 0.45, 0.61, 0.74, 0.81, 0.88, 0.93, 0.97, 1.0},
			OnBattery: {0.0, 0.15, 0.23, 0.36, 0.52, 0.59, 0.65, 0.71, 0.75, 0.78, 0.80},
		},
		Timeout: [sizeACStates][sizeDayTimes]int32{
			OnAC:      {Day: 600, Night: 2700, Event: 300},
			OnBattery: {Day: 1200, Night: 5400, Event: 600},
		},
		DimmerTimeout: [sizeACStates]int32{OnAC: 45, OnBattery: 20},
		DPMSTimeout:   [sizeACStates]int32{OnAC: 900, OnBattery: 300},
	}
}
