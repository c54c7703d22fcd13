// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncPropertyWrite("org.clight.clight.Conf", "DayTemp", ResultOk)
	pr.IncPropertyWrite("org.clight.clight.Conf", "DayTemp", ResultOk)
	pr.IncPropertyWrite("org.clight.clight.Conf", "AcCurvePoints", ResultInvalid)
	pr.IncNotification(ChannelTopic, "InterfaceTemp")
	pr.IncReconcile("org.freedesktop.UPower", OutcomeUnchanged)
	pr.IncMethodCall("Inhibit", ResultOk)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.propertyWrites.WithLabelValues("org.clight.clight.Conf", "DayTemp", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.propertyWrites.WithLabelValues("org.clight.clight.Conf", "AcCurvePoints", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.notifications.WithLabelValues("topic", "InterfaceTemp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.reconciles.WithLabelValues("org.freedesktop.UPower", "unchanged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.methodCalls.WithLabelValues("Inhibit", "ok")))

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "clight_property_writes_total"))
}

func TestGlobalRecorder(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, Global())
	pr := NewPrometheusRecorder(nil)
	SetGlobal(pr)
	assert.Equal(t, pr, Global())
	SetGlobal(nil)
	assert.Equal(t, NoopRecorder{}, Global())
}
