// SPDX-FileCopyrightText: 2018 - 2022 UnionTech Software Technology Co., Ltd.
//
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clight"

// PrometheusRecorder implements Recorder using Prometheus counters.
type PrometheusRecorder struct {
	propertyWrites *prom.CounterVec
	methodCalls    *prom.CounterVec
	notifications  *prom.CounterVec
	reconciles     *prom.CounterVec
}

// NewPrometheusRecorder creates the counters and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		propertyWrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "property_writes_total",
			Help:      "Remote property writes by interface, property and result",
		}, []string{"interface", "property", "result"}),
		methodCalls: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "method_calls_total",
			Help:      "Remote method calls by method and result",
		}, []string{"method", "result"}),
		notifications: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Change notifications by channel and name",
		}, []string{"channel", "name"}),
		reconciles: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_events_total",
			Help:      "Foreign change broadcasts by service and outcome",
		}, []string{"service", "outcome"}),
	}
	reg.MustRegister(pr.propertyWrites, pr.methodCalls, pr.notifications, pr.reconciles)
	return pr
}

func (p *PrometheusRecorder) IncPropertyWrite(iface, property string, result Result) {
	p.propertyWrites.WithLabelValues(iface, property, string(result)).Inc()
}

func (p *PrometheusRecorder) IncMethodCall(method string, result Result) {
	p.methodCalls.WithLabelValues(method, string(result)).Inc()
}

func (p *PrometheusRecorder) IncNotification(channel Channel, name string) {
	p.notifications.WithLabelValues(string(channel), name).Inc()
}

func (p *PrometheusRecorder) IncReconcile(service string, outcome Outcome) {
	p.reconciles.WithLabelValues(service, string(outcome)).Inc()
}

// HTTPHandler serves the metrics gathered by reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
