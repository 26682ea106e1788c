package fabric

import "github.com/prometheus/client_golang/prometheus"

// metrics holds a Commander's optional Prometheus instrumentation
// (SPEC_FULL.md §8). A nil *metrics is always safe to call methods
// on: the core dispatch path never depends on metrics being present.
type metrics struct {
	tasksDispatched prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		tasksDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pascal_fabric_tasks_dispatched_total",
			Help: "Number of func/method/set_custom_func tasks broadcast or scattered to workers.",
		}),
	}
	reg.MustRegister(m.tasksDispatched)
	return m
}

func (m *metrics) observeTask() {
	if m != nil {
		m.tasksDispatched.Inc()
	}
}
