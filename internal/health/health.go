package health

import (
	"sort"
	"sync"
	"time"

	"github.com/hanamizuki10/get-color-for-windows/internal/logging"
)

var log = logging.L("health")

// Status is the health of one component.
type Status string

const (
	Healthy   Status = "healthy"
	Degraded  Status = "degraded"
	Unhealthy Status = "unhealthy"
)

// Check is the latest result recorded for a component.
type Check struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Monitor tracks the latest check per component.
type Monitor struct {
	mu     sync.RWMutex
	checks map[string]Check
	now    func() time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{
		checks: make(map[string]Check),
		now:    time.Now,
	}
}

// Update records status for name. Only transitions are logged, since the
// sampler reports on every tick.
func (m *Monitor) Update(name string, status Status, message string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	prev, seen := m.checks[name]
	m.checks[name] = Check{Name: name, Status: status, Message: message, UpdatedAt: m.now()}
	m.mu.Unlock()

	if seen && prev.Status == status {
		return
	}
	switch status {
	case Healthy:
		if seen {
			log.Info("component recovered", "check", name)
		}
	default:
		log.Warn("component health changed", "check", name, "status", string(status), "message", message)
	}
}

// Overall returns the worst status across all checks, Healthy when empty.
func (m *Monitor) Overall() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	worst := Healthy
	for _, c := range m.checks {
		if rank(c.Status) > rank(worst) {
			worst = c.Status
		}
	}
	return worst
}

// All returns the checks sorted by name.
func (m *Monitor) All() []Check {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Check, 0, len(m.checks))
	for _, c := range m.checks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Summary is the JSON body served by /healthz.
func (m *Monitor) Summary() map[string]any {
	checks := m.All()
	components := make(map[string]string, len(checks))
	for _, c := range checks {
		components[c.Name] = string(c.Status)
	}
	return map[string]any{
		"status":     string(m.Overall()),
		"components": components,
	}
}

func rank(s Status) int {
	switch s {
	case Healthy:
		return 0
	case Degraded:
		return 1
	default:
		return 2
	}
}
