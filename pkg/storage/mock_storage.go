package storage

import (
	"sync"
	"time"

	"github.com/brandops/automation/pkg/models"
)

// mockStore implements Store with in-memory storage
type mockStore struct {
	rules []models.Rule
	logs  []models.ExecutionLog
	mu    sync.RWMutex
}

func NewMockStore() Store {
	return &mockStore{}
}

func (m *mockStore) SaveRule(r models.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, r)
	return nil
}

func (m *mockStore) GetRule(id string) (models.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, r := range m.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Rule{}, ErrNotFound
}

func (m *mockStore) UpdateRule(r models.Rule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.rules {
		if existing.ID == r.ID {
			r.CreatedAt = existing.CreatedAt
			r.UpdatedAt = time.Now()
			m.rules[i] = r
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) DeleteRule(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules {
		if r.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) ListRules() ([]models.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Rule, len(m.rules))
	copy(out, m.rules)
	return out, nil
}

func (m *mockStore) ListEnabledEventRules(eventName string) ([]models.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Rule
	for _, r := range m.rules {
		if !r.Enabled || r.TriggerType != models.EventTrigger {
			continue
		}
		if r.TriggerEvent != nil && *r.TriggerEvent != eventName {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (m *mockStore) ListEnabledScheduleRules() ([]models.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.Rule
	for _, r := range m.rules {
		if r.Enabled && r.TriggerType == models.ScheduleTrigger {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockStore) UpdateRuleRunStatus(id string, runAt time.Time, status models.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rules {
		if r.ID == id {
			m.rules[i].LastRunAt = &runAt
			s := status
			m.rules[i].LastRunStatus = &s
			m.rules[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrNotFound
}

func (m *mockStore) SaveExecutionLog(l models.ExecutionLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, l)
	return nil
}

func (m *mockStore) ListExecutionLogs(ruleID string) ([]models.ExecutionLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.ExecutionLog
	for _, l := range m.logs {
		if l.RuleID == ruleID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockStore) Close() error {
	return nil
}
