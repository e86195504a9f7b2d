package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"meeting-recap/internal/app/model"
)

// MockUnitDAO is an in-memory repository.UnitDAO.
type MockUnitDAO struct {
	mock.Mock
	mu sync.RWMutex

	records     []model.UnitRecord
	nextID      int64
	closeCalled bool

	ErrorMap map[string]error // method -> error
}

// NewMockUnitDAO creates an empty MockUnitDAO
func NewMockUnitDAO() *MockUnitDAO {
	return &MockUnitDAO{
		nextID:   1,
		ErrorMap: make(map[string]error),
	}
}

// Close implements repository.UnitDAO
func (m *MockUnitDAO) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalled = true
	return m.ErrorMap["Close"]
}

// Record implements repository.UnitDAO
func (m *MockUnitDAO) Record(ctx context.Context, rec *model.UnitRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ErrorMap["Record"]; err != nil {
		return err
	}
	rec.ID = m.nextID
	m.nextID++
	m.records = append(m.records, *rec)
	return nil
}

// Recent implements repository.UnitDAO
func (m *MockUnitDAO) Recent(ctx context.Context, limit int) ([]model.UnitRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.ErrorMap["Recent"]; err != nil {
		return nil, err
	}
	out := make([]model.UnitRecord, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

// WithError makes method fail with err.
func (m *MockUnitDAO) WithError(method string, err error) *MockUnitDAO {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorMap[method] = err
	return m
}

// GetRecords returns every record in insertion order.
func (m *MockUnitDAO) GetRecords() []model.UnitRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.UnitRecord, len(m.records))
	copy(out, m.records)
	return out
}

// Outcomes maps unit name to the last outcome recorded for stage.
func (m *MockUnitDAO) Outcomes(stage model.Stage) map[string]model.Outcome {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]model.Outcome)
	for _, r := range m.records {
		if r.Stage == stage {
			out[r.Unit] = r.Outcome
		}
	}
	return out
}

// WasCloseCalled reports whether Close ran
func (m *MockUnitDAO) WasCloseCalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closeCalled
}
