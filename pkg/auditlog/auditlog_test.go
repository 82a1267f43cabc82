package auditlog

import (
	"testing"

	"modparts/pkg/models"

	"github.com/stretchr/testify/mock"
)

type MockLogStore struct {
	mock.Mock
}

func (m *MockLogStore) PersistLog(auditLog models.AuditLog, data interface{}) error {
	args := m.Called(auditLog, data)
	return args.Error(0)
}

func (m *MockLogStore) GetResourceLog(resourceID int, resourceType string) (*[]models.AuditLog, error) {
	args := m.Called(resourceID, resourceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*[]models.AuditLog), args.Error(1)
}

func TestLogRecordsActor(t *testing.T) {
	store := new(MockLogStore)
	auditLog := NewAuditLog(store)

	userID := 7
	movement := models.Movement{ID: 55}
	data := map[string]interface{}{"quantity": 2}

	store.On("PersistLog", mock.MatchedBy(func(entry models.AuditLog) bool {
		return entry.ResourceID == 55 &&
			entry.ResourceType == "movement" &&
			entry.Action == "receive" &&
			entry.UserID != nil && *entry.UserID == 7
	}), data).Return(nil).Once()

	auditLog.Log("receive", &userID, data, &movement)

	store.AssertExpectations(t)
}

func TestLogWithoutActor(t *testing.T) {
	store := new(MockLogStore)
	auditLog := NewAuditLog(store)

	product := models.Product{ID: 101}

	store.On("PersistLog", mock.MatchedBy(func(entry models.AuditLog) bool {
		return entry.ResourceType == "product" && entry.UserID == nil
	}), mock.Anything).Return(nil).Once()

	auditLog.Log("assign_bin", nil, map[string]interface{}{"bin_number": "C-10"}, &product)

	store.AssertExpectations(t)
}

func TestLogWithoutStoreIsNoop(t *testing.T) {
	auditLog := NewAuditLog(nil)
	movement := models.Movement{ID: 55}

	// Must not panic when no sink is configured.
	auditLog.Log("ship", nil, map[string]interface{}{}, &movement)
}
