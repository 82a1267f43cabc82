package reconcile

import (
	"errors"
	"testing"

	"modparts/internal/products"
	"modparts/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockMovementFinder struct {
	mock.Mock
}

func (m *MockMovementFinder) FindInTransitByIdentifier(identifier string, warehouseID int) (*models.Movement, error) {
	args := m.Called(identifier, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movement), args.Error(1)
}

type MockProductFinder struct {
	mock.Mock
}

func (m *MockProductFinder) GetProductByIdentifier(identifier string) (*models.Product, error) {
	args := m.Called(identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func TestClassifyExpected(t *testing.T) {
	movements := new(MockMovementFinder)
	catalog := new(MockProductFinder)
	matcher := NewMatcher(movements, catalog)

	movement := &models.Movement{ID: 55, Quantity: 2, Status: "in_transit"}
	movements.On("FindInTransitByIdentifier", "BC-102", 2).Return(movement, nil).Once()

	result, err := matcher.Classify("BC-102", 2)

	assert.NoError(t, err)
	assert.Equal(t, Expected, result.Classification)
	assert.Equal(t, movement, result.Movement)
	assert.Nil(t, result.Product)

	// The catalog is never consulted once a pending movement matches.
	catalog.AssertNotCalled(t, "GetProductByIdentifier", mock.Anything)
}

func TestClassifyUnexpectedExisting(t *testing.T) {
	movements := new(MockMovementFinder)
	catalog := new(MockProductFinder)
	matcher := NewMatcher(movements, catalog)

	movements.On("FindInTransitByIdentifier", "BC-102", 2).Return(nil, nil).Once()
	product := &models.Product{ID: 101, PartNumber: "BC-102", WarehouseID: 1}
	catalog.On("GetProductByIdentifier", "BC-102").Return(product, nil).Once()

	result, err := matcher.Classify("BC-102", 2)

	assert.NoError(t, err)
	assert.Equal(t, UnexpectedExisting, result.Classification)
	assert.Equal(t, product, result.Product)
	assert.Nil(t, result.Movement)
}

func TestClassifyUnexpectedNew(t *testing.T) {
	movements := new(MockMovementFinder)
	catalog := new(MockProductFinder)
	matcher := NewMatcher(movements, catalog)

	movements.On("FindInTransitByIdentifier", "ZZ-999", 2).Return(nil, nil).Once()
	catalog.On("GetProductByIdentifier", "ZZ-999").Return(nil, products.ErrProductNotFound).Once()

	result, err := matcher.Classify("ZZ-999", 2)

	assert.NoError(t, err)
	assert.Equal(t, UnexpectedNew, result.Classification)
	assert.Nil(t, result.Movement)
	assert.Nil(t, result.Product)
}

func TestClassifyScopesToWarehouse(t *testing.T) {
	movements := new(MockMovementFinder)
	catalog := new(MockProductFinder)
	matcher := NewMatcher(movements, catalog)

	// A movement addressed elsewhere must not match; the finder receives the
	// operator's warehouse and reports no pending movement there.
	movements.On("FindInTransitByIdentifier", "BC-102", 3).Return(nil, nil).Once()
	catalog.On("GetProductByIdentifier", "BC-102").Return(&models.Product{ID: 101}, nil).Once()

	result, err := matcher.Classify("BC-102", 3)

	assert.NoError(t, err)
	assert.Equal(t, UnexpectedExisting, result.Classification)
	movements.AssertCalled(t, "FindInTransitByIdentifier", "BC-102", 3)
}

func TestClassifyPropagatesLookupError(t *testing.T) {
	movements := new(MockMovementFinder)
	catalog := new(MockProductFinder)
	matcher := NewMatcher(movements, catalog)

	movements.On("FindInTransitByIdentifier", "BC-102", 2).Return(nil, errors.New("connection reset")).Once()

	result, err := matcher.Classify("BC-102", 2)

	assert.Error(t, err)
	assert.Nil(t, result)
}
