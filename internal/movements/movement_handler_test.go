package movements

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"modparts/internal/products"
	"modparts/pkg/auditlog"
	custom_error "modparts/pkg/errors"
	"modparts/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(service *MovementService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewMovementHandler(service, nil, auditlog.NewAuditLog(nil))
	router := gin.New()
	router.POST("/inventory/movements", handler.Dispatch)
	return router
}

func postJSON(router *gin.Engine, url string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestDispatchRejectsUnknownAction(t *testing.T) {
	service, _, _, _ := newTestService()
	router := newTestRouter(service)

	recorder := postJSON(router, "/inventory/movements?action=teleport", gin.H{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestReceiveHandlerMovementNotFound(t *testing.T) {
	service, movementRepo, _, _ := newTestService()
	router := newTestRouter(service)

	movementRepo.On("GetMovementRowForUpdate", mock.Anything, 99).Return(nil, nil).Once()

	recorder := postJSON(router, "/inventory/movements?action=receive", gin.H{
		"movement_id":  99,
		"warehouse_id": 2,
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Movement not found")
}

func TestReceiveHandlerAlreadyReceived(t *testing.T) {
	service, movementRepo, _, _ := newTestService()
	router := newTestRouter(service)

	row := &MovementRow{ID: 57, ProductID: 101, ToWarehouseID: 2, Quantity: 2, Status: "completed"}
	movementRepo.On("GetMovementRowForUpdate", mock.Anything, 57).Return(row, nil).Once()

	recorder := postJSON(router, "/inventory/movements?action=receive", gin.H{
		"movement_id":  57,
		"warehouse_id": 2,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Movement already received")
}

func TestReceiveHandlerWrongDestination(t *testing.T) {
	service, movementRepo, _, _ := newTestService()
	router := newTestRouter(service)

	row := &MovementRow{ID: 58, ProductID: 101, ToWarehouseID: 2, Quantity: 2, Status: "in_transit"}
	movementRepo.On("GetMovementRowForUpdate", mock.Anything, 58).Return(row, nil).Once()

	recorder := postJSON(router, "/inventory/movements?action=receive", gin.H{
		"movement_id":  58,
		"warehouse_id": 3,
	})

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestReceiveHandlerMissingWarehouse(t *testing.T) {
	service, _, _, _ := newTestService()
	router := newTestRouter(service)

	// No warehouse in the payload and no warehouse claim on the request.
	recorder := postJSON(router, "/inventory/movements?action=receive", gin.H{
		"movement_id": 58,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "warehouse_id")
}

func TestShipHandlerRejectsEmptyShipment(t *testing.T) {
	service, _, _, _ := newTestService()
	router := newTestRouter(service)

	recorder := postJSON(router, "/inventory/movements?action=ship", gin.H{
		"product_ids":       []int{},
		"from_warehouse_id": 1,
		"to_warehouse_id":   2,
		"quantity":          2,
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestShipHandlerReportsPerProductFailures(t *testing.T) {
	service, movementRepo, stockRepo, _ := newTestService()
	router := newTestRouter(service)

	shipped := &models.Product{ID: 101, PartNumber: "BC-102", WarehouseID: 1, Quantity: 5}
	starved := &models.Product{ID: 102, PartNumber: "OF-220", WarehouseID: 1, Quantity: 1}
	stockRepo.On("GetProductForUpdate", mock.Anything, 101).Return(shipped, nil).Once()
	stockRepo.On("GetProductForUpdate", mock.Anything, 102).Return(starved, nil).Once()
	stockRepo.On("DecrementStock", mock.Anything, 101, 2).Return(nil).Once()
	stockRepo.On("DecrementStock", mock.Anything, 102, 2).Return(products.ErrInsufficientStock).Once()
	movementRepo.On("InsertMovementRecord", mock.Anything, mock.Anything).Return(55, "ref-55", nil).Once()

	recorder := postJSON(router, "/inventory/movements?action=ship", gin.H{
		"product_ids":       []int{101, 102},
		"from_warehouse_id": 1,
		"to_warehouse_id":   2,
		"quantity":          2,
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Stock validation failed")

	var body struct {
		Results []ShipResult `json:"results"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Results, 2)
	assert.True(t, body.Results[0].Succeeded())
	assert.False(t, body.Results[1].Succeeded())
}

func TestReceiveHandlerConcurrentCreateConflict(t *testing.T) {
	service, movementRepo, stockRepo, _ := newTestService()
	router := newTestRouter(service)

	row := &MovementRow{ID: 60, ProductID: 101, ToWarehouseID: 2, Quantity: 2, Status: "in_transit"}
	movementRepo.On("GetMovementRowForUpdate", mock.Anything, 60).Return(row, nil).Once()

	snapshot := &models.Product{ID: 101, PartNumber: "BC-102", WarehouseID: 1}
	stockRepo.On("GetProductForUpdate", mock.Anything, 101).Return(snapshot, nil).Once()
	stockRepo.On("FindAtWarehouseForUpdate", mock.Anything, "BC-102", 2).Return(nil, nil).Once()

	// A concurrent writer won the insert race; the constraint violation must
	// surface as a conflict, not an internal error.
	stockRepo.On("CreateAtWarehouse", mock.Anything, *snapshot, 2, 2, (*string)(nil)).
		Return(0, custom_error.WrapDBError("Duplicate product row at warehouse", "23505")).Once()

	recorder := postJSON(router, "/inventory/movements?action=receive", gin.H{
		"movement_id":  60,
		"warehouse_id": 2,
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestAssignBinHandlerCapacityConflict(t *testing.T) {
	service, _, stockRepo, binReader := newTestService()
	router := newTestRouter(service)

	bin := &models.Bin{ID: 7, WarehouseID: 2, BinNumber: "C-10", Capacity: 10}
	binReader.On("FindBin", 2, "C-10").Return(bin, nil).Once()
	stockRepo.On("GetProductForUpdate", mock.Anything, 101).Return(&models.Product{ID: 101, WarehouseID: 2, Quantity: 6}, nil).Once()
	binReader.On("BinUsedCapacity", 2, "C-10").Return(8, nil).Once()

	recorder := postJSON(router, "/inventory/movements?action=assign-bin", gin.H{
		"product_id":   101,
		"bin_number":   "C-10",
		"warehouse_id": 2,
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Bin capacity exceeded")
}
