package movements

import (
	"errors"
	"fmt"

	"modparts/internal/products"
	"modparts/internal/repository"
	"modparts/pkg/metadata"
	"modparts/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrMovementNotFound = errors.New("movement not found")

	// ErrAlreadyReceived guards idempotency: replaying a receive would
	// double-credit destination stock.
	ErrAlreadyReceived = errors.New("movement already received")

	// ErrWrongDestination rejects a receive from any warehouse other than the
	// movement's addressee.
	ErrWrongDestination = errors.New("movement is addressed to a different warehouse")

	ErrProductNotAtSource  = errors.New("product is not held at the source warehouse")
	ErrBinNotFound         = errors.New("bin does not exist at the destination warehouse")
	ErrBinCapacityExceeded = errors.New("bin capacity exceeded")
)

// TransferRepository is the slice of MovementRepository the service needs;
// kept narrow so tests can mock it.
type TransferRepository interface {
	InsertMovementRecord(tx *goqu.TxDatabase, params InsertMovementParams) (int, string, error)
	GetMovementRowForUpdate(tx *goqu.TxDatabase, movementID int) (*MovementRow, error)
	MarkCompleted(tx *goqu.TxDatabase, movementID int, toBin *string) error
}

// StockRepository is the ledger surface the engine mutates. Only these calls
// write quantity, warehouse_id or bin_number on a product row.
type StockRepository interface {
	GetProductForUpdate(tx *goqu.TxDatabase, productID int) (*models.Product, error)
	FindAtWarehouseForUpdate(tx *goqu.TxDatabase, partNumber string, warehouseID int) (*models.Product, error)
	FindByPartNumberAny(tx *goqu.TxDatabase, partNumber string) (*models.Product, error)
	DecrementStock(tx *goqu.TxDatabase, productID int, quantity int) error
	IncrementStock(tx *goqu.TxDatabase, productID int, quantity int, binNumber *string) error
	CreateAtWarehouse(tx *goqu.TxDatabase, snapshot models.Product, warehouseID int, quantity int, binNumber *string) (int, error)
	MoveToBin(tx *goqu.TxDatabase, productID int, warehouseID int, binNumber string) error
}

type BinReader interface {
	FindBin(warehouseID int, binNumber string) (*models.Bin, error)
	BinUsedCapacity(warehouseID int, binNumber string) (int, error)
}

type MovementService struct {
	movements TransferRepository
	stock     StockRepository
	bins      BinReader
	txRun     repository.TxRunner
}

func NewMovementService(movements TransferRepository, stock StockRepository, bins BinReader, txRun repository.TxRunner) *MovementService {
	return &MovementService{
		movements: movements,
		stock:     stock,
		bins:      bins,
		txRun:     txRun,
	}
}

// ShipResult reports the outcome for one product of a ship request. Failed
// products carry Error; successful ones carry the created movement identity.
type ShipResult struct {
	ProductID  int    `json:"product_id"`
	MovementID int    `json:"movement_id,omitempty"`
	Reference  string `json:"reference,omitempty"`
	Quantity   int    `json:"quantity"`
	Error      string `json:"error,omitempty"`
}

func (r ShipResult) Succeeded() bool {
	return r.Error == ""
}

// Ship creates one movement per product. Each product is its own
// transaction: the movement insert and the guarded source decrement commit
// together or not at all. From the moment the transaction commits the units
// are in transit and counted at neither warehouse.
func (s *MovementService) Ship(req ShipRequest, actorID *int) ([]ShipResult, error) {
	if req.FromWarehouseID == req.ToWarehouseID {
		return nil, fmt.Errorf("source and destination warehouse must differ")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	results := make([]ShipResult, 0, len(req.ProductIDs))
	for _, productID := range req.ProductIDs {
		result := ShipResult{ProductID: productID, Quantity: req.Quantity}

		err := s.txRun(func(tx *goqu.TxDatabase) error {
			product, err := s.stock.GetProductForUpdate(tx, productID)
			if err != nil {
				return err
			}
			if product.WarehouseID != req.FromWarehouseID {
				return ErrProductNotAtSource
			}

			if err := s.stock.DecrementStock(tx, productID, req.Quantity); err != nil {
				return err
			}

			movementID, reference, err := s.movements.InsertMovementRecord(tx, InsertMovementParams{
				ProductID:       productID,
				FromWarehouseID: req.FromWarehouseID,
				ToWarehouseID:   req.ToWarehouseID,
				Quantity:        req.Quantity,
				Notes:           req.Notes,
				CreatedBy:       actorID,
			})
			if err != nil {
				return err
			}

			result.MovementID = movementID
			result.Reference = reference
			return nil
		})

		if err != nil {
			if !isShipBusinessError(err) {
				return nil, fmt.Errorf("failed to ship product %d: %w", productID, err)
			}
			result.Error = err.Error()
		}

		results = append(results, result)
	}

	return results, nil
}

func isShipBusinessError(err error) bool {
	return errors.Is(err, ErrProductNotAtSource) ||
		errors.Is(err, products.ErrProductNotFound) ||
		errors.Is(err, products.ErrInsufficientStock)
}

type ReceiveResult struct {
	MovementID  int  `json:"movement_id"`
	ProductID   int  `json:"product_id"`
	WarehouseID int  `json:"warehouse_id"`
	Quantity    int  `json:"quantity"`
	CreatedRow  bool `json:"created_row"`
}

// Receive completes an in-transit movement at its destination. The movement
// row is locked first, so a concurrent duplicate receive blocks and then
// fails the already-received check inside the same transaction.
func (s *MovementService) Receive(req ReceiveRequest) (*ReceiveResult, error) {
	var result ReceiveResult

	err := s.txRun(func(tx *goqu.TxDatabase) error {
		row, err := s.movements.GetMovementRowForUpdate(tx, req.MovementID)
		if err != nil {
			return err
		}
		if row == nil {
			return ErrMovementNotFound
		}
		if metadata.MovementStatus(row.Status).IsTerminal() {
			return ErrAlreadyReceived
		}
		if req.WarehouseID != row.ToWarehouseID {
			return ErrWrongDestination
		}

		snapshot, err := s.stock.GetProductForUpdate(tx, row.ProductID)
		if err != nil {
			return err
		}

		destination, err := s.stock.FindAtWarehouseForUpdate(tx, snapshot.PartNumber, row.ToWarehouseID)
		if err != nil {
			return err
		}

		if destination != nil {
			if err := s.stock.IncrementStock(tx, destination.ID, row.Quantity, req.BinNumber); err != nil {
				return err
			}
			result.ProductID = destination.ID
		} else {
			productID, err := s.stock.CreateAtWarehouse(tx, *snapshot, row.ToWarehouseID, row.Quantity, req.BinNumber)
			if err != nil {
				return err
			}
			result.ProductID = productID
			result.CreatedRow = true
		}

		if err := s.movements.MarkCompleted(tx, req.MovementID, req.BinNumber); err != nil {
			return err
		}

		result.MovementID = req.MovementID
		result.WarehouseID = row.ToWarehouseID
		result.Quantity = row.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// AssignBin places a product in a warehouse bin without a movement and
// without a quantity change. The bin must exist and have room.
func (s *MovementService) AssignBin(req AssignBinRequest) error {
	bin, err := s.bins.FindBin(req.WarehouseID, req.BinNumber)
	if err != nil {
		return err
	}
	if bin == nil {
		return ErrBinNotFound
	}

	return s.txRun(func(tx *goqu.TxDatabase) error {
		product, err := s.stock.GetProductForUpdate(tx, req.ProductID)
		if err != nil {
			return err
		}

		if bin.Capacity > 0 {
			used, err := s.bins.BinUsedCapacity(req.WarehouseID, req.BinNumber)
			if err != nil {
				return err
			}
			if used+product.Quantity > bin.Capacity {
				return ErrBinCapacityExceeded
			}
		}

		return s.stock.MoveToBin(tx, req.ProductID, req.WarehouseID, req.BinNumber)
	})
}

// AddUnexpected credits stock with no corresponding prior decrease anywhere.
// It is the confirmed escape hatch for walk-in stock and scanning errors, so
// it is always audited by the caller.
func (s *MovementService) AddUnexpected(req AddUnexpectedRequest) (*ReceiveResult, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	var result ReceiveResult

	err := s.txRun(func(tx *goqu.TxDatabase) error {
		destination, err := s.stock.FindAtWarehouseForUpdate(tx, req.PartNumber, req.WarehouseID)
		if err != nil {
			return err
		}

		if destination != nil {
			if err := s.stock.IncrementStock(tx, destination.ID, req.Quantity, req.BinNumber); err != nil {
				return err
			}
			result.ProductID = destination.ID
		} else {
			snapshot, err := s.stock.FindByPartNumberAny(tx, req.PartNumber)
			if err != nil {
				return err
			}
			if snapshot == nil {
				// First sighting of the part anywhere; a minimal row is
				// created and enriched later through the admin catalog.
				snapshot = &models.Product{
					PartNumber: req.PartNumber,
					Name:       req.PartNumber,
				}
			}

			productID, err := s.stock.CreateAtWarehouse(tx, *snapshot, req.WarehouseID, req.Quantity, req.BinNumber)
			if err != nil {
				return err
			}
			result.ProductID = productID
			result.CreatedRow = true
		}

		result.WarehouseID = req.WarehouseID
		result.Quantity = req.Quantity
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}
