package movements

type ShipRequest struct {
	ProductIDs      []int   `json:"product_ids" binding:"required"`
	FromWarehouseID int     `json:"from_warehouse_id" binding:"required"`
	ToWarehouseID   int     `json:"to_warehouse_id" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	Notes           *string `json:"notes"`
}

type ReceiveRequest struct {
	MovementID  int     `json:"movement_id" binding:"required"`
	BinNumber   *string `json:"bin_number"`
	WarehouseID int     `json:"warehouse_id"`
}

type AssignBinRequest struct {
	ProductID   int    `json:"product_id" binding:"required"`
	BinNumber   string `json:"bin_number" binding:"required"`
	WarehouseID int    `json:"warehouse_id" binding:"required"`
}

type AddUnexpectedRequest struct {
	PartNumber  string  `json:"part_number" binding:"required"`
	WarehouseID int     `json:"warehouse_id" binding:"required"`
	BinNumber   *string `json:"bin_number"`
	Quantity    int     `json:"quantity" binding:"required"`
}

type UpdateMovementRequest struct {
	ID     int     `json:"id" binding:"required"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// MovementFilter narrows the history listing. WarehouseID matches the
// warehouse as sender or receiver.
type MovementFilter struct {
	Status      string
	ProductID   int
	WarehouseID int
	Limit       uint
}
