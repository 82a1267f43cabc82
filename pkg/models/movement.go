package models

import (
	"time"
)

type Movement struct {
	ID            int        `json:"id"`
	Reference     string     `json:"reference"`
	Product       Product    `json:"product"`
	FromWarehouse Warehouse  `json:"from_warehouse"`
	ToWarehouse   Warehouse  `json:"to_warehouse"`
	Quantity      int        `json:"quantity"`
	MovementType  string     `json:"movement_type"`
	Status        string     `json:"status"`
	Notes         *string    `json:"notes"`
	CreatedBy     *int       `json:"created_by"`
	ShippedAt     time.Time  `json:"shipped_at"`
	ReceivedAt    *time.Time `json:"received_at"`
	ScannedAt     *time.Time `json:"scanned_at"`
	ToBin         *string    `json:"to_bin"`
}

// FlatMovementRecord is the join row the repository scans; joined warehouse
// and product columns are flattened next to the movement's own fields.
type FlatMovementRecord struct {
	ID                int        `db:"id"`
	Reference         string     `db:"reference"`
	ProductID         int        `db:"product_id"`
	PartNumber        string     `db:"part_number"`
	ProductName       string     `db:"product_name"`
	Barcode           *string    `db:"barcode"`
	FromWarehouseID   int        `db:"from_warehouse_id"`
	FromWarehouseName string     `db:"from_warehouse_name"`
	ToWarehouseID     int        `db:"to_warehouse_id"`
	ToWarehouseName   string     `db:"to_warehouse_name"`
	Quantity          int        `db:"quantity"`
	MovementType      string     `db:"movement_type"`
	Status            string     `db:"status"`
	Notes             *string    `db:"notes"`
	CreatedBy         *int       `db:"created_by"`
	ShippedAt         time.Time  `db:"shipped_at"`
	ReceivedAt        *time.Time `db:"received_at"`
	ScannedAt         *time.Time `db:"scanned_at"`
	ToBin             *string    `db:"to_bin"`
}

func (fm *FlatMovementRecord) TransformToMovement() Movement {
	return Movement{
		ID:        fm.ID,
		Reference: fm.Reference,
		Product: Product{
			ID:         fm.ProductID,
			PartNumber: fm.PartNumber,
			Name:       fm.ProductName,
			Barcode:    fm.Barcode,
		},
		FromWarehouse: Warehouse{
			ID:   fm.FromWarehouseID,
			Name: fm.FromWarehouseName,
		},
		ToWarehouse: Warehouse{
			ID:   fm.ToWarehouseID,
			Name: fm.ToWarehouseName,
		},
		Quantity:     fm.Quantity,
		MovementType: fm.MovementType,
		Status:       fm.Status,
		Notes:        fm.Notes,
		CreatedBy:    fm.CreatedBy,
		ShippedAt:    fm.ShippedAt,
		ReceivedAt:   fm.ReceivedAt,
		ScannedAt:    fm.ScannedAt,
		ToBin:        fm.ToBin,
	}
}

func (m *Movement) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   m.ID,
		ResourceType: "movement",
	}
}
