package models

// Product is one stock ledger row: the on-hand count of a part at a single
// warehouse. The same part number may exist as separate rows at different
// warehouses; identity for matching purposes is (part_number, warehouse_id).
type Product struct {
	ID          int     `json:"id" db:"id"`
	PartNumber  string  `json:"part_number" db:"part_number"`
	Barcode     *string `json:"barcode" db:"barcode"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
	Price       float64 `json:"price" db:"price"`
	Category    *string `json:"category" db:"category"`
	ImageURL    *string `json:"image_url" db:"image_url"`
	WarehouseID int     `json:"warehouse_id" db:"warehouse_id"`
	BinNumber   *string `json:"bin_number" db:"bin_number"`
	Quantity    int     `json:"quantity" db:"quantity"`
}

func (p *Product) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   p.ID,
		ResourceType: "product",
	}
}
