package models

type Bin struct {
	ID          int     `json:"id" db:"id"`
	WarehouseID int     `json:"warehouse_id" db:"warehouse_id"`
	BinNumber   string  `json:"bin_number" db:"bin_number"`
	Description *string `json:"description" db:"description"`
	Capacity    int     `json:"capacity" db:"capacity"`
	Status      string  `json:"status" db:"status"`
}

func (b *Bin) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   b.ID,
		ResourceType: "bin",
	}
}

// BinContents is the aggregated view of one bin: what part numbers sit in it
// and how many physical units they add up to.
type BinContents struct {
	WarehouseID   int      `json:"warehouse_id" db:"warehouse_id"`
	BinNumber     string   `json:"bin_number" db:"bin_number"`
	PartNumbers   []string `json:"part_numbers"`
	ProductNames  []string `json:"product_names"`
	UniqueCount   int      `json:"unique_product_count" db:"unique_count"`
	TotalQuantity int      `json:"total_quantity" db:"total_quantity"`
}
