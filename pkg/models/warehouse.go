package models

type Warehouse struct {
	ID        int      `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Code      string   `json:"code" db:"code"`
	Address   *string  `json:"address" db:"address"`
	Latitude  *float64 `json:"latitude" db:"latitude"`
	Longitude *float64 `json:"longitude" db:"longitude"`
	AdminID   *int     `json:"admin_id" db:"admin_id"`
	Status    string   `json:"status" db:"status"`
}

func (w *Warehouse) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   w.ID,
		ResourceType: "warehouse",
	}
}
