package warehouses

import (
	"fmt"

	"modparts/internal/repository"
	custom_error "modparts/pkg/errors"
	"modparts/pkg/metadata"
	"modparts/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type WarehouseRepository struct {
	repository *repository.Repository
}

func NewWarehouseRepository(r *repository.Repository) *WarehouseRepository {
	return &WarehouseRepository{repository: r}
}

var warehouseColumns = []interface{}{
	"id", "name", "code", "address", "latitude", "longitude", "admin_id", "status",
}

func (r *WarehouseRepository) GetWarehouses(includeInactive bool) ([]models.Warehouse, error) {
	var warehouses = []models.Warehouse{}
	query := r.repository.GoquDBWrapper.
		Select(warehouseColumns...).
		From("warehouses").
		Order(goqu.C("name").Asc())

	if !includeInactive {
		query = query.Where(goqu.Ex{"status": metadata.RegistryActive.String()})
	}

	if err := query.Executor().ScanStructs(&warehouses); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return warehouses, nil
}

func (r *WarehouseRepository) GetWarehouse(warehouseID int) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	query := r.repository.GoquDBWrapper.
		Select(warehouseColumns...).
		From("warehouses").
		Where(goqu.Ex{"id": warehouseID})

	found, err := query.Executor().ScanStruct(&warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to get warehouse: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no warehouse found with id: %d", warehouseID)
	}

	return &warehouse, nil
}

func (r *WarehouseRepository) PersistWarehouse(warehouse *models.Warehouse) error {
	warehouse.Status = metadata.RegistryActive.String()

	query := r.repository.GoquDBWrapper.Insert("warehouses").
		Rows(goqu.Record{
			"name":      warehouse.Name,
			"code":      warehouse.Code,
			"address":   warehouse.Address,
			"latitude":  warehouse.Latitude,
			"longitude": warehouse.Longitude,
			"admin_id":  warehouse.AdminID,
			"status":    warehouse.Status,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&warehouse.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate warehouse code", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert warehouse record: %w", err)
	}

	return nil
}

func (r *WarehouseRepository) UpdateWarehouse(warehouseID int, req UpdateWarehouseRequest) (models.Warehouse, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Code != nil {
		updates["code"] = *req.Code
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.AdminID != nil {
		updates["admin_id"] = *req.AdminID
	}
	if len(updates) == 0 {
		return models.Warehouse{}, fmt.Errorf("no fields to update")
	}

	query := r.repository.GoquDBWrapper.
		Update("warehouses").
		Set(updates).
		Where(goqu.Ex{"id": warehouseID}).
		Returning(warehouseColumns...)

	var warehouse models.Warehouse
	found, err := query.Executor().ScanStruct(&warehouse)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return models.Warehouse{}, custom_error.WrapDBError("Duplicate warehouse code", string(pqErr.Code))
		}
		return models.Warehouse{}, fmt.Errorf("failed to update warehouse: %w", err)
	}
	if !found {
		return models.Warehouse{}, fmt.Errorf("no warehouse found with id: %d", warehouseID)
	}

	return warehouse, nil
}

// DeactivateWarehouse flips the registry status instead of deleting the row.
// Movements and products keep their warehouse references forever.
func (r *WarehouseRepository) DeactivateWarehouse(warehouseID int) error {
	result, err := r.repository.GoquDBWrapper.
		Update("warehouses").
		Set(goqu.Record{"status": metadata.RegistryInactive.String()}).
		Where(goqu.Ex{"id": warehouseID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to deactivate warehouse: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no warehouse found with id: %d", warehouseID)
	}

	return nil
}
