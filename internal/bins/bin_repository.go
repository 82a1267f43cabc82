package bins

import (
	"fmt"

	"modparts/internal/repository"
	custom_error "modparts/pkg/errors"
	"modparts/pkg/metadata"
	"modparts/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type BinRepository struct {
	repository *repository.Repository
}

func NewBinRepository(r *repository.Repository) *BinRepository {
	return &BinRepository{repository: r}
}

var binColumns = []interface{}{
	"id", "warehouse_id", "bin_number", "description", "capacity", "status",
}

func (r *BinRepository) GetBins(warehouseID int, includeInactive bool) ([]models.Bin, error) {
	var bins = []models.Bin{}
	query := r.repository.GoquDBWrapper.
		Select(binColumns...).
		From("bins").
		Order(goqu.C("bin_number").Asc())

	if warehouseID != 0 {
		query = query.Where(goqu.Ex{"warehouse_id": warehouseID})
	}
	if !includeInactive {
		query = query.Where(goqu.Ex{"status": metadata.RegistryActive.String()})
	}

	if err := query.Executor().ScanStructs(&bins); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return bins, nil
}

func (r *BinRepository) GetBin(binID int) (*models.Bin, error) {
	var bin models.Bin
	query := r.repository.GoquDBWrapper.
		Select(binColumns...).
		From("bins").
		Where(goqu.Ex{"id": binID})

	found, err := query.Executor().ScanStruct(&bin)
	if err != nil {
		return nil, fmt.Errorf("failed to get bin: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no bin found with id: %d", binID)
	}

	return &bin, nil
}

func (r *BinRepository) FindBin(warehouseID int, binNumber string) (*models.Bin, error) {
	var bin models.Bin
	query := r.repository.GoquDBWrapper.
		Select(binColumns...).
		From("bins").
		Where(goqu.Ex{
			"warehouse_id": warehouseID,
			"bin_number":   binNumber,
		})

	found, err := query.Executor().ScanStruct(&bin)
	if err != nil {
		return nil, fmt.Errorf("failed to find bin: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &bin, nil
}

func (r *BinRepository) PersistBin(bin *models.Bin) error {
	bin.Status = metadata.RegistryActive.String()

	query := r.repository.GoquDBWrapper.Insert("bins").
		Rows(goqu.Record{
			"warehouse_id": bin.WarehouseID,
			"bin_number":   bin.BinNumber,
			"description":  bin.Description,
			"capacity":     bin.Capacity,
			"status":       bin.Status,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&bin.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate bin number within warehouse", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert bin record: %w", err)
	}

	return nil
}

func (r *BinRepository) UpdateBin(binID int, req UpdateBinRequest) (models.Bin, error) {
	updates := make(map[string]interface{})

	if req.BinNumber != nil {
		updates["bin_number"] = *req.BinNumber
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if len(updates) == 0 {
		return models.Bin{}, fmt.Errorf("no fields to update")
	}

	query := r.repository.GoquDBWrapper.
		Update("bins").
		Set(updates).
		Where(goqu.Ex{"id": binID}).
		Returning(binColumns...)

	var bin models.Bin
	found, err := query.Executor().ScanStruct(&bin)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return models.Bin{}, custom_error.WrapDBError("Duplicate bin number within warehouse", string(pqErr.Code))
		}
		return models.Bin{}, fmt.Errorf("failed to update bin: %w", err)
	}
	if !found {
		return models.Bin{}, fmt.Errorf("no bin found with id: %d", binID)
	}

	return bin, nil
}

func (r *BinRepository) DeactivateBin(binID int) error {
	result, err := r.repository.GoquDBWrapper.
		Update("bins").
		Set(goqu.Record{"status": metadata.RegistryInactive.String()}).
		Where(goqu.Ex{"id": binID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to deactivate bin: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no bin found with id: %d", binID)
	}

	return nil
}

// BinUsedCapacity sums the on-hand quantities of every product assigned to
// the bin. Used by the capacity check on explicit bin assignment.
func (r *BinRepository) BinUsedCapacity(warehouseID int, binNumber string) (int, error) {
	sql, args, err := r.repository.GoquDBWrapper.
		Select(goqu.COALESCE(goqu.SUM("quantity"), 0)).
		From("products").
		Where(goqu.Ex{
			"warehouse_id": warehouseID,
			"bin_number":   binNumber,
		}).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}

	var used int
	if err := r.repository.DB.QueryRow(sql, args...).Scan(&used); err != nil {
		return 0, fmt.Errorf("failed to execute query: %w", err)
	}

	return used, nil
}

type flatBinContents struct {
	WarehouseID   int     `db:"warehouse_id"`
	BinNumber     string  `db:"bin_number"`
	PartNumbers   *string `db:"part_numbers"`
	ProductNames  *string `db:"product_names"`
	UniqueCount   int     `db:"unique_count"`
	TotalQuantity int     `db:"total_quantity"`
}

// GetBinContents aggregates the stock ledger per bin: distinct part numbers,
// product names, unique product count and total quantity.
func (r *BinRepository) GetBinContents(warehouseID int, search string) ([]models.BinContents, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("products").As("p")).
		Select(
			goqu.I("p.warehouse_id").As("warehouse_id"),
			goqu.I("p.bin_number").As("bin_number"),
			goqu.L("string_agg(DISTINCT p.part_number, ',')").As("part_numbers"),
			goqu.L("string_agg(DISTINCT p.name, ',')").As("product_names"),
			goqu.L("COUNT(DISTINCT p.id)").As("unique_count"),
			goqu.L("COALESCE(SUM(p.quantity), 0)").As("total_quantity"),
		).
		Where(goqu.Ex{"p.warehouse_id": warehouseID}).
		Where(goqu.C("bin_number").Table("p").IsNotNull()).
		GroupBy(goqu.I("p.warehouse_id"), goqu.I("p.bin_number")).
		Order(goqu.I("p.bin_number").Asc())

	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where(goqu.Or(
			goqu.I("p.bin_number").ILike(pattern),
			goqu.I("p.part_number").ILike(pattern),
			goqu.I("p.name").ILike(pattern),
		))
	}

	var flatRows []flatBinContents
	if err := query.Executor().ScanStructs(&flatRows); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for bin contents: %w", err)
	}

	contents := make([]models.BinContents, 0, len(flatRows))
	for _, row := range flatRows {
		contents = append(contents, models.BinContents{
			WarehouseID:   row.WarehouseID,
			BinNumber:     row.BinNumber,
			PartNumbers:   splitAggregated(row.PartNumbers),
			ProductNames:  splitAggregated(row.ProductNames),
			UniqueCount:   row.UniqueCount,
			TotalQuantity: row.TotalQuantity,
		})
	}

	return contents, nil
}
