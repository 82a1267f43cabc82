package movements

import (
	"fmt"
	"time"

	"modparts/internal/repository"
	"modparts/pkg/metadata"
	"modparts/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
)

type MovementRepository struct {
	repository *repository.Repository
}

func NewMovementRepository(r *repository.Repository) *MovementRepository {
	return &MovementRepository{repository: r}
}

// MovementRow is the movements table row without joins; the hot receive path
// locks exactly this row.
type MovementRow struct {
	ID              int        `db:"id"`
	Reference       string     `db:"reference"`
	ProductID       int        `db:"product_id"`
	FromWarehouseID int        `db:"from_warehouse_id"`
	ToWarehouseID   int        `db:"to_warehouse_id"`
	Quantity        int        `db:"quantity"`
	MovementType    string     `db:"movement_type"`
	Status          string     `db:"status"`
	Notes           *string    `db:"notes"`
	CreatedBy       *int       `db:"created_by"`
	ShippedAt       time.Time  `db:"shipped_at"`
	ReceivedAt      *time.Time `db:"received_at"`
	ScannedAt       *time.Time `db:"scanned_at"`
	ToBin           *string    `db:"to_bin"`
}

type InsertMovementParams struct {
	ProductID       int
	FromWarehouseID int
	ToWarehouseID   int
	Quantity        int
	Notes           *string
	CreatedBy       *int
}

// InsertMovementRecord creates the movement in transit with a fresh reference
// code for the transfer paperwork. Returns the row id and the reference.
func (r *MovementRepository) InsertMovementRecord(tx *goqu.TxDatabase, params InsertMovementParams) (int, string, error) {
	reference := uuid.NewString()

	query := tx.Insert("inventory_movements").
		Rows(goqu.Record{
			"reference":         reference,
			"product_id":        params.ProductID,
			"from_warehouse_id": params.FromWarehouseID,
			"to_warehouse_id":   params.ToWarehouseID,
			"quantity":          params.Quantity,
			"movement_type":     "transfer",
			"status":            metadata.MovementInTransit.String(),
			"notes":             params.Notes,
			"created_by":        params.CreatedBy,
			"shipped_at":        goqu.L("NOW()"),
		}).
		Returning("id")

	var movementID int
	if _, err := query.Executor().ScanVal(&movementID); err != nil {
		return 0, "", fmt.Errorf("failed to insert movement record: %w", err)
	}

	return movementID, reference, nil
}

// GetMovementRowForUpdate locks the movement row so concurrent receive calls
// for the same movement serialize; the second caller sees status completed.
func (r *MovementRepository) GetMovementRowForUpdate(tx *goqu.TxDatabase, movementID int) (*MovementRow, error) {
	var row MovementRow
	query := tx.
		Select(
			"id", "reference", "product_id", "from_warehouse_id", "to_warehouse_id",
			"quantity", "movement_type", "status", "notes", "created_by",
			"shipped_at", "received_at", "scanned_at", "to_bin",
		).
		From("inventory_movements").
		Where(goqu.Ex{"id": movementID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&row)
	if err != nil {
		return nil, fmt.Errorf("failed to lock movement row: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &row, nil
}

func (r *MovementRepository) MarkCompleted(tx *goqu.TxDatabase, movementID int, toBin *string) error {
	record := goqu.Record{
		"status":      metadata.MovementCompleted.String(),
		"received_at": goqu.L("NOW()"),
		"scanned_at":  goqu.L("NOW()"),
	}
	if toBin != nil && *toBin != "" {
		record["to_bin"] = *toBin
	}

	_, err := tx.Update("inventory_movements").
		Set(record).
		Where(goqu.Ex{"id": movementID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to complete movement %d: %w", movementID, err)
	}

	return nil
}

var flatMovementColumns = []interface{}{
	goqu.I("m.id").As("id"),
	goqu.I("m.reference").As("reference"),
	goqu.I("m.product_id").As("product_id"),
	goqu.I("p.part_number").As("part_number"),
	goqu.I("p.name").As("product_name"),
	goqu.I("p.barcode").As("barcode"),
	goqu.I("m.from_warehouse_id").As("from_warehouse_id"),
	goqu.I("wf.name").As("from_warehouse_name"),
	goqu.I("m.to_warehouse_id").As("to_warehouse_id"),
	goqu.I("wt.name").As("to_warehouse_name"),
	goqu.I("m.quantity").As("quantity"),
	goqu.I("m.movement_type").As("movement_type"),
	goqu.I("m.status").As("status"),
	goqu.I("m.notes").As("notes"),
	goqu.I("m.created_by").As("created_by"),
	goqu.I("m.shipped_at").As("shipped_at"),
	goqu.I("m.received_at").As("received_at"),
	goqu.I("m.scanned_at").As("scanned_at"),
	goqu.I("m.to_bin").As("to_bin"),
}

func (r *MovementRepository) movementSelect() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("inventory_movements").As("m")).
		Select(flatMovementColumns...).
		LeftJoin(
			goqu.T("products").As("p"),
			goqu.On(goqu.Ex{"p.id": goqu.I("m.product_id")}),
		).
		LeftJoin(
			goqu.T("warehouses").As("wf"),
			goqu.On(goqu.Ex{"wf.id": goqu.I("m.from_warehouse_id")}),
		).
		LeftJoin(
			goqu.T("warehouses").As("wt"),
			goqu.On(goqu.Ex{"wt.id": goqu.I("m.to_warehouse_id")}),
		)
}

func (r *MovementRepository) GetMovement(movementID int) (*models.Movement, error) {
	var flat models.FlatMovementRecord
	query := r.movementSelect().Where(goqu.Ex{"m.id": movementID})

	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	if !found {
		return nil, nil
	}

	movement := flat.TransformToMovement()
	return &movement, nil
}

func (r *MovementRepository) ListMovements(filter MovementFilter) ([]models.Movement, error) {
	query := r.movementSelect().Order(goqu.I("m.shipped_at").Desc())

	if filter.Status != "" {
		query = query.Where(goqu.Ex{"m.status": filter.Status})
	}
	if filter.ProductID != 0 {
		query = query.Where(goqu.Ex{"m.product_id": filter.ProductID})
	}
	if filter.WarehouseID != 0 {
		query = query.Where(goqu.Or(
			goqu.I("m.from_warehouse_id").Eq(filter.WarehouseID),
			goqu.I("m.to_warehouse_id").Eq(filter.WarehouseID),
		))
	}
	if filter.Limit != 0 {
		query = query.Limit(filter.Limit)
	}

	var flatRecords []models.FlatMovementRecord
	if err := query.Executor().ScanStructs(&flatRecords); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for movements: %w", err)
	}

	history := make([]models.Movement, 0, len(flatRecords))
	for _, flat := range flatRecords {
		history = append(history, flat.TransformToMovement())
	}

	return history, nil
}

// FindInTransitByIdentifier looks for a pending movement whose product
// matches the scanned string and which is addressed to the given warehouse.
// Ties break on earliest shipped_at, so the oldest pending transfer is
// reconciled first.
func (r *MovementRepository) FindInTransitByIdentifier(identifier string, warehouseID int) (*models.Movement, error) {
	pattern := "%" + identifier + "%"
	query := r.movementSelect().
		Where(goqu.Ex{
			"m.status":          metadata.MovementInTransit.String(),
			"m.to_warehouse_id": warehouseID,
		}).
		Where(goqu.Or(
			goqu.I("p.part_number").Eq(identifier),
			goqu.I("p.barcode").Eq(identifier),
			goqu.I("p.part_number").ILike(pattern),
			goqu.I("p.barcode").ILike(pattern),
		)).
		Order(goqu.I("m.shipped_at").Asc()).
		Limit(1)

	var flat models.FlatMovementRecord
	found, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for movement match: %w", err)
	}
	if !found {
		return nil, nil
	}

	movement := flat.TransformToMovement()
	return &movement, nil
}

// UpdateMovement applies a manual status/notes override. Stock is not
// touched; this exists for correcting paperwork, not moving units.
func (r *MovementRepository) UpdateMovement(movementID int, status *string, notes *string) error {
	updates := goqu.Record{}
	if status != nil {
		updates["status"] = *status
	}
	if notes != nil {
		updates["notes"] = *notes
	}
	if len(updates) == 0 {
		return fmt.Errorf("no fields to update")
	}

	result, err := r.repository.GoquDBWrapper.
		Update("inventory_movements").
		Set(updates).
		Where(goqu.Ex{"id": movementID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to update movement %d: %w", movementID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrMovementNotFound
	}

	return nil
}
