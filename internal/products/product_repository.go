package products

import (
	"errors"
	"fmt"

	"modparts/internal/repository"
	custom_error "modparts/pkg/errors"
	"modparts/pkg/metadata"
	"modparts/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
)

var (
	ErrProductNotFound = errors.New("product not found")

	// ErrInsufficientStock replaces the silent clamp-at-zero the storefront
	// used to do: shipping more than is on hand is rejected outright.
	ErrInsufficientStock = errors.New("insufficient stock at source warehouse")
)

type ProductRepository struct {
	repository *repository.Repository
}

func NewProductRepository(r *repository.Repository) *ProductRepository {
	return &ProductRepository{repository: r}
}

var productColumns = []interface{}{
	"id", "part_number", "barcode", "name", "description", "price",
	"category", "image_url", "warehouse_id", "bin_number", "quantity",
}

func (r *ProductRepository) GetProduct(productID int) (*models.Product, error) {
	var product models.Product
	query := r.repository.GoquDBWrapper.
		Select(productColumns...).
		From("products").
		Where(goqu.Ex{"id": productID})

	found, err := query.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if !found {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

// GetProductByIdentifier resolves a scanned string against barcode and part
// number, preferring an exact match over a case-insensitive substring one.
func (r *ProductRepository) GetProductByIdentifier(identifier string) (*models.Product, error) {
	var product models.Product

	exact := r.repository.GoquDBWrapper.
		Select(productColumns...).
		From("products").
		Where(goqu.Or(
			goqu.C("barcode").Eq(identifier),
			goqu.C("part_number").Eq(identifier),
		)).
		Order(goqu.C("part_number").Asc()).
		Limit(1)

	found, err := exact.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if found {
		return &product, nil
	}

	pattern := "%" + identifier + "%"
	fuzzy := r.repository.GoquDBWrapper.
		Select(productColumns...).
		From("products").
		Where(goqu.Or(
			goqu.C("barcode").ILike(pattern),
			goqu.C("part_number").ILike(pattern),
		)).
		Order(goqu.C("part_number").Asc()).
		Limit(1)

	found, err = fuzzy.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to look up product: %w", err)
	}
	if !found {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

// GetProductForUpdate locks the row for the duration of the enclosing
// transaction. One writer at a time per (part_number, warehouse) pair.
func (r *ProductRepository) GetProductForUpdate(tx *goqu.TxDatabase, productID int) (*models.Product, error) {
	var product models.Product
	query := tx.
		Select(productColumns...).
		From("products").
		Where(goqu.Ex{"id": productID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to lock product row: %w", err)
	}
	if !found {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

func (r *ProductRepository) FindAtWarehouseForUpdate(tx *goqu.TxDatabase, partNumber string, warehouseID int) (*models.Product, error) {
	var product models.Product
	query := tx.
		Select(productColumns...).
		From("products").
		Where(goqu.Ex{
			"part_number":  partNumber,
			"warehouse_id": warehouseID,
		}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to lock destination product row: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &product, nil
}

// FindByPartNumberAny returns a row for the part from any warehouse, used as
// a descriptive snapshot when an unexpected receipt creates a new ledger row.
func (r *ProductRepository) FindByPartNumberAny(tx *goqu.TxDatabase, partNumber string) (*models.Product, error) {
	var product models.Product
	query := tx.
		Select(productColumns...).
		From("products").
		Where(goqu.Ex{"part_number": partNumber}).
		Order(goqu.C("id").Asc()).
		Limit(1)

	found, err := query.Executor().ScanStruct(&product)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by part number: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &product, nil
}

// DecrementStock subtracts quantity from the source row, guarded so the
// counter can never go negative. Zero rows affected means the shipment asked
// for more than is on hand.
func (r *ProductRepository) DecrementStock(tx *goqu.TxDatabase, productID int, quantity int) error {
	result, err := tx.Update("products").
		Set(goqu.Record{
			"quantity": goqu.L("quantity - ?", quantity),
		}).
		Where(goqu.Ex{"id": productID}).
		Where(goqu.C("quantity").Gte(quantity)).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to decrease quantity for product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for product %d: %w", productID, err)
	}

	if rowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// IncrementStock adds quantity to an existing row. The bin is updated only
// when one is supplied; a nil bin never clears an existing assignment.
func (r *ProductRepository) IncrementStock(tx *goqu.TxDatabase, productID int, quantity int, binNumber *string) error {
	record := goqu.Record{
		"quantity": goqu.L("quantity + ?", quantity),
	}
	if binNumber != nil && *binNumber != "" {
		record["bin_number"] = *binNumber
	}

	result, err := tx.Update("products").
		Set(record).
		Where(goqu.Ex{"id": productID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to increase quantity for product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for product %d: %w", productID, err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// CreateAtWarehouse inserts a new ledger row at the destination, copying the
// descriptive fields from the source snapshot. FOR UPDATE cannot lock a row
// that does not exist yet, so two transactions can both see no destination row
// and land here; the upsert folds the loser into the winner's row instead of
// failing on the unique (part_number, warehouse_id) constraint. EXCLUDED.bin_number
// is coalesced so a merge without a bin keeps the existing assignment.
func (r *ProductRepository) CreateAtWarehouse(tx *goqu.TxDatabase, snapshot models.Product, warehouseID int, quantity int, binNumber *string) (int, error) {
	barcode := snapshot.Barcode
	if barcode == nil {
		generated := metadata.NewBarcode(snapshot.PartNumber).String()
		barcode = &generated
	}

	query := tx.Insert("products").
		Rows(goqu.Record{
			"part_number":  snapshot.PartNumber,
			"barcode":      barcode,
			"name":         snapshot.Name,
			"description":  snapshot.Description,
			"price":        snapshot.Price,
			"category":     snapshot.Category,
			"image_url":    snapshot.ImageURL,
			"warehouse_id": warehouseID,
			"bin_number":   binNumber,
			"quantity":     quantity,
		}).
		OnConflict(
			goqu.DoUpdate(
				"part_number, warehouse_id",
				goqu.Record{
					"quantity":   goqu.L("products.quantity + EXCLUDED.quantity"),
					"bin_number": goqu.L("COALESCE(EXCLUDED.bin_number, products.bin_number)"),
				},
			),
		).
		Returning("id")

	var productID int
	if _, err := query.Executor().ScanVal(&productID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return 0, custom_error.WrapDBError("Duplicate product row at warehouse", string(pqErr.Code))
		}
		return 0, fmt.Errorf("failed to insert product record at warehouse %d: %w", warehouseID, err)
	}

	return productID, nil
}

// MoveToBin reassigns a product's warehouse and bin without touching the
// quantity. Used for initial placement, not transfer.
func (r *ProductRepository) MoveToBin(tx *goqu.TxDatabase, productID int, warehouseID int, binNumber string) error {
	result, err := tx.Update("products").
		Set(goqu.Record{
			"warehouse_id": warehouseID,
			"bin_number":   binNumber,
		}).
		Where(goqu.Ex{"id": productID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to assign bin for product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for product %d: %w", productID, err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) SetBarcode(productID int, barcode string) error {
	result, err := r.repository.GoquDBWrapper.
		Update("products").
		Set(goqu.Record{"barcode": barcode}).
		Where(goqu.Ex{"id": productID}).
		Executor().
		Exec()
	if err != nil {
		return fmt.Errorf("failed to set barcode for product %d: %w", productID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (r *ProductRepository) GetProductsMissingBarcode() ([]models.Product, error) {
	var missing = []models.Product{}
	query := r.repository.GoquDBWrapper.
		Select(productColumns...).
		From("products").
		Where(goqu.Or(
			goqu.C("barcode").IsNull(),
			goqu.C("barcode").Eq(""),
		))

	if err := query.Executor().ScanStructs(&missing); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return missing, nil
}

func (r *ProductRepository) GetProductsByIDs(productIDs []int) ([]models.Product, error) {
	var found = []models.Product{}
	query := r.repository.GoquDBWrapper.
		Select(productColumns...).
		From("products").
		Where(goqu.C("id").In(productIDs))

	if err := query.Executor().ScanStructs(&found); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return found, nil
}
