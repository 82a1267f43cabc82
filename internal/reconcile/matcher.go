package reconcile

import (
	"errors"

	"modparts/internal/products"
	"modparts/pkg/models"
)

// Classification is the outcome of matching a scan against pending movements.
type Classification string

const (
	// Expected: an in-transit movement addressed to the operator's warehouse
	// matches the scan; the follow-up is a receive call.
	Expected Classification = "expected"

	// UnexpectedExisting: no pending movement, but the part is known
	// somewhere; requires operator confirmation before add-unexpected.
	UnexpectedExisting Classification = "unexpected_existing"

	// UnexpectedNew: the part is unknown everywhere; confirmation will create
	// a new ledger row.
	UnexpectedNew Classification = "unexpected_new"
)

type ScanResult struct {
	Classification Classification   `json:"classification"`
	Movement       *models.Movement `json:"movement,omitempty"`
	Product        *models.Product  `json:"product,omitempty"`
}

type MovementFinder interface {
	FindInTransitByIdentifier(identifier string, warehouseID int) (*models.Movement, error)
}

type ProductFinder interface {
	GetProductByIdentifier(identifier string) (*models.Product, error)
}

type Matcher struct {
	movements MovementFinder
	catalog   ProductFinder
}

func NewMatcher(movements MovementFinder, catalog ProductFinder) *Matcher {
	return &Matcher{
		movements: movements,
		catalog:   catalog,
	}
}

// Classify decides whether a scan at the destination warehouse corresponds
// to a pending movement. Matching is read-only; the follow-up call (receive
// or add-unexpected) performs the stock mutation. When several in-transit
// movements match, the one with the earliest shipped_at wins.
func (m *Matcher) Classify(identifier string, warehouseID int) (*ScanResult, error) {
	movement, err := m.movements.FindInTransitByIdentifier(identifier, warehouseID)
	if err != nil {
		return nil, err
	}
	if movement != nil {
		return &ScanResult{
			Classification: Expected,
			Movement:       movement,
		}, nil
	}

	product, err := m.catalog.GetProductByIdentifier(identifier)
	if errors.Is(err, products.ErrProductNotFound) {
		return &ScanResult{Classification: UnexpectedNew}, nil
	}
	if err != nil {
		return nil, err
	}

	return &ScanResult{
		Classification: UnexpectedExisting,
		Product:        product,
	}, nil
}
