package metadata

import "strings"

// Barcode is the scannable identifier printed on part labels. When a product
// arrives without one it is derived from the part number so that scanning
// either string resolves the same row.
type Barcode struct {
	prefix string
	part   string
}

const Prefix string = "MP"

func NewBarcode(partNumber string) Barcode {
	var code Barcode

	code.prefix = Prefix
	code.part = normalizePart(partNumber)

	return code
}

func (b Barcode) String() string {
	return b.prefix + "-" + b.part
}

// normalizePart uppercases the part number and collapses whitespace to
// dashes so the result survives label printers and hand-held scanners.
func normalizePart(partNumber string) string {
	normalized := strings.ToUpper(strings.TrimSpace(partNumber))
	normalized = strings.Join(strings.Fields(normalized), "-")
	return normalized
}
