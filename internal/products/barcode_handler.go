package products

import (
	"encoding/base64"
	"errors"
	"net/http"

	"modparts/pkg/metadata"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type BarcodeHandler struct {
	Repository *ProductRepository
}

type generateBarcodeRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

type printDataRequest struct {
	ProductIDs []int `json:"product_ids" binding:"required"`
}

type labelPayload struct {
	ProductID  int    `json:"product_id"`
	PartNumber string `json:"part_number"`
	Name       string `json:"name"`
	Barcode    string `json:"barcode"`
	QRCodePNG  string `json:"qr_code_png"` // base64-encoded PNG
}

func NewBarcodeHandler(r *ProductRepository) *BarcodeHandler {
	return &BarcodeHandler{Repository: r}
}

// RegisterPublicRoutes exposes the scan lookup without authentication so
// hand-held scanners on the warehouse floor can resolve labels directly.
func (h *BarcodeHandler) RegisterPublicRoutes(router gin.IRouter) {
	router.GET("/inventory/barcode", h.Scan)
}

func (h *BarcodeHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/inventory/barcode", h.Dispatch)
}

func (h *BarcodeHandler) Scan(c *gin.Context) {
	if c.Query("action") != "scan" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown action, expected: scan"})
		return
	}

	identifier := c.Query("barcode")
	if identifier == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: barcode"})
		return
	}

	product, err := h.Repository.GetProductByIdentifier(identifier)
	if errors.Is(err, ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "No product matches the scanned code"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not look up product", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *BarcodeHandler) Dispatch(c *gin.Context) {
	switch c.Query("action") {
	case "generate":
		h.Generate(c)
	case "bulk-generate":
		h.BulkGenerate(c)
	case "print-data":
		h.PrintData(c)
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown action, expected one of: generate, bulk-generate, print-data"})
	}
}

func (h *BarcodeHandler) Generate(c *gin.Context) {
	var req generateBarcodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: product_id"})
		return
	}

	product, err := h.Repository.GetProduct(req.ProductID)
	if errors.Is(err, ErrProductNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load product", "details": err.Error()})
		return
	}

	if product.Barcode != nil && *product.Barcode != "" {
		c.JSON(http.StatusOK, gin.H{"product_id": product.ID, "barcode": *product.Barcode})
		return
	}

	barcode := metadata.NewBarcode(product.PartNumber).String()
	if err := h.Repository.SetBarcode(product.ID, barcode); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not assign barcode", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"product_id": product.ID, "barcode": barcode})
}

func (h *BarcodeHandler) BulkGenerate(c *gin.Context) {
	missing, err := h.Repository.GetProductsMissingBarcode()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not list products", "details": err.Error()})
		return
	}

	generated := make([]gin.H, 0, len(missing))
	for _, product := range missing {
		barcode := metadata.NewBarcode(product.PartNumber).String()
		if err := h.Repository.SetBarcode(product.ID, barcode); err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not assign barcode", "details": err.Error()})
			return
		}
		generated = append(generated, gin.H{"product_id": product.ID, "barcode": barcode})
	}

	c.JSON(http.StatusOK, gin.H{"generated": generated, "count": len(generated)})
}

func (h *BarcodeHandler) PrintData(c *gin.Context) {
	var req printDataRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ProductIDs) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required field: product_ids"})
		return
	}

	found, err := h.Repository.GetProductsByIDs(req.ProductIDs)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not load products", "details": err.Error()})
		return
	}

	labels := make([]labelPayload, 0, len(found))
	for _, product := range found {
		barcode := ""
		if product.Barcode != nil {
			barcode = *product.Barcode
		}
		if barcode == "" {
			barcode = metadata.NewBarcode(product.PartNumber).String()
		}

		png, err := qrcode.Encode(barcode, qrcode.Medium, 256)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not render label", "details": err.Error()})
			return
		}

		labels = append(labels, labelPayload{
			ProductID:  product.ID,
			PartNumber: product.PartNumber,
			Name:       product.Name,
			Barcode:    barcode,
			QRCodePNG:  base64.StdEncoding.EncodeToString(png),
		})
	}

	c.JSON(http.StatusOK, gin.H{"labels": labels})
}
