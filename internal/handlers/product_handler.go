package handlers

import (
	"bytes"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"shoestore/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	products *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{
		products: products,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes under /products.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/export", h.HandleExportProducts)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// ProductRequest is the body of product create and update requests. A rating
// in the body is ignored: ratings come from comments.
type ProductRequest struct {
	ProductName string          `json:"productName" validate:"required"`
	ShoeType    string          `json:"shoeType" validate:"required"`
	Images      []string        `json:"image"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" validate:"required"`
	Colors      []string        `json:"color"`
	Sizes       []string        `json:"size"`
}

func (r ProductRequest) input() services.ProductInput {
	return services.ProductInput{
		ProductName: r.ProductName,
		ShoeType:    r.ShoeType,
		Images:      r.Images,
		Price:       r.Price,
		Description: r.Description,
		Colors:      r.Colors,
		Sizes:       r.Sizes,
	}
}

// HandleGetProducts returns the whole catalog.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct returns a single product.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.products.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.products.Create(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces the editable fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err)
	}

	product, err := h.products.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.products.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// HandleExportProducts downloads the catalog as an Excel workbook.
func (h *ProductHandler) HandleExportProducts(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.products.ExportXLSX(c.UserContext(), &buf); err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, "attachment; filename=products.xlsx")
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(buf.Bytes())
}
