package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"shoestore/internal/apperrors"
	"shoestore/internal/models"
	"shoestore/internal/repositories"
)

// ProductInput holds the editable fields of a product.
type ProductInput struct {
	ProductName string
	ShoeType    string
	Images      []string
	Price       decimal.Decimal
	Description string
	Colors      []string
	Sizes       []string
}

func (in ProductInput) validate() error {
	switch {
	case blank(in.ProductName):
		return apperrors.Validation("Product name is required")
	case blank(in.ShoeType):
		return apperrors.Validation("Shoe type is required")
	case blank(in.Description):
		return apperrors.Validation("Description is required")
	case in.Price.IsNegative():
		return apperrors.Validation("Price cannot be negative")
	}
	return nil
}

func (in ProductInput) apply(p *models.Product) {
	p.ProductName = strings.TrimSpace(in.ProductName)
	p.ShoeType = strings.TrimSpace(in.ShoeType)
	p.Images = in.Images
	p.Price = in.Price
	p.Description = in.Description
	p.Colors = in.Colors
	p.Sizes = in.Sizes
}

// ProductService handles the product catalog.
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List returns every product.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, "Error fetching products")
	}
	return products, nil
}

// Get returns a single product.
func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "Error fetching product")
	}
	return product, nil
}

// Create adds a product to the catalog. New products start unrated.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{}
	in.apply(product)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, storeError(err, "Error adding product")
	}
	return product, nil
}

// Update replaces the editable fields of a product. The rating is derived
// from comments and cannot be set.
func (s *ProductService) Update(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	product := &models.Product{ID: id}
	in.apply(product)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, storeError(err, "Error updating product")
	}
	return s.Get(ctx, id)
}

// Delete removes a product.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return storeError(err, "Error deleting product")
	}
	return nil
}

var exportHeaders = []string{
	"ID", "ProductName", "ShoeType", "Price", "Rating", "RatingCount",
	"Description", "Colors", "Sizes", "Images", "CreatedAt", "UpdatedAt",
}

// ExportXLSX writes the catalog as an Excel workbook with one row per product.
func (s *ProductService) ExportXLSX(ctx context.Context, w io.Writer) error {
	products, err := s.List(ctx)
	if err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return apperrors.Store(err, "Failed to create Excel sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.ProductName)
		row.AddCell().SetString(p.ShoeType)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetString(p.Rating.StringFixed(1))
		row.AddCell().SetInt(int(p.RatingCount))
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(strings.Join(p.Colors, ","))
		row.AddCell().SetString(strings.Join(p.Sizes, ","))
		row.AddCell().SetString(strings.Join(p.Images, ","))
		row.AddCell().SetString(p.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(p.UpdatedAt.Format("2006-01-02 15:04:05"))
	}

	if err := file.Write(w); err != nil {
		return apperrors.Store(fmt.Errorf("write workbook: %w", err), "Failed to write Excel file")
	}
	return nil
}
