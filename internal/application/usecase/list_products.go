package usecase

import (
	"context"
	"fmt"

	"github.com/loansi/scoring-engine/internal/application/dto"
	"github.com/loansi/scoring-engine/internal/domain/port"
)

// ListProductsUseCase lists the configured credit lines.
type ListProductsUseCase struct {
	catalogRepo port.CatalogRepository
}

// NewListProductsUseCase wires dependencies.
func NewListProductsUseCase(catalogRepo port.CatalogRepository) *ListProductsUseCase {
	return &ListProductsUseCase{catalogRepo: catalogRepo}
}

// Execute fetches all products.
func (uc *ListProductsUseCase) Execute(
	ctx context.Context,
	_ dto.ListProductsRequest,
) (dto.ProductListResponse, error) {
	products, err := uc.catalogRepo.ListProducts(ctx)
	if err != nil {
		return dto.ProductListResponse{}, fmt.Errorf("list products: %w", err)
	}

	resp := dto.ProductListResponse{
		Products: make([]dto.ProductResponse, 0, len(products)),
	}
	for _, p := range products {
		resp.Products = append(resp.Products, dto.ProductResponse{
			ID:            p.ID,
			Name:          p.Name,
			Description:   p.Description,
			AmountMin:     p.AmountMin,
			AmountMax:     p.AmountMax,
			TermMin:       p.TermMin,
			TermMax:       p.TermMax,
			TermUnit:      string(p.TermUnit),
			BaseAnnualPct: p.BaseAnnualPct,
			Active:        p.Active,
		})
	}
	return resp, nil
}
