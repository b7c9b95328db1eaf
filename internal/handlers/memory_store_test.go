package handlers_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	pkgerrors "storefront-catalog/internal/errors"
	"storefront-catalog/internal/models"
)

// memoryStore es una implementación en memoria de catalog.Store para los tests HTTP.
type memoryStore struct {
	mu       sync.RWMutex
	products []models.Product
	failWith error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func cloneProduct(p models.Product) models.Product {
	p.Variants = append([]models.Variant{}, p.Variants...)
	p.Reviews = append([]models.Review{}, p.Reviews...)
	p.Tags = append([]string{}, p.Tags...)
	p.AdditionalImages = append([]string{}, p.AdditionalImages...)
	return p
}

func (s *memoryStore) index(id primitive.ObjectID) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *memoryStore) skuTaken(sku string) bool {
	for _, p := range s.products {
		for _, v := range p.Variants {
			if v.SKU == sku {
				return true
			}
		}
	}
	return false
}

func (s *memoryStore) Insert(_ context.Context, product *models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}

	for _, v := range product.Variants {
		if s.skuTaken(v.SKU) {
			return pkgerrors.Conflict("SKU already exists")
		}
	}
	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	s.products = append(s.products, cloneProduct(*product))
	return nil
}

func (s *memoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}

	i := s.index(id)
	if i < 0 {
		return nil, pkgerrors.NotFound("Product not found")
	}
	p := cloneProduct(s.products[i])
	return &p, nil
}

func matchesSearch(p models.Product, search string) bool {
	text := strings.ToLower(p.Name + " " + p.Description)
	for _, token := range strings.Fields(strings.ToLower(search)) {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

func matches(p models.Product, f models.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.Featured != nil && p.Featured != *f.Featured {
		return false
	}
	if f.MinPrice != nil && p.BasePrice < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.BasePrice > *f.MaxPrice {
		return false
	}
	if strings.TrimSpace(f.Search) != "" && !matchesSearch(p, f.Search) {
		return false
	}

	anyColor, anySize, anyStock := f.Color == "", f.Size == "", false
	for _, v := range p.Variants {
		anyColor = anyColor || strings.EqualFold(v.Color, f.Color)
		anySize = anySize || v.Size == f.Size
		anyStock = anyStock || v.Stock > 0
	}
	if f.InStock != nil && anyStock != *f.InStock {
		return false
	}
	return anyColor && anySize
}

func (s *memoryStore) Find(_ context.Context, f models.ProductFilter, page models.Page) ([]models.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, 0, s.failWith
	}

	matched := make([]models.Product, 0)
	for _, p := range s.products {
		if matches(p, f) {
			matched = append(matched, cloneProduct(p))
		}
	}
	if page.SortField == "basePrice" {
		sort.SliceStable(matched, func(i, j int) bool {
			if page.SortDesc {
				return matched[i].BasePrice > matched[j].BasePrice
			}
			return matched[i].BasePrice < matched[j].BasePrice
		})
	}

	total := int64(len(matched))
	start := int(page.Skip())
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (s *memoryStore) PushVariant(_ context.Context, id primitive.ObjectID, variant models.Variant) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, pkgerrors.NotFound("Product not found")
	}
	if s.skuTaken(variant.SKU) {
		return nil, pkgerrors.Conflict("SKU already exists")
	}
	s.products[i].Variants = append(s.products[i].Variants, variant)
	p := cloneProduct(s.products[i])
	return &p, nil
}

func (s *memoryStore) PushReview(_ context.Context, id primitive.ObjectID, review models.Review) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, pkgerrors.NotFound("Product not found")
	}
	s.products[i].Reviews = append(s.products[i].Reviews, review)
	p := cloneProduct(s.products[i])
	return &p, nil
}

func (s *memoryStore) SetVariantStock(_ context.Context, id primitive.ObjectID, sku string, stock int) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i >= 0 {
		for j := range s.products[i].Variants {
			if s.products[i].Variants[j].SKU == sku {
				s.products[i].Variants[j].Stock = stock
				p := cloneProduct(s.products[i])
				return &p, nil
			}
		}
	}
	return nil, pkgerrors.NotFound("Product or variant not found")
}

func (s *memoryStore) MarkOutOfStockIfEmpty(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return false, nil
	}
	before := s.products[i].Status
	s.products[i] = models.ApplyStockInvariant(s.products[i])
	return before != s.products[i].Status, nil
}

func (s *memoryStore) SKUExists(_ context.Context, sku string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.skuTaken(sku), nil
}

func (s *memoryStore) Statistics(_ context.Context) (*models.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.failWith != nil {
		return nil, s.failWith
	}

	stats := &models.Statistics{
		CategoryDistribution: []models.CategoryCount{},
		BrandDistribution:    []models.BrandCount{},
	}
	categories := map[string]int64{}
	brands := map[string]int64{}
	var priceSum float64
	for _, p := range s.products {
		stats.TotalProducts++
		switch p.Status {
		case models.StatusActive:
			stats.ActiveProducts++
		case models.StatusInactive:
			stats.InactiveProducts++
		}
		priceSum += p.BasePrice
		stats.TotalStockAcrossCatalog += int64(models.TotalStock(p.Variants))
		categories[string(p.Category)]++
		brands[p.Brand]++
	}
	if stats.TotalProducts > 0 {
		stats.AveragePrice = models.RoundPrice(priceSum / float64(stats.TotalProducts))
	}
	for name, count := range categories {
		stats.CategoryDistribution = append(stats.CategoryDistribution, models.CategoryCount{Category: name, Count: count})
	}
	sort.Slice(stats.CategoryDistribution, func(i, j int) bool {
		a, b := stats.CategoryDistribution[i], stats.CategoryDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Category < b.Category
	})
	for name, count := range brands {
		stats.BrandDistribution = append(stats.BrandDistribution, models.BrandCount{Brand: name, Count: count})
	}
	sort.Slice(stats.BrandDistribution, func(i, j int) bool {
		a, b := stats.BrandDistribution[i], stats.BrandDistribution[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Brand < b.Brand
	})
	return stats, nil
}
