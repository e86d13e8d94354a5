// Package catalog holds the static in-memory product catalog the agent
// loops query. The catalog is populated once at startup and never mutated,
// so it is safe to share across concurrent requests without locking.
package catalog

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"
)

// ErrNotFound is returned when a product id is absent from the catalog.
var ErrNotFound = errors.New("product not found")

// Product is a single catalog entry. Immutable within a session.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	Currency       string            `json:"currency"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Stock          int               `json:"stock"`
	Rating         float64           `json:"rating"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// StockInfo reports availability for a single product.
type StockInfo struct {
	ProductID string `json:"product_id"`
	Available bool   `json:"available"`
	Quantity  int    `json:"quantity"`
	Warehouse string `json:"warehouse"`
}

// PricePoint is one entry of a product's synthetic price history.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// PriceHistory is a chronological series of price points plus aggregates.
type PriceHistory struct {
	ProductID    string       `json:"product_id"`
	Points       []PricePoint `json:"points"`
	CurrentPrice float64      `json:"current_price"`
	LowestPrice  float64      `json:"lowest_price"`
	HighestPrice float64      `json:"highest_price"`
}

// Catalog is a read-only product set keyed by id.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// New builds a catalog from the given seed products. Later duplicates of an
// id win, matching the behaviour of loading seed data top to bottom.
func New(seed []Product) *Catalog {
	c := &Catalog{
		products: make([]Product, len(seed)),
		byID:     make(map[string]int, len(seed)),
	}
	copy(c.products, seed)
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns a catalog seeded with the demo product set.
func Default() *Catalog {
	return New(SeedProducts)
}

// Search returns products whose name, description, category or brand
// contains term, case-insensitively. A limit <= 0 means no limit.
func (c *Catalog) Search(term string, limit int) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	var matched []Product
	for _, p := range c.products {
		if term == "" {
			break
		}
		haystack := strings.ToLower(p.Name + " " + p.Description + " " + p.Category + " " + p.Brand)
		if strings.Contains(haystack, term) {
			matched = append(matched, p)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

// Details returns the full product record for id.
func (c *Catalog) Details(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.products[i], nil
}

// Stock returns availability information for id.
func (c *Catalog) Stock(id string) (StockInfo, error) {
	p, err := c.Details(id)
	if err != nil {
		return StockInfo{}, err
	}
	return StockInfo{
		ProductID: p.ID,
		Available: p.Stock > 0,
		Quantity:  p.Stock,
		Warehouse: "main",
	}, nil
}

// ByCategory returns products whose category contains the given value,
// case-insensitively. A limit <= 0 means no limit.
func (c *Catalog) ByCategory(category string, limit int) []Product {
	category = strings.ToLower(strings.TrimSpace(category))
	var matched []Product
	for _, p := range c.products {
		if category == "" {
			break
		}
		if strings.Contains(strings.ToLower(p.Category), category) {
			matched = append(matched, p)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

// History returns a synthetic daily price series for the last days days,
// oldest first. The series is derived deterministically from the product id
// so repeated calls observe the same history.
func (c *Catalog) History(id string, days int) (PriceHistory, error) {
	p, err := c.Details(id)
	if err != nil {
		return PriceHistory{}, err
	}
	if days <= 0 {
		days = 30
	}

	h := fnv.New64a()
	h.Write([]byte(p.ID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]PricePoint, 0, days)
	lowest, highest := p.Price, p.Price
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i)
		// daily variation within ±10% of the list price
		variation := (rng.Float64()*2 - 1) * 0.1
		price := round2(p.Price * (1 + variation))
		if price < lowest {
			lowest = price
		}
		if price > highest {
			highest = price
		}
		points = append(points, PricePoint{Date: date.Format("2006-01-02"), Price: price})
	}

	return PriceHistory{
		ProductID:    p.ID,
		Points:       points,
		CurrentPrice: p.Price,
		LowestPrice:  lowest,
		HighestPrice: highest,
	}, nil
}

// Products returns a copy of every product in seed order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Len reports the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
