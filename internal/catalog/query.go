// Package catalog implements the product listing pipeline: filter, sort,
// paginate, in that strict order, recomputed from the full collection on
// every call.
package catalog

import (
	"sort"
	"strings"

	"github.com/shopfront-demo/shopfront/internal/models"
)

const DefaultPageSize = 10

type Query struct {
	Search    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type Page struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// Run applies the pipeline to a snapshot of the product collection.
func Run(products []models.Product, q Query) Page {
	filtered := Filter(products, q)
	Sort(filtered, q.SortBy, q.SortOrder)

	page, limit := clamp(q.Page, q.Limit)
	total := len(filtered)
	totalPages := (total + limit - 1) / limit

	from := (page - 1) * limit
	to := from + limit
	if from > total {
		from = total
	}
	if to > total {
		to = total
	}

	return Page{
		Products: filtered[from:to],
		Pagination: Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages,
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}
}

// Filter keeps products matching every active predicate: case-insensitive
// substring on name/description, exact category, inclusive price bounds.
func Filter(products []models.Product, q Query) []models.Product {
	out := make([]models.Product, 0, len(products))
	search := strings.ToLower(q.Search)
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.MinPrice != nil && p.Price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders products by the named field, strings compared
// case-insensitively. The sort is stable so equal keys keep their
// collection order instead of reshuffling between calls.
func Sort(products []models.Product, sortBy, sortOrder string) {
	less := lessFunc(sortBy)
	desc := strings.EqualFold(sortOrder, "desc")
	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func lessFunc(sortBy string) func(a, b models.Product) bool {
	switch sortBy {
	case "name":
		return func(a, b models.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "category":
		return func(a, b models.Product) bool {
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
	case "price":
		return func(a, b models.Product) bool { return a.Price < b.Price }
	case "rating":
		return func(a, b models.Product) bool { return a.Rating < b.Rating }
	case "stock":
		return func(a, b models.Product) bool { return a.Stock < b.Stock }
	default:
		return func(a, b models.Product) bool { return a.ID < b.ID }
	}
}

func clamp(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = DefaultPageSize
	}
	return page, limit
}
