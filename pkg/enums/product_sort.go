package enums

import "fmt"

// ProductSortKey is the closed set of orderings for marketplace product search.
// Repositories map each key to an explicit order expression; free-form sort
// input is never interpolated into SQL.
type ProductSortKey string

const (
	ProductSortRelevance ProductSortKey = "relevance"
	ProductSortPrice     ProductSortKey = "price"
	ProductSortSales     ProductSortKey = "sales"
)

var validProductSortKeys = []ProductSortKey{
	ProductSortRelevance,
	ProductSortPrice,
	ProductSortSales,
}

func (p ProductSortKey) String() string {
	return string(p)
}

func (p ProductSortKey) IsValid() bool {
	for _, candidate := range validProductSortKeys {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSortKey converts raw input into a ProductSortKey.
func ParseProductSortKey(value string) (ProductSortKey, error) {
	for _, candidate := range validProductSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort key %q", value)
}
