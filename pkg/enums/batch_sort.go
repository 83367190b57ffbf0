package enums

import "fmt"

// BatchSortKey is the closed set of orderings for product batch listings.
type BatchSortKey string

const (
	BatchSortQuantityTotal BatchSortKey = "quantitytotal"
	BatchSortQuantityLeft  BatchSortKey = "quantityleft"
	BatchSortArrivedOn     BatchSortKey = "arrivedon"
	BatchSortExpiredDate   BatchSortKey = "expiredon"
)

var validBatchSortKeys = []BatchSortKey{
	BatchSortQuantityTotal,
	BatchSortQuantityLeft,
	BatchSortArrivedOn,
	BatchSortExpiredDate,
}

func (b BatchSortKey) String() string {
	return string(b)
}

func (b BatchSortKey) IsValid() bool {
	for _, candidate := range validBatchSortKeys {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBatchSortKey converts raw input into a BatchSortKey.
func ParseBatchSortKey(value string) (BatchSortKey, error) {
	for _, candidate := range validBatchSortKeys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid batch sort key %q", value)
}
