package order

import (
	"encoding/json"

	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// CogsMode describes how a batch's unit cost is stored.
type CogsMode string

const (
	CogsModeFixed CogsMode = "FIXED"
	CogsModeRange CogsMode = "RANGE"
)

// CogsSource records where a line item's unit cost came from.
type CogsSource string

const (
	CogsSourceFixed            CogsSource = "FIXED"
	CogsSourceMidpoint         CogsSource = "MIDPOINT"
	CogsSourceClientAdjustment CogsSource = "CLIENT_ADJUSTMENT"
	CogsSourceManual           CogsSource = "MANUAL"
)

// LineItem is one entry in an order's serialized item payload. The
// upstream schema stores the full list as a single JSON column on the
// order row, so LineItem doubles as the wire shape of that column.
type LineItem struct {
	BatchID      int64           `json:"batchId"`
	DisplayName  string          `json:"displayName"`
	OriginalName string          `json:"originalName"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	IsSample     bool            `json:"isSample"`

	UnitCogs   decimal.Decimal `json:"unitCogs"`
	CogsMode   CogsMode        `json:"cogsMode"`
	CogsSource CogsSource      `json:"cogsSource"`

	UnitMargin    decimal.Decimal `json:"unitMargin"`
	MarginPercent decimal.Decimal `json:"marginPercent"`

	LineTotal  decimal.Decimal `json:"lineTotal"`
	LineCogs   decimal.Decimal `json:"lineCogs"`
	LineMargin decimal.Decimal `json:"lineMargin"`
}

// UnmarshalLineItems deserializes an order's stored item payload.
//
// Corruption fails loudly with a DataCorruptionError naming the order.
// A payload that cannot be read must never degrade to an empty item
// list: downstream inventory code would then treat the order as having
// nothing to reserve and quietly skip every counter mutation.
func UnmarshalLineItems(orderID int64, payload []byte) ([]LineItem, error) {
	if len(payload) == 0 {
		return nil, errs.NewDataCorruptionError(orderID, nil)
	}

	var items []LineItem
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, errs.NewDataCorruptionError(orderID, err)
	}
	if items == nil {
		return nil, errs.NewDataCorruptionError(orderID, nil)
	}

	return items, nil
}

// MarshalLineItems serializes an item list for the order row's JSON
// column.
func MarshalLineItems(items []LineItem) ([]byte, error) {
	return json.Marshal(items)
}

// ValidateLineItems checks that every non-sample item carries a
// resolvable batch reference. A missing reference is a data-corruption
// condition, not a silent default.
func ValidateLineItems(orderID int64, items []LineItem) error {
	for _, item := range items {
		if item.IsSample {
			continue
		}
		if item.BatchID <= 0 {
			name := item.DisplayName
			if name == "" {
				name = item.OriginalName
			}
			return errs.NewMissingBatchIDError(orderID, name)
		}
	}
	return nil
}
