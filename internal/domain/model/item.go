// Package model contains domain models passed between layers.
package model

import "github.com/shopspring/decimal"

// Item is the record carried in request bodies. Optional fields are
// pointers so an absent value serializes as null.
type Item struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Price       float64  `json:"price"`
	Tax         *float64 `json:"tax"`
}

// PriceWithTax returns price + tax. ok is false when tax is absent or zero,
// in which case no total is reported.
func (i Item) PriceWithTax() (total float64, ok bool) {
	if i.Tax == nil || *i.Tax == 0 {
		return 0, false
	}
	sum := decimal.NewFromFloat(i.Price).Add(decimal.NewFromFloat(*i.Tax))
	return sum.InexactFloat64(), true
}

// ItemRef names an item by id in list responses.
type ItemRef struct {
	ItemID string `json:"item_id"`
}

// SampleRecord is one row of the fixed sample list.
type SampleRecord struct {
	ItemName string `json:"item_name"`
}

// Quote is an Item with its computed total. PriceWithTax is omitted when
// the item carries no tax.
type Quote struct {
	Item
	PriceWithTax *float64 `json:"price_with_tax,omitempty"`
}

// NewQuote prices item.
func NewQuote(item Item) Quote {
	q := Quote{Item: item}
	if total, ok := item.PriceWithTax(); ok {
		q.PriceWithTax = &total
	}
	return q
}
