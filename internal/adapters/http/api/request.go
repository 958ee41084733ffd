package api

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/reqbind/internal/domain/model"
)

// QuoteDependencies prices submitted items.
type QuoteDependencies interface {
	Quote(ctx context.Context, item model.Item) model.Quote
}

// RequestHandler serves the request-body routes.
type RequestHandler struct {
	quotes       QuoteDependencies
	maxBodyBytes int64
}

// NewRequestHandler creates a new request handler. Bodies larger than
// maxBodyBytes are refused with 413.
func NewRequestHandler(quotes QuoteDependencies, maxBodyBytes int64) *RequestHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &RequestHandler{quotes: quotes, maxBodyBytes: maxBodyBytes}
}

// itemBody is the wire form of model.Item. Pointers tell an absent field
// apart from a zero value.
type itemBody struct {
	Name        *string `json:"name" param:"body,name" validate:"required"`
	Description *string `json:"description" param:"body,description"`
	Price       *number `json:"price" param:"body,price" validate:"required,finite"`
	Tax         *number `json:"tax" param:"body,tax" validate:"omitempty,finite"`
}

func (b itemBody) item() model.Item {
	it := model.Item{Description: b.Description}
	if b.Name != nil {
		it.Name = *b.Name
	}
	if b.Price != nil {
		it.Price = float64(*b.Price)
	}
	if b.Tax != nil {
		tax := float64(*b.Tax)
		it.Tax = &tax
	}
	return it
}

// number is a float64 that also accepts a JSON string holding a number,
// such as "10.5". Anything else decodes to NaN, which the finite rule
// rejects.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if unq, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || strings.ContainsAny(raw, "xX_") {
		v = math.NaN()
	}
	*n = number(v)
	return nil
}

// HandleCreateItem handles POST /request/items/.
func (h *RequestHandler) HandleCreateItem(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	var body itemBody
	b.bodyJSON(&body, h.maxBodyBytes)
	if !b.check(&body) {
		writeBindError(w, b.err())
		return
	}

	writeJSON(w, http.StatusOK, h.quotes.Quote(r.Context(), body.item()))
}

type updateItemParams struct {
	ItemID int     `param:"path,item_id"`
	Q      *string `param:"query,q"`
}

type updateItemResponse struct {
	ItemID int `json:"item_id"`
	model.Item
	Q string `json:"q,omitempty"`
}

// HandleUpdateItem handles PUT /request/items/{item_id}?q=. The item is
// echoed back merged with the path id.
func (h *RequestHandler) HandleUpdateItem(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := updateItemParams{
		ItemID: b.pathInt("item_id"),
		Q:      b.queryOptional("q"),
	}
	var body itemBody
	b.bodyJSON(&body, h.maxBodyBytes)
	paramsOK := b.check(&p)
	if !b.check(&body) || !paramsOK {
		writeBindError(w, b.err())
		return
	}

	resp := updateItemResponse{ItemID: p.ItemID, Item: body.item()}
	if p.Q != nil {
		resp.Q = *p.Q
	}
	writeJSON(w, http.StatusOK, resp)
}
