package api

import (
	"net/http"

	"github.com/okian/reqbind/internal/domain/model"
)

const defaultFixedQuery = "fixedquery"

// ParamsHandler serves the query-validation routes.
type ParamsHandler struct{}

// NewParamsHandler creates a new params handler.
func NewParamsHandler() *ParamsHandler {
	return &ParamsHandler{}
}

type itemsResponse struct {
	Items []model.ItemRef `json:"items"`
	Q     string          `json:"q,omitempty"`
}

func newItemsResponse(q string) itemsResponse {
	return itemsResponse{Items: featuredItems(), Q: q}
}

type maxLengthParams struct {
	Q *string `param:"query,q" validate:"omitempty,max=50"`
}

// HandleMaxLength handles GET /params/items/?q= with q at most 50 characters.
func (h *ParamsHandler) HandleMaxLength(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := maxLengthParams{Q: b.queryOptional("q")}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	var q string
	if p.Q != nil {
		q = *p.Q
	}
	writeJSON(w, http.StatusOK, newItemsResponse(q))
}

type minLengthParams struct {
	Q string `param:"query,q" validate:"min=3"`
}

// HandleDefault handles GET /params/default/; q falls back to "fixedquery".
func (h *ParamsHandler) HandleDefault(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := minLengthParams{Q: b.queryString("q", defaultFixedQuery)}
	h.writeMinLength(w, b, p)
}

// HandleRequired handles GET /params/required/; q must be present.
func (h *ParamsHandler) HandleRequired(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := minLengthParams{Q: b.queryRequired("q")}
	h.writeMinLength(w, b, p)
}

// HandleRequiredNullable handles GET /params/none/. A query string has no
// null, so q is required here as well.
func (h *ParamsHandler) HandleRequiredNullable(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := minLengthParams{Q: b.queryRequired("q")}
	h.writeMinLength(w, b, p)
}

func (h *ParamsHandler) writeMinLength(w http.ResponseWriter, b *binder, p minLengthParams) {
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}
	writeJSON(w, http.StatusOK, newItemsResponse(p.Q))
}

type multiResponse struct {
	Q []string `json:"q"`
}

// HandleMultiple handles GET /params/multiple/?q=a&q=b. Absent q yields null.
func (h *ParamsHandler) HandleMultiple(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	writeJSON(w, http.StatusOK, multiResponse{Q: b.queryList("q", nil)})
}

// HandleMultipleDefaults handles GET /params/multiple/defaults/.
func (h *ParamsHandler) HandleMultipleDefaults(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	writeJSON(w, http.StatusOK, multiResponse{Q: b.queryList("q", []string{"foo", "bar"})})
}
