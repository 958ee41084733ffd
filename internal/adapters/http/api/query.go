package api

import (
	"context"
	"net/http"

	"github.com/okian/reqbind/internal/domain/model"
)

// SampleDependencies serves windows of the fixed sample list.
type SampleDependencies interface {
	Samples(ctx context.Context, skip, limit int) ([]model.SampleRecord, error)
}

// QueryHandler serves the query-parameter routes.
type QueryHandler struct {
	samples SampleDependencies
}

// NewQueryHandler creates a new query handler.
func NewQueryHandler(samples SampleDependencies) *QueryHandler {
	return &QueryHandler{samples: samples}
}

type listSamplesParams struct {
	Skip  int `param:"query,skip"`
	Limit int `param:"query,limit"`
}

// HandleListSamples handles GET /query/?skip=&limit=. Negative bounds index
// from the end of the list.
func (h *QueryHandler) HandleListSamples(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := listSamplesParams{
		Skip:  b.queryInt("skip", 0),
		Limit: b.queryInt("limit", 10),
	}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	records, err := h.samples.Samples(r.Context(), p.Skip, p.Limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

type itemQueryResponse struct {
	ItemID      string `json:"item_id"`
	Q           string `json:"q,omitempty"`
	Description string `json:"description,omitempty"`
}

// HandleGetOptional handles GET /query/optional/{item_id}.
func (h *QueryHandler) HandleGetOptional(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	resp := itemQueryResponse{ItemID: b.pathString("item_id")}
	if q := b.queryOptional("q"); q != nil {
		resp.Q = *q
	}
	writeJSON(w, http.StatusOK, resp)
}

type itemFlagsParams struct {
	ItemID string  `param:"path,item_id"`
	Q      *string `param:"query,q"`
	Short  bool    `param:"query,short"`
}

// HandleGetWithFlags handles GET /query/{item_id}?q=&short=.
func (h *QueryHandler) HandleGetWithFlags(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := itemFlagsParams{
		ItemID: b.pathString("item_id"),
		Q:      b.queryOptional("q"),
		Short:  b.queryBool("short", false),
	}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	resp := itemQueryResponse{ItemID: p.ItemID}
	if p.Q != nil {
		resp.Q = *p.Q
	}
	if !p.Short {
		resp.Description = longDescription
	}
	writeJSON(w, http.StatusOK, resp)
}

type requiredQueryParams struct {
	ItemID string `param:"path,item_id"`
	Needy  string `param:"query,needy"`
	Skip   int    `param:"query,skip"`
	Limit  *int   `param:"query,limit"`
}

type requiredQueryResponse struct {
	ItemID string `json:"item_id"`
	Needy  string `json:"needy"`
	Skip   int    `json:"skip"`
	Limit  *int   `json:"limit"`
}

// HandleGetRequired handles GET /query/items/{item_id}?needy=&skip=&limit=.
func (h *QueryHandler) HandleGetRequired(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := requiredQueryParams{
		ItemID: b.pathString("item_id"),
		Needy:  b.queryRequired("needy"),
		Skip:   b.queryInt("skip", 0),
		Limit:  b.queryOptionalInt("limit"),
	}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	writeJSON(w, http.StatusOK, requiredQueryResponse(p))
}
