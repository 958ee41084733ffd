package api

import (
	"net/http"

	"github.com/okian/reqbind/internal/domain/model"
)

const longDescription = "This is an amazing item that has a long description"

// ItemsHandler serves the numeric item lookup.
type ItemsHandler struct{}

// NewItemsHandler creates a new items handler.
func NewItemsHandler() *ItemsHandler {
	return &ItemsHandler{}
}

type getItemParams struct {
	// The ID of the item to get.
	ItemID int     `param:"path,item_id" validate:"gt=0,lte=1000"`
	Q      *string `param:"query,q"`
}

type itemIDResponse struct {
	ItemID int    `json:"item_id"`
	Q      string `json:"q,omitempty"`
}

// HandleGetItem handles GET /items/{item_id}. The query value may also be
// sent as item-query.
func (h *ItemsHandler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := getItemParams{
		ItemID: b.pathInt("item_id"),
		Q:      b.queryOptional("q", "item-query"),
	}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	resp := itemIDResponse{ItemID: p.ItemID}
	if p.Q != nil {
		resp.Q = *p.Q
	}
	writeJSON(w, http.StatusOK, resp)
}

// UsersHandler serves user lookups.
type UsersHandler struct{}

// NewUsersHandler creates a new users handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

type userResponse struct {
	UserID string `json:"user_id"`
}

// HandleGetCurrentUser handles GET /users/me.
func (h *UsersHandler) HandleGetCurrentUser(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, userResponse{UserID: "the current user"})
}

// HandleGetUser handles GET /users/{user_id}.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	writeJSON(w, http.StatusOK, userResponse{UserID: b.pathString("user_id")})
}

type userItemParams struct {
	UserID int     `param:"path,user_id"`
	ItemID string  `param:"path,item_id"`
	Q      *string `param:"query,q"`
	Short  bool    `param:"query,short"`
}

type userItemResponse struct {
	ItemID      string `json:"item_id"`
	OwnerID     int    `json:"owner_id"`
	Q           string `json:"q,omitempty"`
	Description string `json:"description,omitempty"`
}

// HandleGetUserItem handles GET /users/{user_id}/items/{item_id}.
func (h *UsersHandler) HandleGetUserItem(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := userItemParams{
		UserID: b.pathInt("user_id"),
		ItemID: b.pathString("item_id"),
		Q:      b.queryOptional("q"),
		Short:  b.queryBool("short", false),
	}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	resp := userItemResponse{ItemID: p.ItemID, OwnerID: p.UserID}
	if p.Q != nil {
		resp.Q = *p.Q
	}
	if !p.Short {
		resp.Description = longDescription
	}
	writeJSON(w, http.StatusOK, resp)
}

// ModelsHandler serves the model enumeration.
type ModelsHandler struct{}

// NewModelsHandler creates a new models handler.
func NewModelsHandler() *ModelsHandler {
	return &ModelsHandler{}
}

type modelParams struct {
	ModelName string `param:"path,model_name" validate:"model_name"`
}

type modelResponse struct {
	ModelName model.ModelName `json:"model_name"`
	Message   string          `json:"message"`
}

// HandleGetModel handles GET /models/{model_name}. Names outside the
// enumeration are rejected before lookup.
func (h *ModelsHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	p := modelParams{ModelName: b.pathString("model_name")}
	if !b.check(&p) {
		writeBindError(w, b.err())
		return
	}

	name := model.ModelName(p.ModelName)
	writeJSON(w, http.StatusOK, modelResponse{ModelName: name, Message: name.Message()})
}

// FilesHandler echoes a multi-segment file path.
type FilesHandler struct{}

// NewFilesHandler creates a new files handler.
func NewFilesHandler() *FilesHandler {
	return &FilesHandler{}
}

type fileResponse struct {
	FilePath string `json:"file_path"`
}

// HandleGetFile handles GET /files/*. The captured path keeps its slashes,
// so /files//home/a.txt yields "/home/a.txt".
func (h *FilesHandler) HandleGetFile(w http.ResponseWriter, r *http.Request) {
	b := newBinder(w, r)
	writeJSON(w, http.StatusOK, fileResponse{FilePath: b.pathRest()})
}
