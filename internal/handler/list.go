package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/record-crate/internal/auth"
	"github.com/sakif/record-crate/model"
	"github.com/sakif/record-crate/internal/service"
)

// ListHandler serves the user list endpoints.
type ListHandler struct {
	lists  *service.ListService
	logger *slog.Logger
}

func NewListHandler(lists *service.ListService, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

type listRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// listResponse bundles a list with its resolved items.
type listResponse struct {
	*model.List
	Items []model.ListEntry `json:"items"`
}

// HandleMyLists handles GET /api/lists/my-lists.
func (h *ListHandler) HandleMyLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	lists, err := h.lists.UserLists(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// HandlePublic handles GET /api/lists/public.
func (h *ListHandler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", service.DefaultListLimit)
	if page < 1 {
		page = 1
	}

	lists, err := h.lists.PublicLists(r.Context(), limit, (page-1)*limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// HandleSearchPublic handles GET /api/lists/public/search?q=.
func (h *ListHandler) HandleSearchPublic(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", service.DefaultListLimit)
	if page < 1 {
		page = 1
	}

	lists, err := h.lists.SearchPublic(r.Context(), r.URL.Query().Get("q"), limit, (page-1)*limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

// HandleCreate handles POST /api/lists.
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	var in listRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.lists.Create(r.Context(), userID, in.Name, in.Description, in.IsPublic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, list)
}

// HandleGet handles GET /api/lists/{id}. Runs under optional auth: a
// private list resolves only for its owner.
func (h *ListHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := auth.UserIDFromContext(r.Context())

	list, items, err := h.lists.Get(r.Context(), r.PathValue("id"), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{List: list, Items: items})
}

// HandleGetByShareID handles GET /api/lists/share/{shareID}. A private
// list's share id resolves to nothing.
func (h *ListHandler) HandleGetByShareID(w http.ResponseWriter, r *http.Request) {
	list, items, err := h.lists.GetByShareID(r.Context(), r.PathValue("shareID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{List: list, Items: items})
}

// HandleUpdate handles PUT /api/lists/{id}. Owner only.
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	var in listRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, err)
		return
	}

	list, err := h.lists.Update(r.Context(), r.PathValue("id"), userID, in.Name, in.Description, in.IsPublic)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDelete handles DELETE /api/lists/{id}. Owner only.
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	if err := h.lists.Delete(r.Context(), r.PathValue("id"), userID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleItems handles GET /api/lists/{id}/items. Same visibility rule as
// fetching the list itself.
func (h *ListHandler) HandleItems(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := auth.UserIDFromContext(r.Context())

	_, items, err := h.lists.Get(r.Context(), r.PathValue("id"), requesterID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleAddItem handles POST /api/lists/{id}/items. Owner only.
func (h *ListHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	var ref model.ItemRef
	if err := decodeJSON(r, &ref); err != nil {
		writeError(w, err)
		return
	}

	item, err := h.lists.AddItem(r.Context(), r.PathValue("id"), userID, ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleRemoveItem handles DELETE /api/lists/{id}/items/{itemID}. Owner only.
func (h *ListHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Message: "access token required"})
		return
	}

	if err := h.lists.RemoveItem(r.Context(), r.PathValue("id"), userID, r.PathValue("itemID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type checkItemResponse struct {
	InList bool `json:"in_list"`
}

// HandleCheckItem handles GET /api/lists/{id}/items/check?item_type=&id=.
func (h *ListHandler) HandleCheckItem(w http.ResponseWriter, r *http.Request) {
	requesterID, _ := auth.UserIDFromContext(r.Context())

	ref := model.ItemRef{
		Type: model.ItemType(r.URL.Query().Get("item_type")),
		ID:   r.URL.Query().Get("id"),
	}

	inList, err := h.lists.CheckItem(r.Context(), r.PathValue("id"), requesterID, ref)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkItemResponse{InList: inList})
}
