package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	model "github.com/glkeru/rewear/internal/models"
	service "github.com/glkeru/rewear/internal/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SwapHandler struct {
	router     *mux.Router
	settlement *service.SettlementService
	moderation *service.ModerationService
	logger     *zap.Logger
}

func NewHandler(settlement *service.SettlementService, moderation *service.ModerationService, secret []byte, logger *zap.Logger) *SwapHandler {
	router := mux.NewRouter()
	handler := &SwapHandler{router, settlement, moderation, logger}
	router.Use(MiddlewareLog(), MiddlewareAuth(secret))

	router.HandleFunc("/swaps", handler.CreateHandler).Methods(http.MethodPost)
	router.HandleFunc("/swaps", handler.ListHandler).Methods(http.MethodGet)
	router.HandleFunc("/swaps/{id}", handler.GetHandler).Methods(http.MethodGet)
	router.HandleFunc("/swaps/{id}/accept", handler.AcceptHandler).Methods(http.MethodPost)
	router.HandleFunc("/swaps/{id}/reject", handler.RejectHandler).Methods(http.MethodPost)
	router.HandleFunc("/swaps/{id}/complete", handler.CompleteHandler).Methods(http.MethodPost)
	router.HandleFunc("/swaps/{id}/cancel", handler.CancelHandler).Methods(http.MethodPost)
	router.HandleFunc("/swaps/{id}/read", handler.MarkReadHandler).Methods(http.MethodPost)
	router.HandleFunc("/balance", handler.BalanceHandler).Methods(http.MethodGet)
	router.HandleFunc("/admin/items/{id}/approve", handler.ApproveItemHandler).Methods(http.MethodPost)
	router.HandleFunc("/admin/items/{id}/reject", handler.RejectItemHandler).Methods(http.MethodPost)
	router.HandleFunc("/admin/swaps/{id}/events", handler.EventsHandler).Methods(http.MethodGet)

	return handler
}

func (h *SwapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *SwapHandler) Log(msg string, service string, err error) {
	h.logger.Error(msg,
		zap.String("service", service),
		zap.Error(err),
	)
}

type CreateRequest struct {
	ItemId        string `json:"itemId"`
	SwapType      string `json:"swapType"`
	OfferedItemId string `json:"offeredItemId,omitempty"`
	OfferedPoints int    `json:"offeredPoints,omitempty"`
	Message       string `json:"message,omitempty"`
}

type RespondRequest struct {
	ResponseMessage string `json:"responseMessage,omitempty"`
}

type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type ModerateRequest struct {
	Reason string `json:"reason,omitempty"`
}

type BalanceResponse struct {
	Points int `json:"points"`
}

// Создание заявки на обмен
func (h *SwapHandler) CreateHandler(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFrom(req.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	body := &CreateRequest{}
	if !h.readBody(w, req, "CreateHandler", body) {
		return
	}
	item, err := uuid.Parse(body.ItemId)
	if err != nil {
		http.Error(w, "itemId is not a uuid", http.StatusBadRequest)
		return
	}
	params := service.CreateParams{
		Item:          item,
		SwapType:      model.SwapType(body.SwapType),
		OfferedPoints: body.OfferedPoints,
		Message:       body.Message,
	}
	if body.OfferedItemId != "" {
		offered, err := uuid.Parse(body.OfferedItemId)
		if err != nil {
			http.Error(w, "offeredItemId is not a uuid", http.StatusBadRequest)
			return
		}
		params.OfferedItem = offered
	}

	swap, err := h.settlement.Create(req.Context(), principal.ID, params)
	if err != nil {
		h.writeError(w, "CreateHandler", err)
		return
	}
	h.writeJSON(w, "CreateHandler", swap)
}

// Заявки пользователя
func (h *SwapHandler) ListHandler(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFrom(req.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	swaps, err := h.settlement.Swaps(req.Context(), principal.ID)
	if err != nil {
		h.writeError(w, "ListHandler", err)
		return
	}
	h.writeJSON(w, "ListHandler", swaps)
}

// Заявка
func (h *SwapHandler) GetHandler(w http.ResponseWriter, req *http.Request) {
	principal, swapID, ok := h.swapCall(w, req)
	if !ok {
		return
	}
	swap, err := h.settlement.Get(req.Context(), principal.ID, swapID)
	if err != nil {
		h.writeError(w, "GetHandler", err)
		return
	}
	h.writeJSON(w, "GetHandler", swap)
}

// Принятие заявки
func (h *SwapHandler) AcceptHandler(w http.ResponseWriter, req *http.Request) {
	principal, swapID, ok := h.swapCall(w, req)
	if !ok {
		return
	}
	body := &RespondRequest{}
	if !h.readBody(w, req, "AcceptHandler", body) {
		return
	}
	swap, err := h.settlement.Accept(req.Context(), principal.ID, swapID, body.ResponseMessage)
	if err != nil {
		h.writeError(w, "AcceptHandler", err)
		return
	}
	h.writeJSON(w, "AcceptHandler", swap)
}

// Отклонение заявки
func (h *SwapHandler) RejectHandler(w http.ResponseWriter, req *http.Request) {
	principal, swapID, ok := h.swapCall(w, req)
	if !ok {
		return
	}
	body := &RespondRequest{}
	if !h.readBody(w, req, "RejectHandler", body) {
		return
	}
	swap, err := h.settlement.Reject(req.Context(), principal.ID, swapID, body.ResponseMessage)
	if err != nil {
		h.writeError(w, "RejectHandler", err)
		return
	}
	h.writeJSON(w, "RejectHandler", swap)
}

// Завершение обмена
func (h *SwapHandler) CompleteHandler(w http.ResponseWriter, req *http.Request) {
	principal, swapID, ok := h.swapCall(w, req)
	if !ok {
		return
	}
	swap, err := h.settlement.Complete(req.Context(), principal.ID, swapID)
	if err != nil {
		h.writeError(w, "CompleteHandler", err)
		return
	}
	h.writeJSON(w, "CompleteHandler", swap)
}

// Отмена заявки
func (h *SwapHandler) CancelHandler(w http.ResponseWriter, req *http.Request) {
	principal, swapID, ok := h.swapCall(w, req)
	if !ok {
		return
	}
	body := &CancelRequest{}
	if !h.readBody(w, req, "CancelHandler", body) {
		return
	}
	swap, err := h.settlement.Cancel(req.Context(), principal.ID, swapID, body.Reason)
	if err != nil {
		h.writeError(w, "CancelHandler", err)
		return
	}
	h.writeJSON(w, "CancelHandler", swap)
}

// Отметка о прочтении
func (h *SwapHandler) MarkReadHandler(w http.ResponseWriter, req *http.Request) {
	principal, swapID, ok := h.swapCall(w, req)
	if !ok {
		return
	}
	err := h.settlement.MarkRead(req.Context(), principal.ID, swapID)
	if err != nil {
		h.writeError(w, "MarkReadHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Баланс вызывающего
func (h *SwapHandler) BalanceHandler(w http.ResponseWriter, req *http.Request) {
	principal, ok := PrincipalFrom(req.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	points, err := h.settlement.GetBalance(req.Context(), principal.ID)
	if err != nil {
		h.writeError(w, "BalanceHandler", err)
		return
	}
	h.writeJSON(w, "BalanceHandler", &BalanceResponse{points})
}

// Одобрение вещи модератором
func (h *SwapHandler) ApproveItemHandler(w http.ResponseWriter, req *http.Request) {
	itemID, ok := h.adminCall(w, req)
	if !ok {
		return
	}
	err := h.moderation.Approve(req.Context(), itemID)
	if err != nil {
		h.writeError(w, "ApproveItemHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Отклонение вещи модератором
func (h *SwapHandler) RejectItemHandler(w http.ResponseWriter, req *http.Request) {
	itemID, ok := h.adminCall(w, req)
	if !ok {
		return
	}
	body := &ModerateRequest{}
	if !h.readBody(w, req, "RejectItemHandler", body) {
		return
	}
	err := h.moderation.Reject(req.Context(), itemID, body.Reason)
	if err != nil {
		h.writeError(w, "RejectItemHandler", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// События аудита по заявке
func (h *SwapHandler) EventsHandler(w http.ResponseWriter, req *http.Request) {
	swapID, ok := h.adminCall(w, req)
	if !ok {
		return
	}
	events, err := h.settlement.Events(req.Context(), swapID)
	if err != nil {
		h.writeError(w, "EventsHandler", err)
		return
	}
	h.writeJSON(w, "EventsHandler", events)
}

// принципал + id заявки из пути
func (h *SwapHandler) swapCall(w http.ResponseWriter, req *http.Request) (Principal, uuid.UUID, bool) {
	principal, ok := PrincipalFrom(req.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return Principal{}, uuid.Nil, false
	}
	vars := mux.Vars(req)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "id is not a uuid", http.StatusBadRequest)
		return Principal{}, uuid.Nil, false
	}
	return principal, id, true
}

// то же + проверка роли админа
func (h *SwapHandler) adminCall(w http.ResponseWriter, req *http.Request) (uuid.UUID, bool) {
	principal, id, ok := h.swapCall(w, req)
	if !ok {
		return uuid.Nil, false
	}
	if principal.Role != model.RoleAdmin {
		http.Error(w, "admin role is required", http.StatusForbidden)
		return uuid.Nil, false
	}
	return id, true
}

// тело запроса, пустое тело допустимо
func (h *SwapHandler) readBody(w http.ResponseWriter, req *http.Request, service string, target any) bool {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		h.Log("Get request body", service, err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return false
	}
	defer req.Body.Close()
	if len(body) == 0 {
		return true
	}
	err = json.Unmarshal(body, target)
	if err != nil {
		h.Log("Unmarshal", service, err)
		http.Error(w, "Body is not correct", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *SwapHandler) writeJSON(w http.ResponseWriter, service string, response any) {
	j, err := json.Marshal(response)
	if err != nil {
		h.Log("Marshal", service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(j)
}

// ошибки движка -> HTTP статусы
func (h *SwapHandler) writeError(w http.ResponseWriter, service string, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrNotAuthorized):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrDuplicateRequest),
		errors.Is(err, model.ErrInvalidItemState),
		errors.Is(err, model.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrInvalidSwapRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.Log("Internal error", service, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
