package handlers

import (
	"net/http"

	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

type CustomerHandler struct {
	Customers *services.CustomerService
	Queries   *services.QueryService
}

func NewCustomerHandler(cs *services.CustomerService, qs *services.QueryService) *CustomerHandler {
	return &CustomerHandler{Customers: cs, Queries: qs}
}

type createCustomerReq struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address" validate:"max=200"`
	Balance int64  `json:"balance" validate:"gte=0"`
}

type updateCustomerReq struct {
	Name    *string `json:"name" validate:"omitnil,min=1,max=100"`
	Email   *string `json:"email" validate:"omitnil,email"`
	Phone   *string `json:"phone" validate:"omitnil,max=30"`
	Address *string `json:"address" validate:"omitnil,max=200"`
	Balance *int64  `json:"balance" validate:"omitnil,gte=0"`
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Customers.List(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCustomerReq
	if !decode(w, r, &req) {
		return
	}
	c, err := h.Customers.Create(r.Context(), services.CreateCustomerInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Balance: req.Balance,
	}, actor(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

// Get returns the customer together with their purchase summary.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	sum, err := h.Queries.CustomerSummary(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sum)
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	var req updateCustomerReq
	if !decode(w, r, &req) {
		return
	}
	c, err := h.Customers.Update(r.Context(), id, services.CustomerPatch{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Balance: req.Balance,
	}, actor(r))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := customerIDParam(r)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	if err := h.Customers.Delete(r.Context(), id, actor(r)); err != nil {
		writeErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
