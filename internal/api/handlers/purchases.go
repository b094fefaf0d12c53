package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/middleware"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

const maxIdempotencyKey = 128

type PurchaseHandler struct {
	Purchases *services.PurchaseService
	Queries   *services.QueryService
}

func NewPurchaseHandler(ps *services.PurchaseService, qs *services.QueryService) *PurchaseHandler {
	return &PurchaseHandler{Purchases: ps, Queries: qs}
}

type purchaseReq struct {
	PackageID models.PackageID `json:"package_id" validate:"gt=0"`
}

type adminPurchaseReq struct {
	CustomerID models.CustomerID `json:"customer_id" validate:"gt=0"`
	PackageID  models.PackageID  `json:"package_id" validate:"gt=0"`
}

// Purchase buys a package for the calling customer.
func (h *PurchaseHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	cid, ok := callerCustomer(w, r)
	if !ok {
		return
	}
	var req purchaseReq
	if !decode(w, r, &req) {
		return
	}
	h.purchase(w, r, cid, req.PackageID)
}

// AdminPurchase buys a package on behalf of a chosen customer.
func (h *PurchaseHandler) AdminPurchase(w http.ResponseWriter, r *http.Request) {
	var req adminPurchaseReq
	if !decode(w, r, &req) {
		return
	}
	h.purchase(w, r, req.CustomerID, req.PackageID)
}

func (h *PurchaseHandler) purchase(w http.ResponseWriter, r *http.Request, cid models.CustomerID, pid models.PackageID) {
	key := r.Header.Get("Idempotency-Key")
	if len(key) > maxIdempotencyKey {
		badRequest(w, errors.New("Idempotency-Key too long"))
		return
	}
	rc, err := h.Purchases.Purchase(r.Context(), services.PurchaseRequest{
		CustomerID:     cid,
		PackageID:      pid,
		IdempotencyKey: key,
	})
	if err != nil {
		writeErr(w, r, err)
		return
	}
	status := http.StatusCreated
	if rc.Replayed {
		status = http.StatusOK
	}
	httpx.WriteJSON(w, status, rc)
}

func (h *PurchaseHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Queries.AllTransactions(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *PurchaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParseTransactionID(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	v, err := h.Queries.Transaction(r.Context(), id)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *PurchaseHandler) Me(w http.ResponseWriter, r *http.Request) {
	cid, ok := callerCustomer(w, r)
	if !ok {
		return
	}
	sum, err := h.Queries.CustomerSummary(r.Context(), cid)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sum)
}

func (h *PurchaseHandler) MyTransactions(w http.ResponseWriter, r *http.Request) {
	cid, ok := callerCustomer(w, r)
	if !ok {
		return
	}
	list, err := h.Queries.TransactionsForCustomer(r.Context(), cid)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *PurchaseHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.Queries.Dashboard(r.Context())
	if err != nil {
		writeErr(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

// callerCustomer resolves the customer record linked to the logged-in user.
func callerCustomer(w http.ResponseWriter, r *http.Request) (models.CustomerID, bool) {
	u, ok := middleware.FromCtx(r.Context())
	if !ok || u.CustomerID == nil {
		writeErr(w, r, services.ErrCustomerNotFound)
		return 0, false
	}
	return *u.CustomerID, true
}
