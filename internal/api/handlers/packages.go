package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/kuota-backend/internal/api/httpx"
	"github.com/baharkarakas/kuota-backend/internal/catalog"
	"github.com/baharkarakas/kuota-backend/internal/models"
	"github.com/baharkarakas/kuota-backend/internal/services"
)

type PackageHandler struct {
	Catalog catalog.Catalog
}

func NewPackageHandler(c catalog.Catalog) *PackageHandler { return &PackageHandler{Catalog: c} }

func (h *PackageHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, h.Catalog.List())
}

func (h *PackageHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := models.ParsePackageID(chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	p, err := h.Catalog.Get(id)
	if err != nil {
		writeErr(w, r, services.ErrPackageNotFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}
