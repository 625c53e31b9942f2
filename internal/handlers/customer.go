package handlers

import (
	"net/http"

	"order-management/internal/service"
)

type CustomerHandler struct {
	customers service.CustomerServiceInterface
}

func NewCustomerHandler(customers service.CustomerServiceInterface) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCustomerCollection(customers))
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.customers.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newCustomerResource(c))
}

func (h *CustomerHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	c, err := h.customers.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCustomerResource(c))
}

func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req service.UpdateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.customers.Update(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newCustomerResource(c))
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	orders, err := h.customers.Orders(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderCollection(orders))
}
