package handlers

import (
	"log"
	"net/http"

	"github.com/xelth-com/esimchatgo/internal/orders"
	"github.com/xelth-com/esimchatgo/internal/services/receipt"
)

// getOrders looks up order records by email, order number or ICCID
func (r *Router) getOrders(w http.ResponseWriter, req *http.Request) {
	q := orders.Query{
		Email:       req.URL.Query().Get("email"),
		OrderNumber: req.URL.Query().Get("order"),
		ICCID:       req.URL.Query().Get("iccid"),
	}

	results := r.orders.FindOrders(q)
	if results == nil {
		results = []orders.Record{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(results),
		"results": results,
	})
}

// findOrder resolves the order query parameter to a single record
func (r *Router) findOrder(w http.ResponseWriter, req *http.Request) (orders.Record, bool) {
	number := req.URL.Query().Get("order")
	if number == "" {
		respondError(w, http.StatusBadRequest, "order parameter required")
		return nil, false
	}

	results := r.orders.FindOrders(orders.Query{OrderNumber: number})
	if len(results) == 0 {
		respondError(w, http.StatusNotFound, "order not found")
		return nil, false
	}
	return results[0], true
}

// getOrderQR serves the activation QR code for an order
func (r *Router) getOrderQR(w http.ResponseWriter, req *http.Request) {
	rec, ok := r.findOrder(w, req)
	if !ok {
		return
	}

	png, err := receipt.ActivationQR(rec)
	if err != nil {
		respondError(w, http.StatusNotFound, "order has no activation data")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// getOrderReceipt serves the PDF receipt for an order
func (r *Router) getOrderReceipt(w http.ResponseWriter, req *http.Request) {
	rec, ok := r.findOrder(w, req)
	if !ok {
		return
	}

	pdf, err := receipt.OrderPDF(rec)
	if err != nil {
		log.Printf("⚠️ Receipt generation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt.pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
