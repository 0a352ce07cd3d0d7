// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lithammer/shortuuid/v4"

	"github.com/hazelbot/hazel/internal/log"
	"github.com/hazelbot/hazel/internal/menu"
	"github.com/hazelbot/hazel/internal/metrics"
	"github.com/hazelbot/hazel/internal/order"
	"github.com/hazelbot/hazel/internal/session"
)

type orderItemRequest struct {
	Name          string `json:"name"`
	Quantity      int    `json:"quantity"`
	Customization *struct {
		Size    string   `json:"size"`
		Options []string `json:"options"`
	} `json:"customization,omitempty"`
}

type createOrderRequest struct {
	UserID        string             `json:"userId"`
	Items         []orderItemRequest `json:"items"`
	CustomerInfo  order.Customer     `json:"customerInfo"`
	PaymentMethod string             `json:"paymentMethod"`
}

type createOrderResponse struct {
	Success       bool   `json:"success"`
	OrderID       string `json:"orderId"`
	Total         string `json:"total"`
	EstimatedTime string `json:"estimatedTime"`
	Message       string `json:"message"`
}

// handleCreateOrder accepts a fully itemized order in one shot, with
// per-line size and customization pricing.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, r, http.StatusBadRequest, "empty_order", "at least one item is required")
		return
	}
	if req.UserID == "" {
		req.UserID = shortuuid.New()
	}

	now := time.Now().UTC()
	o := order.New(s.ids.NewID(), req.UserID, now)
	o.Customer = req.CustomerInfo
	o.Payment = req.PaymentMethod

	for _, item := range req.Items {
		sel := menu.Selection{}
		if item.Customization != nil {
			sel.Size = item.Customization.Size
			sel.Options = item.Customization.Options
		}
		resolved, price, err := s.menu.Resolve(item.Name, sel)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_item", err.Error())
			return
		}
		o.Add(order.Line{
			Name:      resolved.Name,
			Size:      sel.Size,
			Options:   sel.Options,
			UnitPrice: price,
			Quantity:  item.Quantity,
		}, now)
	}

	o.Status = order.StatusPreparing
	if err := s.store.PutActiveOrder(r.Context(), o); err != nil {
		apiLog := log.WithComponentFromContext(r.Context(), "api")
		apiLog.Error().Err(err).Msg("order store failed")
		writeError(w, r, http.StatusInternalServerError, "internal_error", "could not store order")
		return
	}
	metrics.RecordOrderTransition("started")
	metrics.RecordOrderTransition("checked_out")
	metrics.IncActiveOrders()
	if s.tracker != nil {
		s.tracker.Schedule(o.ID)
	}

	estimate := int(s.cfg.PrepareDelay / time.Minute)
	if estimate < 1 {
		estimate = 1
	}
	writeJSON(w, http.StatusOK, createOrderResponse{
		Success:       true,
		OrderID:       o.ID,
		Total:         o.Total().StringFixed(2),
		EstimatedTime: fmt.Sprintf("%d minutes", estimate),
		Message:       fmt.Sprintf("Thanks! Order #%s is being prepared.", o.ID),
	})
}

type orderStatusResponse struct {
	OrderID string       `json:"orderId"`
	Status  order.Status `json:"status"`
	Items   []order.Line `json:"items"`
	Total   string       `json:"total"`
}

func (s *Server) handleOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderID")

	o, err := s.store.OrderByID(r.Context(), orderID)
	if errors.Is(err, session.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "order_not_found", fmt.Sprintf("no order %q", orderID))
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", "could not load order")
		return
	}

	writeJSON(w, http.StatusOK, orderStatusResponse{
		OrderID: o.ID,
		Status:  o.Status,
		Items:   o.Items,
		Total:   o.Total().StringFixed(2),
	})
}
