// Package http provides http transport for harvest triggers
package http

import (
	stdhttp "net/http"

	"spinlog/internal/modkit/httpkit"
	"spinlog/internal/services/harvest/domain"
)

// TriggerResponse reports where a pull landed
type TriggerResponse struct {
	BatchKey string `json:"batch_key"`
}

// Register mounts the harvest routes
func Register(r httpkit.Router, svc domain.HarvesterPort) {
	h := &handlers{svc: svc}
	httpkit.Post(r, "/", h.trigger)
}

type handlers struct{ svc domain.HarvesterPort }

func (h *handlers) trigger(r *stdhttp.Request) (any, error) {
	key, err := h.svc.Harvest(r.Context())
	if err != nil {
		return nil, err
	}
	return TriggerResponse{BatchKey: key}, nil
}
