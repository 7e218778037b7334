package handler

import (
	"net/http"

	"github.com/mcoot/pocketworld/internal/api/apierr"
	"github.com/mcoot/pocketworld/internal/api/middleware"
	"github.com/mcoot/pocketworld/internal/api/response"
	"github.com/mcoot/pocketworld/internal/services/inventory"
)

// InventoryHandler handles inventory and creature endpoints
type InventoryHandler struct {
	inventory *inventory.Service
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inv *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		inventory: inv,
	}
}

// GetInventory handles GET /api/v1/inventory
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	items, err := h.inventory.GetInventory(r.Context(), identity.PlayerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InventoryFromModel(items))
}

// GetCreatures handles GET /api/v1/creatures
func (h *InventoryHandler) GetCreatures(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	creatures, err := h.inventory.GetCreatures(r.Context(), identity.PlayerID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CreaturesFromModel(creatures))
}
