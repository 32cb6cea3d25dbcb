package handler

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ntp/agent-server-go/internal/service"
)

type GroupSetHandler struct {
	groupSetService *service.GroupSetService
}

func NewGroupSetHandler(groupSetService *service.GroupSetService) *GroupSetHandler {
	return &GroupSetHandler{groupSetService: groupSetService}
}

func (h *GroupSetHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/group", h.Group)
	return r
}

// GET /set/group
// Resolves the tenant configuration from the Host the agent site is served on.
func (h *GroupSetHandler) Group(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if name, _, err := net.SplitHostPort(host); err == nil {
		host = name
	}

	gs, err := h.groupSetService.ByHost(r.Context(), host)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, gs, "获取集团配置成功")
}
