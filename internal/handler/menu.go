package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ntp/agent-server-go/internal/middleware"
	"github.com/ntp/agent-server-go/internal/service"
)

type MenuHandler struct {
	menuService *service.MenuService
}

func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func (h *MenuHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/list", h.List)
	r.Post("/list", h.List)
	return r
}

// GET|POST /menu/list
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := requestParams(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p := ParsePagination(params)

	tree, total, err := h.menuService.Tree(r.Context(), middleware.GetTenantScope(r.Context()), p.Limit, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, page{
		List:     tree,
		Total:    total,
		Page:     p.Page,
		Limit:    p.Limit,
		LastPage: p.LastPage(total),
	}, "获取成功")
}
