package handler

import (
	"net/http"
	"strings"

	"github.com/ntp/agent-server-go/internal/model"
)

// Records serves GET|POST /agent/member_{kind}_record.
func (h *AgentHandler) Records(kind model.RecordKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentID, scope, ok := currentAgent(w, r)
		if !ok {
			return
		}
		params, err := requestParams(r)
		if err != nil {
			writeError(w, err)
			return
		}
		dr, err := dateRange(params, h.loc)
		if err != nil {
			writeError(w, err)
			return
		}
		p := ParsePagination(params)

		list, total, err := h.recordService.List(r.Context(), kind, model.RecordFilter{
			AgentID:     agentID,
			GroupPrefix: scope,
			Username:    strings.TrimSpace(params.Get("username")),
			Range:       dr,
			Limit:       p.Limit,
			Offset:      p.Offset,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, page{
			List:  list,
			Total: total,
			Page:  p.Page,
			Limit: p.Limit,
		}, "获取成功")
	}
}
