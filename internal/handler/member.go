package handler

import (
	"net/http"
	"strings"

	"github.com/ntp/agent-server-go/internal/model"
)

// GET|POST /agent/member
func (h *AgentHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
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

	members, total, err := h.memberService.ListMembers(r.Context(), model.MemberFilter{
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
		List:     members,
		Total:    total,
		Page:     p.Page,
		Limit:    p.Limit,
		LastPage: p.LastPage(total),
	}, "获取成功")
}

// POST /agent/member/balance
func (h *AgentHandler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	agentID, scope, ok := currentAgent(w, r)
	if !ok {
		return
	}
	params, err := requestParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	_, err = h.memberService.AdjustBalance(r.Context(), model.AdjustBalanceParams{
		AgentID:     agentID,
		MemberID:    intParam(params, "user_id"),
		GroupPrefix: scope,
		Type:        model.AdjustType(params.Get("type")),
		Amount:      floatParam(params, "amount"),
		Remark:      params.Get("remark"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil, "余额调整成功")
}

// POST /agent/member/commission
func (h *AgentHandler) AdjustCommission(w http.ResponseWriter, r *http.Request) {
	agentID, scope, ok := currentAgent(w, r)
	if !ok {
		return
	}
	params, err := requestParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	err = h.memberService.AdjustCommission(r.Context(), model.AdjustCommissionParams{
		AgentID:     agentID,
		MemberID:    intParam(params, "user_id"),
		GroupPrefix: scope,
		Proportion:  floatParam(params, "proportion"),
		Remark:      params.Get("remark"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, nil, "返佣比例调整成功")
}
