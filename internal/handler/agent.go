package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/service"
)

// AgentHandler serves the authenticated agent back office.
type AgentHandler struct {
	memberService    *service.MemberService
	promotionService *service.PromotionService
	reportService    *service.ReportService
	recordService    *service.RecordService
	loc              *time.Location
}

func NewAgentHandler(
	memberService *service.MemberService,
	promotionService *service.PromotionService,
	reportService *service.ReportService,
	recordService *service.RecordService,
) *AgentHandler {
	return &AgentHandler{
		memberService:    memberService,
		promotionService: promotionService,
		reportService:    reportService,
		recordService:    recordService,
		loc:              time.Local,
	}
}

// Routes expects the session validator to be applied by the caller.
func (h *AgentHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/info", h.Info)
	r.Get("/member", h.ListMembers)
	r.Post("/member", h.ListMembers)
	r.Post("/member/balance", h.AdjustBalance)
	r.Post("/member/commission", h.AdjustCommission)
	r.Get("/promotion", h.Promotion)
	r.Get("/statistical_reports", h.StatisticalReports)
	r.Post("/statistical_reports", h.StatisticalReports)

	for _, kind := range []model.RecordKind{
		model.RecordBalance,
		model.RecordDeposit,
		model.RecordWithdrawal,
		model.RecordGame,
		model.RecordRebate,
	} {
		path := "/member_" + string(kind) + "_record"
		r.Get(path, h.Records(kind))
		r.Post(path, h.Records(kind))
	}

	return r
}

// GET /agent/info
func (h *AgentHandler) Info(w http.ResponseWriter, r *http.Request) {
	agentID, scope, ok := currentAgent(w, r)
	if !ok {
		return
	}

	info, err := h.memberService.AgentInfo(r.Context(), agentID, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, info, "获取成功")
}

// GET /agent/promotion
func (h *AgentHandler) Promotion(w http.ResponseWriter, r *http.Request) {
	agentID, scope, ok := currentAgent(w, r)
	if !ok {
		return
	}

	info, err := h.promotionService.Promotion(r.Context(), agentID, scope)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, info, "获取推广信息成功")
}

// GET|POST /agent/statistical_reports
func (h *AgentHandler) StatisticalReports(w http.ResponseWriter, r *http.Request) {
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

	report, err := h.reportService.Report(r.Context(), model.ReportFilter{
		AgentID:     agentID,
		GroupPrefix: scope,
		Username:    params.Get("username"),
		Range:       dr,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, report, "获取成功")
}
