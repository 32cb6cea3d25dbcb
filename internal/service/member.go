package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/ntp/agent-server-go/internal/audit"
	"github.com/ntp/agent-server-go/internal/database"
	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/metrics"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/util"
)

// TxRunner is satisfied by *database.DB.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type MemberView struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	CreatedAt         string `json:"created_at"`
	Money             string `json:"money"`
	MoneyRebate       string `json:"money_rebate"`
	MoneyFanyong      string `json:"money_fanyong"`
	VipGrade          int    `json:"vip_grade"`
	FanyongProportion string `json:"fanyong_proportion"`
	AgentID           int64  `json:"agent_id"`
	UserAgentID1      int64  `json:"user_agent_id_1"`
}

type AgentInfo struct {
	ID         int64  `json:"id"`
	AgentName  string `json:"agent_name"`
	Money      string `json:"money"`
	MoneyTotal string `json:"money_total"`
}

type MemberService struct {
	tx           TxRunner
	agentRepo    repository.AgentRepository
	memberRepo   repository.MemberRepository
	moneyLogRepo repository.MoneyLogRepository
	now          func() time.Time
}

func NewMemberService(
	tx TxRunner,
	agentRepo repository.AgentRepository,
	memberRepo repository.MemberRepository,
	moneyLogRepo repository.MoneyLogRepository,
) *MemberService {
	return &MemberService{
		tx:           tx,
		agentRepo:    agentRepo,
		memberRepo:   memberRepo,
		moneyLogRepo: moneyLogRepo,
		now:          time.Now,
	}
}

func (s *MemberService) ListMembers(ctx context.Context, f model.MemberFilter) ([]MemberView, int, error) {
	members, total, err := s.memberRepo.ListManaged(ctx, f)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		var upline int64
		if m.UserAgentID1 != nil {
			upline = *m.UserAgentID1
		}
		views = append(views, MemberView{
			ID:                m.ID,
			Name:              m.Name,
			CreatedAt:         util.FormatTime(&m.CreatedAt, model.DateTimeLayout),
			Money:             util.FormatMoney(m.Money),
			MoneyRebate:       util.FormatMoney(m.MoneyRebate),
			MoneyFanyong:      util.FormatMoney(m.MoneyFanyong),
			VipGrade:          m.VipGrade,
			FanyongProportion: util.FormatMoney(m.FanyongProportion),
			AgentID:           m.AgentID,
			UserAgentID1:      upline,
		})
	}

	log.Info().
		Int64("agent_id", f.AgentID).
		Str("group_prefix", f.GroupPrefix).
		Int("total", total).
		Str("username", f.Username).
		Msg("member list queried")

	return views, total, nil
}

func (s *MemberService) AgentInfo(ctx context.Context, agentID int64, groupPrefix string) (*AgentInfo, error) {
	agent, err := s.agentRepo.FindActiveByID(ctx, agentID, groupPrefix)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if agent == nil {
		return nil, apperrors.NotFound("代理信息不存在")
	}
	return &AgentInfo{
		ID:         agent.ID,
		AgentName:  agent.AgentName,
		Money:      util.FormatMoney(agent.Money),
		MoneyTotal: util.FormatMoney(agent.MoneyTotal),
	}, nil
}

// AdjustBalance moves amount between the agent and one of its members. Both
// balances and both ledger rows are written in a single transaction with the
// agent and member rows locked.
func (s *MemberService) AdjustBalance(ctx context.Context, p model.AdjustBalanceParams) (*model.AdjustBalanceResult, error) {
	p.Remark = strings.TrimSpace(p.Remark)
	if !isFinite(p.Amount) {
		return nil, apperrors.ValidationError("参数错误")
	}
	p.Amount = math.Round(p.Amount*100) / 100
	if p.MemberID <= 0 || p.Type == "" || p.Amount <= 0 || p.Remark == "" {
		return nil, apperrors.ValidationError("参数错误")
	}
	if !p.Type.Valid() {
		return nil, apperrors.ValidationError("调整类型错误")
	}

	var result model.AdjustBalanceResult
	err := s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		agents := s.agentRepo.WithTx(tx)
		members := s.memberRepo.WithTx(tx)
		logs := s.moneyLogRepo.WithTx(tx)

		agent, err := agents.LockActiveByID(ctx, p.AgentID, p.GroupPrefix)
		if err != nil {
			return apperrors.Database(err)
		}
		if agent == nil {
			return apperrors.NotFound("代理信息不存在")
		}

		member, err := members.LockActiveByID(ctx, p.MemberID, p.GroupPrefix)
		if err != nil {
			return apperrors.Database(err)
		}
		if member == nil {
			return apperrors.NotFound("用户不存在")
		}
		if !member.ManagedBy(agent.ID) {
			return apperrors.Forbidden("无权限调整此用户余额")
		}

		memberDelta := p.Amount
		if p.Type == model.AdjustAdd {
			if agent.Money < p.Amount {
				return apperrors.InsufficientBalance("代理余额不足")
			}
		} else {
			if member.Money < p.Amount {
				return apperrors.InsufficientBalance("用户余额不足")
			}
			memberDelta = -p.Amount
		}

		memberAfter, err := members.AddMoney(ctx, member.ID, memberDelta)
		if err != nil {
			return apperrors.Database(fmt.Errorf("update member balance: %w", err))
		}
		agentAfter, err := agents.AddMoney(ctx, agent.ID, -memberDelta)
		if err != nil {
			return apperrors.Database(fmt.Errorf("update agent balance: %w", err))
		}

		memberLog, agentLog := balanceLogs(p, member, agent, s.now())
		memberLog.MoneyBefore, memberLog.MoneyEnd = member.Money, memberAfter
		agentLog.MoneyBefore, agentLog.MoneyEnd = agent.Money, agentAfter

		if err := logs.CreateMemberLog(ctx, memberLog); err != nil {
			return apperrors.Database(fmt.Errorf("insert member money log: %w", err))
		}
		if err := logs.CreateAgentLog(ctx, agentLog); err != nil {
			return apperrors.Database(fmt.Errorf("insert agent money log: %w", err))
		}

		result = model.AdjustBalanceResult{
			MemberName:        member.Name,
			MemberMoneyBefore: member.Money,
			MemberMoneyAfter:  memberAfter,
			AgentMoneyBefore:  agent.Money,
			AgentMoneyAfter:   agentAfter,
		}
		return nil
	})
	metrics.BalanceAdjustmentsTotal.WithLabelValues(string(p.Type), metrics.Result(err)).Inc()
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.Database(err)
		}
		log.Warn().Err(err).Int64("agent_id", p.AgentID).Int64("user_id", p.MemberID).Msg("member balance adjustment failed")
		return nil, err
	}

	log.Info().
		Int64("agent_id", p.AgentID).
		Int64("user_id", p.MemberID).
		Str("type", string(p.Type)).
		Float64("amount", p.Amount).
		Float64("user_money_before", result.MemberMoneyBefore).
		Float64("user_money_after", result.MemberMoneyAfter).
		Float64("agent_money_before", result.AgentMoneyBefore).
		Float64("agent_money_after", result.AgentMoneyAfter).
		Msg("member balance adjusted")
	audit.Log(ctx, audit.Event{
		Type:        audit.EventBalanceAdjust,
		AgentID:     p.AgentID,
		GroupPrefix: p.GroupPrefix,
		Details: map[string]interface{}{
			"user_id": p.MemberID,
			"type":    string(p.Type),
			"amount":  p.Amount,
			"remark":  p.Remark,
		},
	})

	return &result, nil
}

// balanceLogs builds the ledger rows of an adjustment. An add is member
// income (admin adjust) and agent expense; a subtract is the reverse.
func balanceLogs(p model.AdjustBalanceParams, member *model.Member, agent *model.Agent, now time.Time) (model.MemberMoneyLog, model.AgentMoneyLog) {
	amount := strconv.FormatFloat(p.Amount, 'f', -1, 64)

	memberLog := model.MemberMoneyLog{
		GroupPrefix: p.GroupPrefix,
		CreateTime:  now,
		Money:       p.Amount,
		UID:         member.ID,
		SourceID:    agent.ID,
	}
	agentLog := model.AgentMoneyLog{
		GroupPrefix: p.GroupPrefix,
		CreateTime:  now,
		Money:       p.Amount,
		AgentID:     agent.ID,
		SourceID:    member.ID,
	}

	if p.Type == model.AdjustAdd {
		memberLog.Type, memberLog.Status = model.MoneyLogIncome, model.MoneyStatusAdminAdjust
		agentLog.Type, agentLog.Status = model.MoneyLogExpense, model.MoneyStatusExpense
		memberLog.Mark = fmt.Sprintf("代理调整增加余额：%s元，%s", amount, p.Remark)
		agentLog.Mark = fmt.Sprintf("调整用户[%s]余额：-%s元，%s", member.Name, amount, p.Remark)
	} else {
		memberLog.Type, memberLog.Status = model.MoneyLogExpense, model.MoneyStatusExpense
		agentLog.Type, agentLog.Status = model.MoneyLogIncome, model.MoneyStatusIncome
		memberLog.Mark = fmt.Sprintf("代理调整减少余额：%s元，%s", amount, p.Remark)
		agentLog.Mark = fmt.Sprintf("调整用户[%s]余额：+%s元，%s", member.Name, amount, p.Remark)
	}
	return memberLog, agentLog
}

// AdjustCommission sets the rebate proportion of a direct member. Members
// referred by another member are managed from the member side.
func (s *MemberService) AdjustCommission(ctx context.Context, p model.AdjustCommissionParams) error {
	p.Remark = strings.TrimSpace(p.Remark)
	if p.MemberID <= 0 || !isFinite(p.Proportion) || p.Proportion < 0 || p.Proportion > 1 || p.Remark == "" {
		return apperrors.ValidationError("参数错误")
	}

	member, err := s.memberRepo.FindActiveByID(ctx, p.MemberID, p.GroupPrefix)
	if err != nil {
		return apperrors.Database(err)
	}
	if member == nil {
		return apperrors.NotFound("用户不存在")
	}
	if member.AgentID != p.AgentID {
		return apperrors.Forbidden("无权限调整此用户返佣比例")
	}
	if member.HasUpline() {
		return apperrors.Forbidden("该用户的返佣比例只能通过用户前端进行调整，请登录相应的用户账号")
	}

	if err := s.memberRepo.UpdateProportion(ctx, member.ID, p.Proportion); err != nil {
		return apperrors.Database(err)
	}

	log.Info().
		Int64("agent_id", p.AgentID).
		Int64("user_id", member.ID).
		Float64("old_proportion", member.FanyongProportion).
		Float64("new_proportion", p.Proportion).
		Msg("member commission adjusted")
	audit.Log(ctx, audit.Event{
		Type:        audit.EventCommissionAdjust,
		AgentID:     p.AgentID,
		GroupPrefix: p.GroupPrefix,
		Details: map[string]interface{}{
			"user_id":        member.ID,
			"old_proportion": member.FanyongProportion,
			"new_proportion": p.Proportion,
			"remark":         p.Remark,
		},
	})
	return nil
}

// isFinite rejects NaN and ±Inf; both parse from request strings and compare
// false against every bound.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
