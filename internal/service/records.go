package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/util"
)

var reviewStatusText = map[int]string{
	0: "待审核",
	1: "已通过",
	2: "已拒绝",
}

var gameTypeText = map[int]string{
	1:  "增加",
	-1: "减少",
}

var balanceTypeText = map[int]string{
	model.MoneyLogIncome:  "收入",
	model.MoneyLogExpense: "支出",
}

func textOr(m map[int]string, key int, fallback string) string {
	if s, ok := m[key]; ok {
		return s
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type DepositView struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	Money       string `json:"money"`
	CreateTime  string `json:"create_time"`
	SuccessTime string `json:"success_time"`
	Status      int    `json:"status"`
	StatusText  string `json:"status_text"`
	Remark      string `json:"remark"`
}

type WithdrawalView struct {
	ID            int64  `json:"id"`
	UID           int64  `json:"u_id"`
	Username      string `json:"username"`
	Money         string `json:"money"`
	MoneyFee      string `json:"money_fee"`
	MoneyActual   string `json:"momey_actual"`
	PayType       string `json:"pay_type"`
	PayMethodName string `json:"pay_method_name"`
	CreateTime    string `json:"create_time"`
	SuccessTime   string `json:"success_time"`
	Status        int    `json:"status"`
	StatusText    string `json:"status_text"`
	Msg           string `json:"msg"`
}

type GameView struct {
	ID         int64  `json:"id"`
	MemberID   int64  `json:"member_id"`
	Username   string `json:"username"`
	Money      string `json:"money"`
	NumberType int    `json:"number_type"`
	TypeText   string `json:"type_text"`
	CreatedAt  string `json:"created_at"`
}

type RebateView struct {
	ID         int64  `json:"id"`
	UID        int64  `json:"uid"`
	Username   string `json:"username"`
	Money      string `json:"money"`
	CreateTime string `json:"create_time"`
	Remark     string `json:"remark"`
}

type BalanceView struct {
	ID         int64  `json:"id"`
	UID        int64  `json:"uid"`
	Username   string `json:"username"`
	Type       int    `json:"type"`
	TypeText   string `json:"type_text"`
	Money      string `json:"money"`
	CreateTime string `json:"create_time"`
}

// RecordService serves the member record listings of an agent. Listings
// cover the agent's direct members inside the request tenant.
type RecordService struct {
	agentRepo  repository.AgentRepository
	memberRepo repository.MemberRepository
	recordRepo repository.RecordRepository
}

func NewRecordService(
	agentRepo repository.AgentRepository,
	memberRepo repository.MemberRepository,
	recordRepo repository.RecordRepository,
) *RecordService {
	return &RecordService{agentRepo: agentRepo, memberRepo: memberRepo, recordRepo: recordRepo}
}

// List returns one page of kind records as views, and the total row count.
func (s *RecordService) List(ctx context.Context, kind model.RecordKind, f model.RecordFilter) (any, int, error) {
	agent, err := s.agentRepo.FindActiveByID(ctx, f.AgentID, f.GroupPrefix)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	if agent == nil {
		return nil, 0, apperrors.New(apperrors.ErrCodeInvalidToken, "代理信息获取失败")
	}

	memberIDs, err := s.memberRepo.DirectIDs(ctx, f.AgentID, f.GroupPrefix, "")
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}

	views, total, err := s.list(ctx, kind, f, memberIDs)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Int64("agent_id", f.AgentID).Msg("record listing failed")
		return nil, 0, apperrors.Database(err)
	}
	return views, total, nil
}

func (s *RecordService) list(ctx context.Context, kind model.RecordKind, f model.RecordFilter, ids []int64) (any, int, error) {
	switch kind {
	case model.RecordDeposit:
		rows, total, err := s.recordRepo.ListDeposits(ctx, f, ids)
		return mapRows(rows, depositView), total, err
	case model.RecordWithdrawal:
		rows, total, err := s.recordRepo.ListWithdrawals(ctx, f, ids)
		return mapRows(rows, withdrawalView), total, err
	case model.RecordGame:
		rows, total, err := s.recordRepo.ListGames(ctx, f, ids)
		return mapRows(rows, gameView), total, err
	case model.RecordRebate:
		rows, total, err := s.recordRepo.ListRebates(ctx, f, ids)
		return mapRows(rows, rebateView), total, err
	case model.RecordBalance:
		rows, total, err := s.recordRepo.ListBalances(ctx, f, ids)
		return mapRows(rows, balanceView), total, err
	default:
		return nil, 0, fmt.Errorf("unknown record kind %q", kind)
	}
}

func mapRows[R, V any](rows []R, fn func(R) V) []V {
	out := make([]V, 0, len(rows))
	for _, r := range rows {
		out = append(out, fn(r))
	}
	return out
}

func depositView(r model.DepositRecord) DepositView {
	return DepositView{
		ID:          r.ID,
		UserID:      r.UserID,
		Username:    deref(r.Username),
		Money:       util.FormatMoneyGrouped(r.Money),
		CreateTime:  util.FormatTime(r.CreateTime, model.DateTimeLayout),
		SuccessTime: util.FormatTime(r.SuccessTime, model.DateTimeLayout),
		Status:      r.Status,
		StatusText:  textOr(reviewStatusText, r.Status, "未知状态"),
		Remark:      deref(r.Remark),
	}
}

func withdrawalView(r model.WithdrawalRecord) WithdrawalView {
	var fee, actual float64
	if r.MoneyFee != nil {
		fee = *r.MoneyFee
	}
	if r.MoneyActual != nil {
		actual = *r.MoneyActual
	}
	method := deref(r.PayMethodName)
	if method == "" {
		method = r.PayType
	}
	return WithdrawalView{
		ID:            r.ID,
		UID:           r.UID,
		Username:      deref(r.Username),
		Money:         util.FormatMoneyGrouped(r.Money),
		MoneyFee:      util.FormatMoneyGrouped(fee),
		MoneyActual:   util.FormatMoneyGrouped(actual),
		PayType:       r.PayType,
		PayMethodName: method,
		CreateTime:    util.FormatTime(r.CreateTime, model.DateTimeLayout),
		SuccessTime:   util.FormatTime(r.SuccessTime, model.DateTimeLayout),
		Status:        r.Status,
		StatusText:    textOr(reviewStatusText, r.Status, "未知状态"),
		Msg:           deref(r.Msg),
	}
}

func gameView(r model.GameRecord) GameView {
	return GameView{
		ID:         r.ID,
		MemberID:   r.MemberID,
		Username:   deref(r.Username),
		Money:      util.FormatMoneyGrouped(r.Money),
		NumberType: r.NumberType,
		TypeText:   textOr(gameTypeText, r.NumberType, "未知"),
		CreatedAt:  util.FormatTime(r.CreatedAt, model.DateTimeLayout),
	}
}

func rebateView(r model.RebateRecord) RebateView {
	return RebateView{
		ID:         r.ID,
		UID:        r.UID,
		Username:   deref(r.Username),
		Money:      util.FormatMoneyGrouped(r.Money),
		CreateTime: util.FormatTime(r.CreateTime, model.DateTimeLayout),
		Remark:     deref(r.Remark),
	}
}

func balanceView(r model.BalanceRecord) BalanceView {
	return BalanceView{
		ID:         r.ID,
		UID:        r.UID,
		Username:   deref(r.Username),
		Type:       r.Type,
		TypeText:   textOr(balanceTypeText, r.Type, "其他"),
		Money:      util.FormatMoneyGrouped(r.Money),
		CreateTime: util.FormatTime(r.CreateTime, model.DateTimeLayout),
	}
}
