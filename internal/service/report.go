package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/util"
)

type StatisticalReport struct {
	TotalRechargeAmount string `json:"total_recharge_amount"`
	TotalRechargeCount  int    `json:"total_recharge_count"`
	TotalWithdrawAmount string `json:"total_withdraw_amount"`
	TotalWithdrawCount  int    `json:"total_withdraw_count"`
	TotalGameLose       string `json:"total_game_lose"`
	TotalGameWin        string `json:"total_game_win"`
}

type ReportService struct {
	memberRepo repository.MemberRepository
	reportRepo repository.ReportRepository
}

func NewReportService(memberRepo repository.MemberRepository, reportRepo repository.ReportRepository) *ReportService {
	return &ReportService{memberRepo: memberRepo, reportRepo: reportRepo}
}

// Report aggregates finance and game totals over the agent's direct members
// in the tenant.
func (s *ReportService) Report(ctx context.Context, f model.ReportFilter) (*StatisticalReport, error) {
	memberIDs, err := s.memberRepo.DirectIDs(ctx, f.AgentID, f.GroupPrefix, f.Username)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	totals, err := s.reportRepo.Totals(ctx, memberIDs, f.Range)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().
		Int64("agent_id", f.AgentID).
		Str("group_prefix", f.GroupPrefix).
		Int("member_count", len(memberIDs)).
		Msg("statistical report generated")

	return &StatisticalReport{
		TotalRechargeAmount: util.FormatMoneyGrouped(totals.RechargeAmount),
		TotalRechargeCount:  totals.RechargeCount,
		TotalWithdrawAmount: util.FormatMoneyGrouped(totals.WithdrawAmount),
		TotalWithdrawCount:  totals.WithdrawCount,
		TotalGameLose:       util.FormatMoneyGrouped(totals.GameLose),
		TotalGameWin:        util.FormatMoneyGrouped(totals.GameWin),
	}, nil
}
