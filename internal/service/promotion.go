package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/util"
)

type PromotionInfo struct {
	AgentName        string `json:"agent_name"`
	InvitationCode   string `json:"invitation_code"`
	CurrentBalance   string `json:"current_balance"`
	TotalEarnings    string `json:"total_earnings"`
	PromotionBaseURL string `json:"promotion_base_url"`
	PromotionURL     string `json:"promotion_url"`
}

type PromotionService struct {
	agentRepo    repository.AgentRepository
	groupSetRepo repository.GroupSetRepository
}

func NewPromotionService(agentRepo repository.AgentRepository, groupSetRepo repository.GroupSetRepository) *PromotionService {
	return &PromotionService{agentRepo: agentRepo, groupSetRepo: groupSetRepo}
}

// Promotion returns the agent's invitation link on the tenant's promotion
// site.
func (s *PromotionService) Promotion(ctx context.Context, agentID int64, groupPrefix string) (*PromotionInfo, error) {
	agent, err := s.agentRepo.FindActiveByID(ctx, agentID, groupPrefix)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if agent == nil {
		return nil, apperrors.NotFound("代理信息不存在或已被冻结")
	}

	group, err := s.groupSetRepo.FindActiveByPrefix(ctx, groupPrefix)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if group == nil {
		return nil, apperrors.NotFound("集团配置不存在")
	}

	log.Info().
		Int64("agent_id", agentID).
		Str("agent_name", agent.AgentName).
		Str("group_prefix", groupPrefix).
		Msg("promotion info fetched")

	return &PromotionInfo{
		AgentName:        agent.AgentName,
		InvitationCode:   agent.InvitationCode,
		CurrentBalance:   util.FormatMoneyGrouped(agent.Money),
		TotalEarnings:    util.FormatMoneyGrouped(agent.MoneyTotal),
		PromotionBaseURL: group.PromotionURL,
		PromotionURL:     group.PromotionURL + "?agent_code=" + agent.InvitationCode,
	}, nil
}
