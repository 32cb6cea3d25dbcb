package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ntp/agent-server-go/internal/audit"
	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/metrics"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/token"
	"github.com/ntp/agent-server-go/internal/util"
)

// TokenIssuer signs the token handed out at login.
type TokenIssuer interface {
	Issue(subject string, now time.Time) (string, token.Claims, error)
}

type LoginInput struct {
	UserName    string
	Password    string
	Captcha     string
	GroupPrefix string
	IP          string
	UserAgent   string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Agent     *model.Agent
}

type AuthService struct {
	agentRepo    repository.AgentRepository
	loginLogRepo repository.LoginLogRepository
	issuer       TokenIssuer
	captcha      string
	now          func() time.Time
}

func NewAuthService(
	agentRepo repository.AgentRepository,
	loginLogRepo repository.LoginLogRepository,
	issuer TokenIssuer,
	captcha string,
) *AuthService {
	return &AuthService{
		agentRepo:    agentRepo,
		loginLogRepo: loginLogRepo,
		issuer:       issuer,
		captcha:      captcha,
		now:          time.Now,
	}
}

// Login authenticates an agent inside the request's tenant and issues a
// session token. Every attempt is written to the login log.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	result, err := s.login(ctx, in)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(string(apperrors.GetCode(err))).Inc()
		s.recordFailure(ctx, in, err)
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.recordSuccess(ctx, in, result.Agent)
	return result, nil
}

func (s *AuthService) login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.UserName = strings.TrimSpace(in.UserName)
	switch {
	case in.UserName == "":
		return nil, apperrors.MissingRequired("请输入代理账号")
	case in.Password == "":
		return nil, apperrors.MissingRequired("请输入密码")
	case in.Captcha == "":
		return nil, apperrors.MissingRequired("请输入验证码")
	}

	agent, err := s.agentRepo.FindActiveByName(ctx, in.UserName, in.GroupPrefix)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if agent == nil || !util.CheckPassword(in.Password, agent.AgentPwd) {
		return nil, apperrors.InvalidCredentials()
	}

	if !util.ConstantTimeEqual(in.Captcha, s.captcha) {
		return nil, apperrors.InvalidCaptcha()
	}

	if util.IsLegacyPassword(agent.AgentPwd) {
		s.upgradePassword(ctx, agent, in.Password)
	}

	signed, claims, err := s.issuer.Issue(strconv.FormatInt(agent.ID, 10), s.now())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     signed,
		ExpiresAt: time.Unix(claims.ExpiresAt, 0),
		Agent:     agent,
	}, nil
}

// upgradePassword replaces a legacy base64 password with a bcrypt hash.
// Failure keeps the legacy value and does not affect the login.
func (s *AuthService) upgradePassword(ctx context.Context, agent *model.Agent, password string) {
	hash, err := util.HashPassword(password)
	if err == nil {
		err = s.agentRepo.UpdatePassword(ctx, agent.ID, hash)
	}
	if err != nil {
		log.Warn().Err(err).Int64("agent_id", agent.ID).Msg("failed to upgrade legacy password")
		return
	}
	log.Info().Int64("agent_id", agent.ID).Msg("legacy password upgraded to bcrypt")
}

func (s *AuthService) recordSuccess(ctx context.Context, in LoginInput, agent *model.Agent) {
	device, browser := util.ParseUserAgent(in.UserAgent)
	sessionID := uuid.NewString()

	err := s.loginLogRepo.Create(ctx, model.CreateLoginLogParams{
		AgentID:     agent.ID,
		AgentName:   agent.AgentName,
		GroupPrefix: agent.Prefix(),
		LoginIP:     in.IP,
		UserAgent:   in.UserAgent,
		Status:      model.LoginSucceed,
		SessionID:   &sessionID,
		Device:      device,
		Browser:     browser,
	})
	if err != nil {
		log.Warn().Err(err).Int64("agent_id", agent.ID).Msg("failed to write login log")
	}

	audit.Log(ctx, audit.Event{
		Type:        audit.EventLoginSuccess,
		AgentID:     agent.ID,
		AgentName:   agent.AgentName,
		GroupPrefix: agent.Prefix(),
		IP:          in.IP,
		UserAgent:   in.UserAgent,
		Details:     map[string]interface{}{"agent_type": agent.AgentType, "session_id": sessionID},
	})
}

func (s *AuthService) recordFailure(ctx context.Context, in LoginInput, cause error) {
	reason := apperrors.MsgSystemError
	if appErr, ok := apperrors.AsAppError(cause); ok {
		reason = appErr.Message
	}
	device, browser := util.ParseUserAgent(in.UserAgent)

	err := s.loginLogRepo.Create(ctx, model.CreateLoginLogParams{
		AgentName:   in.UserName,
		GroupPrefix: in.GroupPrefix,
		LoginIP:     in.IP,
		UserAgent:   in.UserAgent,
		Status:      model.LoginFailed,
		FailReason:  &reason,
		Device:      device,
		Browser:     browser,
	})
	if err != nil {
		log.Error().Err(err).Str("agent_name", in.UserName).Msg("failed to write login failure log")
	}

	audit.Log(ctx, audit.Event{
		Type:        audit.EventLoginFailure,
		AgentName:   in.UserName,
		GroupPrefix: in.GroupPrefix,
		IP:          in.IP,
		UserAgent:   in.UserAgent,
		Details:     map[string]interface{}{"reason": reason, "code": string(apperrors.GetCode(cause))},
	})
}
