package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/model"
	redisclient "github.com/ntp/agent-server-go/internal/redis"
	"github.com/ntp/agent-server-go/internal/repository"
)

// Cache is the subset of the Redis client used for read-through caching.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

var hostPrefixStripper = strings.NewReplacer("http://", "", "https://", "", "www.", "")

type GroupSetService struct {
	repo  repository.GroupSetRepository
	cache Cache
	ttl   time.Duration
}

func NewGroupSetService(repo repository.GroupSetRepository, cache Cache, ttl time.Duration) *GroupSetService {
	return &GroupSetService{repo: repo, cache: cache, ttl: ttl}
}

// ByHost finds the tenant whose agent_url contains host, retrying with the
// scheme and "www." stripped. Results are cached per host.
func (s *GroupSetService) ByHost(ctx context.Context, host string) (*model.GroupSet, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, apperrors.ValidationError("无法获取请求域名")
	}

	key := redisclient.GroupSetKey(host)
	if gs := s.fromCache(ctx, key); gs != nil {
		return gs, nil
	}

	gs, err := s.repo.FindActiveByAgentURL(ctx, host)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if gs == nil {
		domainOnly := hostPrefixStripper.Replace(host)
		if domainOnly != host {
			gs, err = s.repo.FindActiveByAgentURL(ctx, domainOnly)
			if err != nil {
				return nil, apperrors.Database(err)
			}
		}
		log.Info().Str("host", host).Str("domain_only", domainOnly).Bool("found", gs != nil).Msg("group set fallback lookup")
	}
	if gs == nil {
		return nil, apperrors.NotFound("未找到匹配的集团配置")
	}

	log.Info().
		Str("group_prefix", gs.GroupPrefix).
		Str("group_name", gs.GroupName).
		Str("matched_domain", host).
		Msg("group set resolved")

	s.toCache(ctx, key, gs)
	return gs, nil
}

func (s *GroupSetService) fromCache(ctx context.Context, key string) *model.GroupSet {
	if s.cache == nil || s.ttl <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("group set cache read failed")
		}
		return nil
	}
	var gs model.GroupSet
	if err := json.Unmarshal(raw, &gs); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("discarding malformed group set cache entry")
		return nil
	}
	return &gs
}

func (s *GroupSetService) toCache(ctx context.Context, key string, gs *model.GroupSet) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(gs)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("group set cache write failed")
	}
}
