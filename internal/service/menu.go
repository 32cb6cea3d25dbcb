package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/repository"
)

type MenuService struct {
	repo repository.MenuRepository
}

func NewMenuService(repo repository.MenuRepository) *MenuService {
	return &MenuService{repo: repo}
}

// Tree pages through the top-level console entries visible to the tenant and
// attaches each entry's active children in sort order.
func (s *MenuService) Tree(ctx context.Context, groupPrefix string, limit, offset int) ([]model.Menu, int, error) {
	roots, total, err := s.repo.ListRoots(ctx, groupPrefix, limit, offset)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}
	if len(roots) == 0 {
		return []model.Menu{}, total, nil
	}

	ids := make([]int64, len(roots))
	for i, m := range roots {
		ids[i] = m.ID
	}
	children, err := s.repo.ListChildren(ctx, groupPrefix, ids)
	if err != nil {
		return nil, 0, apperrors.Database(err)
	}

	byParent := make(map[int64][]model.Menu, len(roots))
	for _, c := range children {
		c.Children = []model.Menu{}
		byParent[c.PID] = append(byParent[c.PID], c)
	}
	for i := range roots {
		roots[i].Children = byParent[roots[i].ID]
		if roots[i].Children == nil {
			roots[i].Children = []model.Menu{}
		}
	}

	log.Debug().Str("group_prefix", groupPrefix).Int("roots", len(roots)).Int("children", len(children)).Msg("menu tree built")
	return roots, total, nil
}
