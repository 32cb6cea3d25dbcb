package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/tenant"
)

const menuColumns = "id, group_prefix, pid, title, path, icon, sort, status"

type MenuRepository interface {
	// ListRoots pages through active top-level entries visible to groupPrefix.
	ListRoots(ctx context.Context, groupPrefix string, limit, offset int) ([]model.Menu, int, error)
	// ListChildren returns active entries under any of parentIDs.
	ListChildren(ctx context.Context, groupPrefix string, parentIDs []int64) ([]model.Menu, error)
}

type menuRepo struct {
	db sqlxDB
}

func NewMenuRepository(db *sqlx.DB) MenuRepository {
	return &menuRepo{db: db}
}

func activeMenus(groupPrefix string) *Query {
	q := Select(menuColumns).From("ntp_agent_menu").Where("status = ?", model.StatusActive)
	return tenant.ApplyScope(q, groupPrefix)
}

func (r *menuRepo) ListRoots(ctx context.Context, groupPrefix string, limit, offset int) ([]model.Menu, int, error) {
	q := activeMenus(groupPrefix).Where("pid = 0")

	countQuery, countArgs := q.BuildCount()
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []model.Menu{}, 0, nil
	}

	query, args := q.OrderBy("sort ASC, id ASC").Page(limit, offset).Build()
	menus := []model.Menu{}
	if err := r.db.SelectContext(ctx, &menus, query, args...); err != nil {
		return nil, 0, err
	}
	return menus, total, nil
}

func (r *menuRepo) ListChildren(ctx context.Context, groupPrefix string, parentIDs []int64) ([]model.Menu, error) {
	if len(parentIDs) == 0 {
		return []model.Menu{}, nil
	}

	query, args := activeMenus(groupPrefix).
		WhereIn("pid", parentIDs).
		OrderBy("sort ASC, id ASC").
		Build()

	menus := []model.Menu{}
	if err := r.db.SelectContext(ctx, &menus, query, args...); err != nil {
		return nil, err
	}
	return menus, nil
}
