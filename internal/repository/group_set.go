package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/tenant"
)

const groupSetColumns = `id, group_prefix, group_name, site_name, site_wap_logo, site_description,
	customer_service_url, web_url, admin_url, agent_url, lobby_url, promotion_url, money, status,
	remarkt, ip_white, ip_black, supplier_show_ids, supplier_run_ids, game_show_ids, game_run_ids, create_at`

type GroupSetRepository interface {
	// FindActiveByAgentURL matches domain anywhere inside agent_url.
	FindActiveByAgentURL(ctx context.Context, domain string) (*model.GroupSet, error)
	FindActiveByPrefix(ctx context.Context, groupPrefix string) (*model.GroupSet, error)
}

type groupSetRepo struct {
	db sqlxDB
}

func NewGroupSetRepository(db *sqlx.DB) GroupSetRepository {
	return &groupSetRepo{db: db}
}

func (r *groupSetRepo) FindActiveByAgentURL(ctx context.Context, domain string) (*model.GroupSet, error) {
	query, args := Select(groupSetColumns).From("ntp_group_set").
		Where("status = ?", model.StatusActive).
		WhereLike("agent_url", domain).
		OrderBy("id").
		Page(1, 0).
		Build()

	var gs model.GroupSet
	err := r.db.GetContext(ctx, &gs, query, args...)
	return HandleNotFound(&gs, err)
}

func (r *groupSetRepo) FindActiveByPrefix(ctx context.Context, groupPrefix string) (*model.GroupSet, error) {
	q := Select(groupSetColumns).From("ntp_group_set").Where("status = ?", model.StatusActive)
	query, args := tenant.ApplyExact(q, groupPrefix).Page(1, 0).Build()

	var gs model.GroupSet
	err := r.db.GetContext(ctx, &gs, query, args...)
	return HandleNotFound(&gs, err)
}
