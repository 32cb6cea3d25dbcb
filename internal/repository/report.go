package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
)

// Game log direction: 1 is a member win, -1 a loss.
const (
	gameNumberWin  = 1
	gameNumberLose = -1
)

type ReportRepository interface {
	Totals(ctx context.Context, memberIDs []int64, dr model.DateRange) (model.ReportTotals, error)
}

type reportRepo struct {
	db sqlxDB
}

func NewReportRepository(db *sqlx.DB) ReportRepository {
	return &reportRepo{db: db}
}

func (r *reportRepo) Totals(ctx context.Context, memberIDs []int64, dr model.DateRange) (model.ReportTotals, error) {
	var totals model.ReportTotals
	if len(memberIDs) == 0 {
		return totals, nil
	}

	recharge := applyDateRange(
		Select("COALESCE(SUM(money), 0) AS sum", "COUNT(*) AS count").From("ntp_common_pay_recharge").
			WhereIn("user_id", memberIDs).Where("status = ?", 1),
		"create_time", dr)
	if err := r.sumCount(ctx, recharge, &totals.RechargeAmount, &totals.RechargeCount); err != nil {
		return totals, err
	}

	withdraw := applyDateRange(
		Select("COALESCE(SUM(money), 0) AS sum", "COUNT(*) AS count").From("ntp_common_pay_withdraw").
			WhereIn("u_id", memberIDs).Where("status = ?", 1),
		"create_time", dr)
	if err := r.sumCount(ctx, withdraw, &totals.WithdrawAmount, &totals.WithdrawCount); err != nil {
		return totals, err
	}

	var ignored int
	lose := applyDateRange(
		Select("COALESCE(SUM(money), 0) AS sum", "COUNT(*) AS count").From("ntp_game_user_money_logs").
			WhereIn("member_id", memberIDs).Where("number_type = ?", gameNumberLose),
		"created_at", dr)
	if err := r.sumCount(ctx, lose, &totals.GameLose, &ignored); err != nil {
		return totals, err
	}

	win := applyDateRange(
		Select("COALESCE(SUM(money), 0) AS sum", "COUNT(*) AS count").From("ntp_game_user_money_logs").
			WhereIn("member_id", memberIDs).Where("number_type = ?", gameNumberWin),
		"created_at", dr)
	if err := r.sumCount(ctx, win, &totals.GameWin, &ignored); err != nil {
		return totals, err
	}

	return totals, nil
}

func (r *reportRepo) sumCount(ctx context.Context, q *Query, sum *float64, count *int) error {
	query, args := q.Build()
	var row struct {
		Sum   float64 `db:"sum"`
		Count int     `db:"count"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return err
	}
	*sum, *count = row.Sum, row.Count
	return nil
}
