package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/tenant"
)

// recordSource describes how one record listing is read: the table and
// alias, the column holding the member id, the column used for date
// filtering and ordering, and the selected columns.
type recordSource struct {
	table        string
	alias        string
	memberColumn string
	timeColumn   string
	columns      []string
	joins        [][2]string
	conds        []string
	// scoped tables carry their own group_prefix column.
	scoped bool
}

var recordSources = map[model.RecordKind]recordSource{
	model.RecordDeposit: {
		table: "ntp_common_pay_recharge", alias: "r", memberColumn: "user_id", timeColumn: "create_time",
		columns: []string{"r.id", "r.user_id", "u.name AS username", "r.money", "r.create_time", "r.success_time", "r.status", "r.remark"},
		scoped:  true,
	},
	model.RecordWithdrawal: {
		table: "ntp_common_pay_withdraw", alias: "w", memberColumn: "u_id", timeColumn: "create_time",
		columns: []string{
			"w.id", "w.u_id", "u.name AS username", "w.money", "w.money_fee", "w.momey_actual", "w.pay_type",
			"pm.method_name AS pay_method_name", "w.create_time", "w.success_time", "w.status", "w.msg",
		},
		joins:  [][2]string{{"ntp_common_pay_methods pm", "w.pay_type = pm.method_code"}},
		scoped: true,
	},
	model.RecordGame: {
		table: "ntp_game_user_money_logs", alias: "gl", memberColumn: "member_id", timeColumn: "created_at",
		columns: []string{"gl.id", "gl.member_id", "u.name AS username", "gl.money", "gl.number_type", "gl.created_at"},
		conds:   []string{"gl.deleted_at IS NULL"},
	},
	model.RecordRebate: {
		table: "ntp_game_user_money_fs_log", alias: "fs", memberColumn: "uid", timeColumn: "create_time",
		columns: []string{"fs.id", "fs.uid", "u.name AS username", "fs.money", "fs.create_time", "fs.remark"},
	},
	model.RecordBalance: {
		table: "ntp_common_pay_money_log", alias: "ml", memberColumn: "uid", timeColumn: "create_time",
		columns: []string{"ml.id", "ml.uid", "u.name AS username", "ml.type", "ml.money", "ml.create_time"},
		scoped:  true,
	},
}

func (s recordSource) col(name string) string {
	return s.alias + "." + name
}

// query builds the listing restricted to memberIDs and the filter.
func (s recordSource) query(f model.RecordFilter, memberIDs []int64) *Query {
	q := Select(s.columns...).
		From(s.table+" "+s.alias).
		LeftJoin("ntp_common_user u", fmt.Sprintf("%s = u.id", s.col(s.memberColumn)))
	for _, j := range s.joins {
		q = q.LeftJoin(j[0], j[1])
	}

	q = q.WhereIn(s.col(s.memberColumn), memberIDs)
	for _, c := range s.conds {
		q = q.Where(c)
	}
	if s.scoped {
		q = tenant.ApplyScopeOn(q, s.col(tenant.Column), f.GroupPrefix)
	}
	q = q.WhereLike("u.name", f.Username)
	return applyDateRange(q, s.col(s.timeColumn), f.Range)
}

type RecordRepository interface {
	ListDeposits(ctx context.Context, f model.RecordFilter, memberIDs []int64) ([]model.DepositRecord, int, error)
	ListWithdrawals(ctx context.Context, f model.RecordFilter, memberIDs []int64) ([]model.WithdrawalRecord, int, error)
	ListGames(ctx context.Context, f model.RecordFilter, memberIDs []int64) ([]model.GameRecord, int, error)
	ListRebates(ctx context.Context, f model.RecordFilter, memberIDs []int64) ([]model.RebateRecord, int, error)
	ListBalances(ctx context.Context, f model.RecordFilter, memberIDs []int64) ([]model.BalanceRecord, int, error)
}

type recordRepo struct {
	db sqlxDB
}

func NewRecordRepository(db *sqlx.DB) RecordRepository {
	return &recordRepo{db: db}
}

func listRecords[T any](ctx context.Context, db sqlxDB, kind model.RecordKind, f model.RecordFilter, memberIDs []int64) ([]T, int, error) {
	rows := []T{}
	if len(memberIDs) == 0 {
		return rows, 0, nil
	}

	src := recordSources[kind]
	q := src.query(f, memberIDs)

	countQuery, countArgs := q.BuildCount()
	var total int
	if err := db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count %s records: %w", kind, err)
	}
	if total == 0 {
		return rows, 0, nil
	}

	query, args := q.OrderBy(src.col(src.timeColumn) + " DESC").Page(f.Limit, f.Offset).Build()
	if err := db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list %s records: %w", kind, err)
	}
	return rows, total, nil
}

func (r *recordRepo) ListDeposits(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.DepositRecord, int, error) {
	return listRecords[model.DepositRecord](ctx, r.db, model.RecordDeposit, f, ids)
}

func (r *recordRepo) ListWithdrawals(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.WithdrawalRecord, int, error) {
	return listRecords[model.WithdrawalRecord](ctx, r.db, model.RecordWithdrawal, f, ids)
}

func (r *recordRepo) ListGames(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.GameRecord, int, error) {
	return listRecords[model.GameRecord](ctx, r.db, model.RecordGame, f, ids)
}

func (r *recordRepo) ListRebates(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.RebateRecord, int, error) {
	return listRecords[model.RebateRecord](ctx, r.db, model.RecordRebate, f, ids)
}

func (r *recordRepo) ListBalances(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.BalanceRecord, int, error) {
	return listRecords[model.BalanceRecord](ctx, r.db, model.RecordBalance, f, ids)
}
