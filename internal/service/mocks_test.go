package service

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"

	"github.com/ntp/agent-server-go/internal/database"
	"github.com/ntp/agent-server-go/internal/model"
	"github.com/ntp/agent-server-go/internal/repository"
	"github.com/ntp/agent-server-go/internal/token"
)

type mockAgentRepo struct {
	mock.Mock
}

func (m *mockAgentRepo) FindActiveByName(ctx context.Context, name, groupPrefix string) (*model.Agent, error) {
	args := m.Called(ctx, name, groupPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}

func (m *mockAgentRepo) FindActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Agent, error) {
	args := m.Called(ctx, id, groupPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}

func (m *mockAgentRepo) LockActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Agent, error) {
	args := m.Called(ctx, id, groupPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Agent), args.Error(1)
}

func (m *mockAgentRepo) AddMoney(ctx context.Context, id int64, delta float64) (float64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockAgentRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *mockAgentRepo) WithTx(tx *sqlx.Tx) repository.AgentRepository {
	return m
}

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) ListManaged(ctx context.Context, f model.MemberFilter) ([]model.Member, int, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Member), args.Int(1), args.Error(2)
}

func (m *mockMemberRepo) DirectIDs(ctx context.Context, agentID int64, groupPrefix, username string) ([]int64, error) {
	args := m.Called(ctx, agentID, groupPrefix, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *mockMemberRepo) FindActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Member, error) {
	args := m.Called(ctx, id, groupPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *mockMemberRepo) LockActiveByID(ctx context.Context, id int64, groupPrefix string) (*model.Member, error) {
	args := m.Called(ctx, id, groupPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *mockMemberRepo) AddMoney(ctx context.Context, id int64, delta float64) (float64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockMemberRepo) UpdateProportion(ctx context.Context, id int64, proportion float64) error {
	args := m.Called(ctx, id, proportion)
	return args.Error(0)
}

func (m *mockMemberRepo) WithTx(tx *sqlx.Tx) repository.MemberRepository {
	return m
}

type mockMoneyLogRepo struct {
	mock.Mock
}

func (m *mockMoneyLogRepo) CreateMemberLog(ctx context.Context, l model.MemberMoneyLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockMoneyLogRepo) CreateAgentLog(ctx context.Context, l model.AgentMoneyLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockMoneyLogRepo) WithTx(tx *sqlx.Tx) repository.MoneyLogRepository {
	return m
}

type mockLoginLogRepo struct {
	mock.Mock
}

func (m *mockLoginLogRepo) Create(ctx context.Context, params model.CreateLoginLogParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockLoginLogRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type mockGroupSetRepo struct {
	mock.Mock
}

func (m *mockGroupSetRepo) FindActiveByAgentURL(ctx context.Context, domain string) (*model.GroupSet, error) {
	args := m.Called(ctx, domain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupSet), args.Error(1)
}

func (m *mockGroupSetRepo) FindActiveByPrefix(ctx context.Context, groupPrefix string) (*model.GroupSet, error) {
	args := m.Called(ctx, groupPrefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GroupSet), args.Error(1)
}

type mockRecordRepo struct {
	mock.Mock
}

func (m *mockRecordRepo) ListDeposits(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.DepositRecord, int, error) {
	args := m.Called(ctx, f, ids)
	return args.Get(0).([]model.DepositRecord), args.Int(1), args.Error(2)
}

func (m *mockRecordRepo) ListWithdrawals(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.WithdrawalRecord, int, error) {
	args := m.Called(ctx, f, ids)
	return args.Get(0).([]model.WithdrawalRecord), args.Int(1), args.Error(2)
}

func (m *mockRecordRepo) ListGames(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.GameRecord, int, error) {
	args := m.Called(ctx, f, ids)
	return args.Get(0).([]model.GameRecord), args.Int(1), args.Error(2)
}

func (m *mockRecordRepo) ListRebates(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.RebateRecord, int, error) {
	args := m.Called(ctx, f, ids)
	return args.Get(0).([]model.RebateRecord), args.Int(1), args.Error(2)
}

func (m *mockRecordRepo) ListBalances(ctx context.Context, f model.RecordFilter, ids []int64) ([]model.BalanceRecord, int, error) {
	args := m.Called(ctx, f, ids)
	return args.Get(0).([]model.BalanceRecord), args.Int(1), args.Error(2)
}

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Totals(ctx context.Context, memberIDs []int64, dr model.DateRange) (model.ReportTotals, error) {
	args := m.Called(ctx, memberIDs, dr)
	return args.Get(0).(model.ReportTotals), args.Error(1)
}

type mockIssuer struct {
	mock.Mock
}

func (m *mockIssuer) Issue(subject string, now time.Time) (string, token.Claims, error) {
	args := m.Called(subject, now)
	return args.String(0), args.Get(1).(token.Claims), args.Error(2)
}

// fakeTx runs fn without a real transaction; rolledBack records whether fn
// failed.
type fakeTx struct {
	rolledBack bool
}

func (f *fakeTx) WithTx(ctx context.Context, fn database.TxFunc) error {
	err := fn(nil)
	f.rolledBack = err != nil
	return err
}

// memoryCache is an in-process stand-in for the Redis client.
type memoryCache struct {
	data    map[string]string
	getErr  error
	setErr  error
	setTTLs []time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if c.getErr != nil {
		return redis.NewStringResult("", c.getErr)
	}
	v, ok := c.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if c.setErr != nil {
		return redis.NewStatusResult("", c.setErr)
	}
	switch v := value.(type) {
	case []byte:
		c.data[key] = string(v)
	case string:
		c.data[key] = v
	}
	c.setTTLs = append(c.setTTLs, expiration)
	return redis.NewStatusResult("OK", nil)
}

type mockMenuRepo struct {
	mock.Mock
}

func (m *mockMenuRepo) ListRoots(ctx context.Context, groupPrefix string, limit, offset int) ([]model.Menu, int, error) {
	args := m.Called(ctx, groupPrefix, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Menu), args.Int(1), args.Error(2)
}

func (m *mockMenuRepo) ListChildren(ctx context.Context, groupPrefix string, parentIDs []int64) ([]model.Menu, error) {
	args := m.Called(ctx, groupPrefix, parentIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Menu), args.Error(1)
}
