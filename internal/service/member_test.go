package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/ntp/agent-server-go/internal/errors"
	"github.com/ntp/agent-server-go/internal/model"
)

type memberFixture struct {
	tx      *fakeTx
	agents  *mockAgentRepo
	members *mockMemberRepo
	logs    *mockMoneyLogRepo
	svc     *MemberService
}

func newMemberFixture() *memberFixture {
	f := &memberFixture{
		tx:      &fakeTx{},
		agents:  new(mockAgentRepo),
		members: new(mockMemberRepo),
		logs:    new(mockMoneyLogRepo),
	}
	f.svc = NewMemberService(f.tx, f.agents, f.members, f.logs)
	f.svc.now = func() time.Time { return loginNow }
	return f
}

func int64Ptr(v int64) *int64 { return &v }

func TestMemberService_ListMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("formats members", func(t *testing.T) {
		f := newMemberFixture()
		filter := model.MemberFilter{AgentID: 7, GroupPrefix: "tenantA", Limit: 20}
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		f.members.On("ListManaged", ctx, filter).Return([]model.Member{
			{ID: 1, Name: "m1", Money: 1234.5, FanyongProportion: 0.1, AgentID: 7, CreatedAt: created, UserAgentID1: int64Ptr(3)},
			{ID: 2, Name: "m2", AgentID: 7, CreatedAt: created},
		}, 42, nil)

		views, total, err := f.svc.ListMembers(ctx, filter)

		require.NoError(t, err)
		assert.Equal(t, 42, total)
		require.Len(t, views, 2)
		assert.Equal(t, "1234.50", views[0].Money)
		assert.Equal(t, "0.10", views[0].FanyongProportion)
		assert.Equal(t, "2024-01-02 03:04:05", views[0].CreatedAt)
		assert.Equal(t, int64(3), views[0].UserAgentID1)
		assert.Equal(t, int64(0), views[1].UserAgentID1)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		f := newMemberFixture()
		f.members.On("ListManaged", ctx, mock.Anything).Return([]model.Member{}, 0, nil)

		views, total, err := f.svc.ListMembers(ctx, model.MemberFilter{AgentID: 7})

		require.NoError(t, err)
		assert.Equal(t, 0, total)
		assert.NotNil(t, views)
	})

	t.Run("repository error", func(t *testing.T) {
		f := newMemberFixture()
		f.members.On("ListManaged", ctx, mock.Anything).Return(nil, 0, errors.New("boom"))

		_, _, err := f.svc.ListMembers(ctx, model.MemberFilter{AgentID: 7})

		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
	})
}

func TestMemberService_AgentInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("returns formatted balances", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("FindActiveByID", ctx, int64(7), "tenantA").
			Return(&model.Agent{ID: 7, AgentName: "agentA", Money: 1000, MoneyTotal: 2500.256}, nil)

		info, err := f.svc.AgentInfo(ctx, 7, "tenantA")

		require.NoError(t, err)
		assert.Equal(t, "1000.00", info.Money)
		assert.Equal(t, "2500.26", info.MoneyTotal)
	})

	t.Run("not found", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("FindActiveByID", ctx, int64(7), "tenantB").Return(nil, nil)

		_, err := f.svc.AgentInfo(ctx, 7, "tenantB")

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}

func TestMemberService_AdjustBalance(t *testing.T) {
	ctx := context.Background()
	agent := func(money float64) *model.Agent {
		return &model.Agent{ID: 7, AgentName: "agentA", Money: money}
	}
	member := func(money float64) *model.Member {
		return &model.Member{ID: 11, Name: "m11", Money: money, AgentID: 7}
	}

	t.Run("add moves money from agent to member", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "tenantA").Return(agent(500), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "tenantA").Return(member(20), nil)
		f.members.On("AddMoney", ctx, int64(11), 100.0).Return(120.0, nil)
		f.agents.On("AddMoney", ctx, int64(7), -100.0).Return(400.0, nil)
		f.logs.On("CreateMemberLog", ctx, mock.MatchedBy(func(l model.MemberMoneyLog) bool {
			return l.Type == model.MoneyLogIncome &&
				l.Status == model.MoneyStatusAdminAdjust &&
				l.MoneyBefore == 20 && l.MoneyEnd == 120 &&
				l.UID == 11 && l.SourceID == 7 &&
				l.Mark == "代理调整增加余额：100元，bonus"
		})).Return(nil)
		f.logs.On("CreateAgentLog", ctx, mock.MatchedBy(func(l model.AgentMoneyLog) bool {
			return l.Type == model.MoneyLogExpense &&
				l.Status == model.MoneyStatusExpense &&
				l.MoneyBefore == 500 && l.MoneyEnd == 400 &&
				l.Mark == "调整用户[m11]余额：-100元，bonus"
		})).Return(nil)

		result, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, GroupPrefix: "tenantA",
			Type: model.AdjustAdd, Amount: 100, Remark: " bonus ",
		})

		require.NoError(t, err)
		assert.Equal(t, 120.0, result.MemberMoneyAfter)
		assert.Equal(t, 400.0, result.AgentMoneyAfter)
		assert.False(t, f.tx.rolledBack)
		f.logs.AssertExpectations(t)
	})

	t.Run("subtract moves money from member to agent", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(0), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").Return(member(50), nil)
		f.members.On("AddMoney", ctx, int64(11), -30.25).Return(19.75, nil)
		f.agents.On("AddMoney", ctx, int64(7), 30.25).Return(30.25, nil)
		f.logs.On("CreateMemberLog", ctx, mock.MatchedBy(func(l model.MemberMoneyLog) bool {
			return l.Type == model.MoneyLogExpense && l.Status == model.MoneyStatusExpense
		})).Return(nil)
		f.logs.On("CreateAgentLog", ctx, mock.MatchedBy(func(l model.AgentMoneyLog) bool {
			return l.Type == model.MoneyLogIncome && l.Status == model.MoneyStatusIncome
		})).Return(nil)

		result, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustSubtract, Amount: 30.254, Remark: "fix",
		})

		require.NoError(t, err)
		assert.Equal(t, 19.75, result.MemberMoneyAfter)
	})

	t.Run("insufficient agent balance rolls back", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(10), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").Return(member(0), nil)

		_, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustAdd, Amount: 100, Remark: "r",
		})

		assert.Equal(t, apperrors.ErrCodeInsufficientBalance, apperrors.GetCode(err))
		assert.True(t, f.tx.rolledBack)
		f.members.AssertNotCalled(t, "AddMoney", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("insufficient member balance", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(1000), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").Return(member(5), nil)

		_, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustSubtract, Amount: 6, Remark: "r",
		})

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "用户余额不足", appErr.Message)
	})

	t.Run("member outside hierarchy is forbidden", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(1000), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").
			Return(&model.Member{ID: 11, AgentID: 8, UserAgentID2: int64Ptr(9)}, nil)

		_, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustAdd, Amount: 1, Remark: "r",
		})

		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
	})

	t.Run("upline agent may adjust", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(1000), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").
			Return(&model.Member{ID: 11, Name: "m11", AgentID: 8, UserAgentID3: int64Ptr(7)}, nil)
		f.members.On("AddMoney", ctx, int64(11), 1.0).Return(1.0, nil)
		f.agents.On("AddMoney", ctx, int64(7), -1.0).Return(999.0, nil)
		f.logs.On("CreateMemberLog", ctx, mock.Anything).Return(nil)
		f.logs.On("CreateAgentLog", ctx, mock.Anything).Return(nil)

		_, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustAdd, Amount: 1, Remark: "r",
		})

		assert.NoError(t, err)
	})

	t.Run("ledger failure rolls back", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(1000), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").Return(member(0), nil)
		f.members.On("AddMoney", ctx, int64(11), 10.0).Return(10.0, nil)
		f.agents.On("AddMoney", ctx, int64(7), -10.0).Return(990.0, nil)
		f.logs.On("CreateMemberLog", ctx, mock.Anything).Return(errors.New("insert failed"))

		_, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustAdd, Amount: 10, Remark: "r",
		})

		assert.Equal(t, apperrors.ErrCodeDatabase, apperrors.GetCode(err))
		assert.True(t, f.tx.rolledBack)
		f.logs.AssertNotCalled(t, "CreateAgentLog", mock.Anything, mock.Anything)
	})

	t.Run("missing agent or member", func(t *testing.T) {
		f := newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(nil, nil)

		_, err := f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustAdd, Amount: 1, Remark: "r",
		})
		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))

		f = newMemberFixture()
		f.agents.On("LockActiveByID", ctx, int64(7), "").Return(agent(10), nil)
		f.members.On("LockActiveByID", ctx, int64(11), "").Return(nil, nil)

		_, err = f.svc.AdjustBalance(ctx, model.AdjustBalanceParams{
			AgentID: 7, MemberID: 11, Type: model.AdjustAdd, Amount: 1, Remark: "r",
		})
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "用户不存在", appErr.Message)
	})

	t.Run("invalid parameters never open a transaction", func(t *testing.T) {
		cases := []struct {
			name    string
			params  model.AdjustBalanceParams
			message string
		}{
			{"zero amount", model.AdjustBalanceParams{MemberID: 1, Type: model.AdjustAdd, Amount: 0, Remark: "r"}, "参数错误"},
			{"sub-cent amount", model.AdjustBalanceParams{MemberID: 1, Type: model.AdjustAdd, Amount: 0.001, Remark: "r"}, "参数错误"},
			{"blank remark", model.AdjustBalanceParams{MemberID: 1, Type: model.AdjustAdd, Amount: 1, Remark: "  "}, "参数错误"},
			{"no member", model.AdjustBalanceParams{Type: model.AdjustAdd, Amount: 1, Remark: "r"}, "参数错误"},
			{"bad type", model.AdjustBalanceParams{MemberID: 1, Type: "double", Amount: 1, Remark: "r"}, "调整类型错误"},
			{"NaN amount", model.AdjustBalanceParams{MemberID: 1, Type: model.AdjustAdd, Amount: math.NaN(), Remark: "r"}, "参数错误"},
			{"+Inf amount", model.AdjustBalanceParams{MemberID: 1, Type: model.AdjustAdd, Amount: math.Inf(1), Remark: "r"}, "参数错误"},
			{"-Inf amount", model.AdjustBalanceParams{MemberID: 1, Type: model.AdjustSubtract, Amount: math.Inf(-1), Remark: "r"}, "参数错误"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				f := newMemberFixture()

				_, err := f.svc.AdjustBalance(ctx, tc.params)

				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
				assert.Equal(t, tc.message, appErr.Message)
				f.agents.AssertNotCalled(t, "LockActiveByID", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})
}

func TestMemberService_AdjustCommission(t *testing.T) {
	ctx := context.Background()
	params := model.AdjustCommissionParams{AgentID: 7, MemberID: 11, GroupPrefix: "tenantA", Proportion: 0.3, Remark: "promo"}

	t.Run("updates direct member", func(t *testing.T) {
		f := newMemberFixture()
		f.members.On("FindActiveByID", ctx, int64(11), "tenantA").
			Return(&model.Member{ID: 11, AgentID: 7, FanyongProportion: 0.1}, nil)
		f.members.On("UpdateProportion", ctx, int64(11), 0.3).Return(nil)

		err := f.svc.AdjustCommission(ctx, params)

		require.NoError(t, err)
		f.members.AssertExpectations(t)
	})

	t.Run("member of another agent", func(t *testing.T) {
		f := newMemberFixture()
		f.members.On("FindActiveByID", ctx, int64(11), "tenantA").
			Return(&model.Member{ID: 11, AgentID: 8}, nil)

		err := f.svc.AdjustCommission(ctx, params)

		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, "无权限调整此用户返佣比例", appErr.Message)
	})

	t.Run("member with upline member", func(t *testing.T) {
		f := newMemberFixture()
		f.members.On("FindActiveByID", ctx, int64(11), "tenantA").
			Return(&model.Member{ID: 11, AgentID: 7, UserAgentID1: int64Ptr(5)}, nil)

		err := f.svc.AdjustCommission(ctx, params)

		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.GetCode(err))
		f.members.AssertNotCalled(t, "UpdateProportion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("out of range proportion", func(t *testing.T) {
		f := newMemberFixture()
		bad := params
		bad.Proportion = 1.5

		err := f.svc.AdjustCommission(ctx, bad)

		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err))
	})

	t.Run("non-finite proportion", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			f := newMemberFixture()
			bad := params
			bad.Proportion = v

			err := f.svc.AdjustCommission(ctx, bad)

			assert.Equal(t, apperrors.ErrCodeValidation, apperrors.GetCode(err), v)
			f.members.AssertNotCalled(t, "FindActiveByID", mock.Anything, mock.Anything, mock.Anything)
			f.members.AssertNotCalled(t, "UpdateProportion", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		f := newMemberFixture()
		f.members.On("FindActiveByID", ctx, int64(11), "tenantA").Return(nil, nil)

		err := f.svc.AdjustCommission(ctx, params)

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
	})
}
