package model

import (
	"time"
)

type Member struct {
	ID                int64      `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	GroupPrefix       *string    `db:"group_prefix" json:"group_prefix"`
	Money             float64    `db:"money" json:"money"`
	MoneyRebate       float64    `db:"money_rebate" json:"money_rebate"`
	MoneyFanyong      float64    `db:"money_fanyong" json:"money_fanyong"`
	VipGrade          int        `db:"vip_grade" json:"vip_grade"`
	FanyongProportion float64    `db:"fanyong_proportion" json:"fanyong_proportion"`
	AgentID           int64      `db:"agent_id" json:"agent_id"`
	UserAgentID1      *int64     `db:"user_agent_id_1" json:"user_agent_id_1"`
	UserAgentID2      *int64     `db:"user_agent_id_2" json:"user_agent_id_2"`
	UserAgentID3      *int64     `db:"user_agent_id_3" json:"user_agent_id_3"`
	Status            int        `db:"status" json:"status"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at" json:"updated_at"`
}

// ManagedBy reports whether agentID is the member's agent or one of its
// upline agents.
func (m *Member) ManagedBy(agentID int64) bool {
	if m.AgentID == agentID {
		return true
	}
	for _, id := range []*int64{m.UserAgentID1, m.UserAgentID2, m.UserAgentID3} {
		if id != nil && *id == agentID {
			return true
		}
	}
	return false
}

// HasUpline is true when the member was referred by another member, in which
// case its commission is managed from the member side.
func (m *Member) HasUpline() bool {
	return m.UserAgentID1 != nil && *m.UserAgentID1 != 0
}

// DateRange bounds a listing by day. Either end may be open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

type MemberFilter struct {
	AgentID     int64
	GroupPrefix string
	Username    string
	Range       DateRange
	Limit       int
	Offset      int
}

type AdjustBalanceParams struct {
	AgentID     int64
	MemberID    int64
	GroupPrefix string
	Type        AdjustType
	Amount      float64
	Remark      string
}

type AdjustBalanceResult struct {
	MemberName        string
	MemberMoneyBefore float64
	MemberMoneyAfter  float64
	AgentMoneyBefore  float64
	AgentMoneyAfter   float64
}

type AdjustCommissionParams struct {
	AgentID     int64
	MemberID    int64
	GroupPrefix string
	Proportion  float64
	Remark      string
}
