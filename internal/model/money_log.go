package model

import (
	"time"
)

// MemberMoneyLog is a row of ntp_common_pay_money_log.
type MemberMoneyLog struct {
	ID          int64     `db:"id"`
	GroupPrefix string    `db:"group_prefix"`
	CreateTime  time.Time `db:"create_time"`
	Type        int       `db:"type"`
	Status      int       `db:"status"`
	MoneyBefore float64   `db:"money_before"`
	MoneyEnd    float64   `db:"money_end"`
	Money       float64   `db:"money"`
	UID         int64     `db:"uid"`
	SourceID    int64     `db:"source_id"`
	MarketUID   int64     `db:"market_uid"`
	Mark        string    `db:"mark"`
}

// AgentMoneyLog is a row of ntp_common_pay_money_agent_log.
type AgentMoneyLog struct {
	ID          int64     `db:"id"`
	GroupPrefix string    `db:"group_prefix"`
	CreateTime  time.Time `db:"create_time"`
	Type        int       `db:"type"`
	Status      int       `db:"status"`
	MoneyBefore float64   `db:"money_before"`
	MoneyEnd    float64   `db:"money_end"`
	Money       float64   `db:"money"`
	AgentID     int64     `db:"agent_id"`
	SourceID    int64     `db:"source_id"`
	AdminUID    int64     `db:"admin_uid"`
	Mark        string    `db:"mark"`
}
