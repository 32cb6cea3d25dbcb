package model

import (
	"time"
)

type Agent struct {
	ID             int64     `db:"id" json:"id"`
	AgentName      string    `db:"agent_name" json:"agent_name"`
	AgentPwd       string    `db:"agent_pwd" json:"-"`
	GroupPrefix    *string   `db:"group_prefix" json:"group_prefix"`
	AgentType      int       `db:"agent_type" json:"agent_type"`
	InvitationCode string    `db:"invitation_code" json:"invitation_code"`
	Money          float64   `db:"money" json:"money"`
	MoneyTotal     float64   `db:"money_total" json:"money_total"`
	Status         int       `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

func (a *Agent) Prefix() string {
	if a.GroupPrefix == nil {
		return ""
	}
	return *a.GroupPrefix
}
