package model

import (
	"time"
)

type LoginLog struct {
	ID          int64       `db:"id" json:"id"`
	AgentID     int64       `db:"agent_id" json:"agent_id"`
	AgentName   string      `db:"agent_name" json:"agent_name"`
	GroupPrefix string      `db:"group_prefix" json:"group_prefix"`
	LoginIP     string      `db:"login_ip" json:"login_ip"`
	LoginTime   time.Time   `db:"login_time" json:"login_time"`
	UserAgent   string      `db:"user_agent" json:"user_agent"`
	LoginStatus LoginStatus `db:"login_status" json:"login_status"`
	FailReason  *string     `db:"fail_reason" json:"fail_reason,omitempty"`
	SessionID   *string     `db:"session_id" json:"session_id,omitempty"`
	LoginDevice string      `db:"login_device" json:"login_device"`
	BrowserInfo string      `db:"browser_info" json:"browser_info"`
	CreateTime  time.Time   `db:"create_time" json:"create_time"`
}

type CreateLoginLogParams struct {
	AgentID     int64
	AgentName   string
	GroupPrefix string
	LoginIP     string
	UserAgent   string
	Status      LoginStatus
	FailReason  *string
	SessionID   *string
	Device      string
	Browser     string
}
