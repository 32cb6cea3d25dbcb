package model

import (
	"time"
)

// GroupSet is the per-tenant site configuration.
type GroupSet struct {
	ID                 int64      `db:"id" json:"id"`
	GroupPrefix        string     `db:"group_prefix" json:"group_prefix"`
	GroupName          string     `db:"group_name" json:"group_name"`
	SiteName           string     `db:"site_name" json:"site_name"`
	SiteWapLogo        string     `db:"site_wap_logo" json:"site_wap_logo"`
	SiteDescription    string     `db:"site_description" json:"site_description"`
	CustomerServiceURL string     `db:"customer_service_url" json:"customer_service_url"`
	WebURL             string     `db:"web_url" json:"web_url"`
	AdminURL           string     `db:"admin_url" json:"admin_url"`
	AgentURL           string     `db:"agent_url" json:"agent_url"`
	LobbyURL           string     `db:"lobby_url" json:"lobby_url"`
	PromotionURL       string     `db:"promotion_url" json:"promotion_url"`
	Money              float64    `db:"money" json:"money"`
	Status             int        `db:"status" json:"status"`
	Remarkt            string     `db:"remarkt" json:"remarkt"`
	IPWhite            string     `db:"ip_white" json:"ip_white"`
	IPBlack            string     `db:"ip_black" json:"ip_black"`
	SupplierShowIDs    string     `db:"supplier_show_ids" json:"supplier_show_ids"`
	SupplierRunIDs     string     `db:"supplier_run_ids" json:"supplier_run_ids"`
	GameShowIDs        string     `db:"game_show_ids" json:"game_show_ids"`
	GameRunIDs         string     `db:"game_run_ids" json:"game_run_ids"`
	CreateAt           *time.Time `db:"create_at" json:"create_at"`
}
