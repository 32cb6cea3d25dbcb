package model

// ReportTotals are the raw aggregates behind the statistical report.
type ReportTotals struct {
	RechargeAmount float64 `db:"recharge_amount"`
	RechargeCount  int     `db:"recharge_count"`
	WithdrawAmount float64 `db:"withdraw_amount"`
	WithdrawCount  int     `db:"withdraw_count"`
	GameLose       float64 `db:"game_lose"`
	GameWin        float64 `db:"game_win"`
}

type ReportFilter struct {
	AgentID     int64
	GroupPrefix string
	Username    string
	Range       DateRange
}
