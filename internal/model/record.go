package model

import (
	"time"
)

// RecordKind names one of the member record listings.
type RecordKind string

const (
	RecordDeposit    RecordKind = "deposit"
	RecordWithdrawal RecordKind = "withdrawal"
	RecordGame       RecordKind = "game"
	RecordRebate     RecordKind = "rebate"
	RecordBalance    RecordKind = "balance"
)

type RecordFilter struct {
	AgentID     int64
	GroupPrefix string
	Username    string
	Range       DateRange
	Limit       int
	Offset      int
}

type DepositRecord struct {
	ID          int64      `db:"id"`
	UserID      int64      `db:"user_id"`
	Username    *string    `db:"username"`
	Money       float64    `db:"money"`
	CreateTime  *time.Time `db:"create_time"`
	SuccessTime *time.Time `db:"success_time"`
	Status      int        `db:"status"`
	Remark      *string    `db:"remark"`
}

type WithdrawalRecord struct {
	ID            int64      `db:"id"`
	UID           int64      `db:"u_id"`
	Username      *string    `db:"username"`
	Money         float64    `db:"money"`
	MoneyFee      *float64   `db:"money_fee"`
	MoneyActual   *float64   `db:"momey_actual"`
	PayType       string     `db:"pay_type"`
	PayMethodName *string    `db:"pay_method_name"`
	CreateTime    *time.Time `db:"create_time"`
	SuccessTime   *time.Time `db:"success_time"`
	Status        int        `db:"status"`
	Msg           *string    `db:"msg"`
}

type GameRecord struct {
	ID         int64      `db:"id"`
	MemberID   int64      `db:"member_id"`
	Username   *string    `db:"username"`
	Money      float64    `db:"money"`
	NumberType int        `db:"number_type"`
	CreatedAt  *time.Time `db:"created_at"`
}

type RebateRecord struct {
	ID         int64      `db:"id"`
	UID        int64      `db:"uid"`
	Username   *string    `db:"username"`
	Money      float64    `db:"money"`
	CreateTime *time.Time `db:"create_time"`
	Remark     *string    `db:"remark"`
}

type BalanceRecord struct {
	ID         int64      `db:"id"`
	UID        int64      `db:"uid"`
	Username   *string    `db:"username"`
	Type       int        `db:"type"`
	Money      float64    `db:"money"`
	CreateTime *time.Time `db:"create_time"`
}
