package model

// Row status shared by agents, members and group settings.
const (
	StatusDisabled = 0
	StatusActive   = 1
)

type AdjustType string

const (
	AdjustAdd      AdjustType = "add"
	AdjustSubtract AdjustType = "subtract"
)

func (t AdjustType) Valid() bool {
	return t == AdjustAdd || t == AdjustSubtract
}

// Money log direction.
const (
	MoneyLogIncome  = 1
	MoneyLogExpense = 2
)

// Money log status codes as used by the finance tables.
const (
	MoneyStatusIncome      = 101
	MoneyStatusExpense     = 201
	MoneyStatusAdminAdjust = 301
)

type LoginStatus int

const (
	LoginFailed  LoginStatus = 0
	LoginSucceed LoginStatus = 1
)

// DateTimeLayout is the wire format of every timestamp in responses.
const DateTimeLayout = "2006-01-02 15:04:05"
