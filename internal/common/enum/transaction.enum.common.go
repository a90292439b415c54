package enum

/*----------- TransactionStatusEnum -----------*/

type TransactionStatusEnum string

const (
	PENDING    TransactionStatusEnum = "pending"
	AUTHORIZED TransactionStatusEnum = "authorized"
	FAILED     TransactionStatusEnum = "failed"
)

func (e TransactionStatusEnum) ToString() string {
	switch e {
	case PENDING:
		return "pending"
	case AUTHORIZED:
		return "authorized"
	case FAILED:
		return "failed"
	}
	return ""
}

func (e TransactionStatusEnum) IsValid() bool {
	switch e {
	case PENDING, AUTHORIZED, FAILED:
		return true
	}
	return false
}
