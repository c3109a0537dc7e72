// Package errors defines the domain error values shared between the wallet
// core and the HTTP layer. Handlers map codes onto status codes; services
// return these values (or wrap them) instead of ad-hoc strings.
package errors

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// WalletFrozenError is returned while a wallet is inside its freeze window.
// SecondsLeft tells the caller when a retry could succeed.
type WalletFrozenError struct {
	SecondsLeft int64
}

func (e *WalletFrozenError) Error() string {
	return fmt.Sprintf("wallet is frozen, try again in %d seconds", e.SecondsLeft)
}

// DailyLimitError is returned when a debit would push the daily spend past
// the configured ceiling. Remaining is the allowance still available.
type DailyLimitError struct {
	Remaining float64
}

func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily limit exceeded, remaining allowance %.2f", e.Remaining)
}
