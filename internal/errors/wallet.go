package errors

var (
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrWalletInactive = &DomainError{
		Code:    "WALLET_INACTIVE",
		Message: "wallet is inactive",
	}
	ErrInsufficientBalance = &DomainError{
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be positive",
	}
	ErrInvalidTransactionType = &DomainError{
		Code:    "INVALID_TRANSACTION_TYPE",
		Message: "transaction type must be CREDIT or DEBIT",
	}
	ErrSameWallet = &DomainError{
		Code:    "SAME_WALLET",
		Message: "cannot transfer to the same wallet",
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "wallet does not belong to you",
	}
	ErrWalletBusy = &DomainError{
		Code:    "WALLET_BUSY",
		Message: "wallet busy, please try again later",
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
	}
	ErrUnexpected = &DomainError{
		Code:    "UNEXPECTED",
		Message: "unexpected internal error",
	}
)
