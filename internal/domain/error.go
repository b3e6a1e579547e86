package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyClaimed     = errors.New("user already claimed a voucher")
	ErrNoVouchersLeft     = errors.New("no unassigned vouchers left")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrVoucherIssuance    = errors.New("wallet voucher issuance failed")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrClaimInProgress    = errors.New("claim already in progress")
)
