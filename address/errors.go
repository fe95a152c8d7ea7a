package address

import "errors"

var (
	ErrZero       = errors.New("address: zero address")
	ErrReserved   = errors.New("address: reserved address")
	ErrOverflow   = errors.New("address: value exceeds 40 bits")
	ErrInvalidHex = errors.New("address: invalid hex")
)
