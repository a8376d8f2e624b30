package user

import "errors"

var (
	ErrPhoneExists        = errors.New("phone number already registered")
	ErrEmailExists        = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrInvalidOTP         = errors.New("invalid otp or email")
	ErrWrongPassword      = errors.New("current password is incorrect")
)
