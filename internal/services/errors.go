package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserExists         = errors.New("user already exists")
	ErrEmailInUse         = errors.New("email already in use by another account")
	ErrNoFoodIdentified   = errors.New("no food identified in the image")
	ErrNoCurrentUser      = errors.New("no user registered on this device")
)
