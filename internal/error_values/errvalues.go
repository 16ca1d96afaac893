package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrEmailInUse       = errors.New("email already in use")
	ErrNothingToUpdate  = errors.New("at least one field must be provided")

	ErrInvalidToken = errors.New("invalid token")

	ErrValidation = errors.New("validation failed")

	ErrHabitNotFound = errors.New("habit doesn't exist")
	ErrOwnerNotFound = errors.New("habit owner doesn't exist")
	ErrWrongOwner    = errors.New("habit belongs to another user")

	ErrAlreadyLoggedToday = errors.New("habit already logged today")
	ErrInvalidDateRange   = errors.New("invalid date range")

	ErrAchievementNotFound = errors.New("achievement doesn't exist")
	ErrAchievementUnlocked = errors.New("achievement already unlocked")
)
