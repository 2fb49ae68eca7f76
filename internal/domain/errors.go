package domain

import "errors"

var (
	ErrEmptyRoom   = errors.New("room id is empty")
	ErrEmptyClient = errors.New("client id is empty")
)
