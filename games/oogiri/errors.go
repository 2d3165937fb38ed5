/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package oogiri

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrOperationFailed = errors.New("operation failed")
	ErrWrongPhase      = errors.New("wrong phase")
)
