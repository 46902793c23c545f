package domain

import (
	"errors"
	"fmt"
)

var (
	ErrProviderContract = errors.New("provider contract violation")
	ErrSynthesisFailed  = errors.New("speech synthesis failed")
	ErrSceneNotFound    = errors.New("scene not found")
)

// ContractError reports a provider response that is missing a required field.
type ContractError struct {
	Provider string
	Field    string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: response missing %q", e.Provider, e.Field)
}

func (e *ContractError) Unwrap() error {
	return ErrProviderContract
}
