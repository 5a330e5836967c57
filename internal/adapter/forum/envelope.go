package forum

import (
	"errors"
	"fmt"

	"empathy-client/internal/gateway"
)

var (
	ErrEmptyData         = errors.New("response envelope has no data")
	ErrUnsuccessful      = errors.New("response envelope reports failure")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrMissingCredential = errors.New("login response carries no token")
)

// Pagination is the optional paging block of a collection envelope.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

type envelope[T any] struct {
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Data       *T          `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func decode[T any](resp *gateway.Response) (*T, *Pagination, error) {
	var env envelope[T]
	if err := resp.Decode(&env); err != nil {
		return nil, nil, err
	}
	if env.Status != "" && env.Status != "success" {
		if env.Message != "" {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnsuccessful, env.Message)
		}
		return nil, nil, fmt.Errorf("%w: status %q", ErrUnsuccessful, env.Status)
	}
	if env.Data == nil {
		return nil, nil, ErrEmptyData
	}
	return env.Data, env.Pagination, nil
}
