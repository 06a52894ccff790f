package passerrors

import (
	"errors"
)

var ErrMalformedPayload = errors.New("malformed pass payload")

var ErrSigning = errors.New("error signing pass claims")

var ErrForbiddenOrigin = errors.New("origin not allowed")

var ErrUpstreamWallet = errors.New("wallet api request failed")
