package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("redis connection URL is empty")
	ErrFailedToParseRedisConnString = errors.New("cannot parse redis connection URL")
	ErrRedisNotReady                = errors.New("redis did not answer ping within the retry budget")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)
