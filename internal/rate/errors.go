package rate

import "errors"

// ErrRedisUnavailable is an exported constant or variable used by the security core.
var ErrRedisUnavailable = errors.New("redis unavailable")
