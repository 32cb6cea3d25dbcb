package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const attemptKeyPrefix = "attempts:"

// slidingWindowScript keeps one sorted-set member per attempt, scored by
// unix second. It returns {allowed, reset_at}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local budget = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)

if redis.call('ZCARD', key) >= budget then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    if #oldest >= 2 then
        return {0, tonumber(oldest[2]) + window}
    end
    return {0, now + window}
end

redis.call('ZADD', key, now, now .. '-' .. math.random())
redis.call('EXPIRE', key, window + 10)
return {1, now + window}
`)

// RateLimiter spends a budget of attempts per bucket over a sliding window.
// The login route uses it with config.LoginMaxAttempts per
// config.LoginWindow, keyed by tenant and client IP.
type RateLimiter struct {
	client redis.Scripter
	now    func() time.Time
}

func NewRateLimiter(client redis.Scripter) *RateLimiter {
	return &RateLimiter{client: client, now: time.Now}
}

// CheckLimit records one attempt against bucket and reports whether it fit
// in budget, along with when the oldest attempt leaves the window. It fails
// closed: a Redis error denies the attempt.
func (rl *RateLimiter) CheckLimit(
	ctx context.Context,
	bucket string,
	budget int,
	window time.Duration,
) (allowed bool, resetAt time.Time) {
	now := rl.now()

	result, err := slidingWindowScript.Run(
		ctx,
		rl.client,
		[]string{attemptKeyPrefix + bucket},
		now.Unix(),
		int64(window.Seconds()),
		budget,
	).Int64Slice()
	if err != nil {
		log.Warn().Err(err).Str("bucket", bucket).Msg("attempt budget unavailable, denying")
		return false, now.Add(window)
	}
	if len(result) != 2 {
		log.Warn().Str("bucket", bucket).Ints64("result", result).Msg("malformed attempt budget reply, denying")
		return false, now.Add(window)
	}

	return result[0] == 1, time.Unix(result[1], 0)
}
