package middleware

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/go-redis/redis/v8"

    "paymentwall-gateway-api/models"
)

type RateLimiter struct {
    client *redis.Client
}

type RateLimitConfig struct {
    Requests int
    Window   time.Duration
    Message  string
}

// Card-entry endpoints get tighter limits than status reads. The
// internal token endpoint is generous; it serves backend integrations.
var defaultConfigs = map[string]RateLimitConfig{
    "/api/payments/purchase": {
        Requests: 10,
        Window:   time.Minute * 5,
        Message:  "Too many payment attempts. Please wait 5 minutes.",
    },
    "/api/payments/authorize": {
        Requests: 10,
        Window:   time.Minute * 5,
        Message:  "Too many payment attempts. Please wait 5 minutes.",
    },
    "/internal/generate-token": {
        Requests: 100,
        Window:   time.Minute,
        Message:  "Internal API rate limit exceeded.",
    },
    "default": {
        Requests: 60,
        Window:   time.Minute,
        Message:  "Rate limit exceeded. Please slow down your requests.",
    },
}

func NewRateLimiter(redisURL string) (*RateLimiter, error) {
    opt, err := redis.ParseURL(redisURL)
    if err != nil {
        return nil, fmt.Errorf("invalid Redis URL for rate limiter: %v", err)
    }

    client := redis.NewClient(opt)

    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    if err := client.Ping(ctx).Err(); err != nil {
        return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %v", err)
    }

    return &RateLimiter{client: client}, nil
}

func (rl *RateLimiter) RateLimitMiddleware() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            config := rl.getConfigForEndpoint(r.URL.Path)
            key := rl.getRateLimitKey(r)

            allowed, remaining, resetTime, err := rl.checkRateLimit(r.Context(), key, config)
            if err != nil {
                log.Printf("Rate limit check error: %v", err)
                // Redis trouble should not take payments down with it.
                next.ServeHTTP(w, r)
                return
            }

            w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.Requests))
            w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
            w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

            if !allowed {
                log.Printf("Rate limit exceeded for key: %s, endpoint: %s", key, r.URL.Path)

                w.Header().Set("Content-Type", "application/json")
                w.Header().Set("Retry-After", strconv.FormatInt(int64(time.Until(resetTime).Seconds()), 10))
                w.WriteHeader(http.StatusTooManyRequests)

                json.NewEncoder(w).Encode(models.APIResponse{
                    Status:  "error",
                    Message: config.Message,
                })
                return
            }

            next.ServeHTTP(w, r)
        })
    }
}

func (rl *RateLimiter) getConfigForEndpoint(path string) RateLimitConfig {
    if idx := strings.Index(path, "?"); idx != -1 {
        path = path[:idx]
    }

    if config, exists := defaultConfigs[path]; exists {
        return config
    }

    if strings.HasPrefix(path, "/api/admin/") {
        return RateLimitConfig{
            Requests: 30,
            Window:   time.Minute * 2,
            Message:  "Too many requests to admin endpoints. Please slow down.",
        }
    }

    if strings.HasPrefix(path, "/internal/") {
        return RateLimitConfig{
            Requests: 200,
            Window:   time.Minute,
            Message:  "Internal API rate limit exceeded.",
        }
    }

    return defaultConfigs["default"]
}

func (rl *RateLimiter) getRateLimitKey(r *http.Request) string {
    ip := rl.getClientIP(r)
    endpoint := r.URL.Path

    if strings.HasPrefix(endpoint, "/api/admin/") {
        authHeader := r.Header.Get("Authorization")
        if authHeader != "" && len(authHeader) > 20 {
            tokenPart := authHeader[len(authHeader)-10:]
            return fmt.Sprintf("rate_limit:admin:%s:%s", ip, tokenPart)
        }
    }

    if strings.HasPrefix(endpoint, "/internal/") {
        secret := r.Header.Get("X-Internal-Secret")
        if secret != "" && len(secret) > 10 {
            secretHash := fmt.Sprintf("%x", secret)[:8]
            return fmt.Sprintf("rate_limit:internal:%s", secretHash)
        }
    }

    return fmt.Sprintf("rate_limit:default:%s:%s", ip, endpoint)
}

func (rl *RateLimiter) getClientIP(r *http.Request) string {
    if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
        ips := strings.Split(ip, ",")
        return strings.TrimSpace(ips[0])
    }

    if ip := r.Header.Get("X-Real-IP"); ip != "" {
        return ip
    }

    if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
        return ip
    }

    ip := r.RemoteAddr
    if idx := strings.LastIndex(ip, ":"); idx != -1 {
        ip = ip[:idx]
    }
    return ip
}

func (rl *RateLimiter) checkRateLimit(ctx context.Context, key string, config RateLimitConfig) (allowed bool, remaining int, resetTime time.Time, err error) {
    now := time.Now()
    windowStart := now.Truncate(config.Window)
    windowEnd := windowStart.Add(config.Window)

    luaScript := `
        local key = KEYS[1]
        local window_start = ARGV[1]
        local limit = tonumber(ARGV[2])
        local current_time = ARGV[3]

        redis.call('ZREMRANGEBYSCORE', key, 0, window_start - 1)

        local current_count = redis.call('ZCARD', key)

        if current_count < limit then
            redis.call('ZADD', key, current_time, current_time)
            redis.call('EXPIRE', key, 3600)
            return {1, limit - current_count - 1}
        else
            return {0, 0}
        end
    `

    result, err := rl.client.Eval(ctx, luaScript, []string{key},
        windowStart.UnixNano(), config.Requests, now.UnixNano()).Result()

    if err != nil {
        return false, 0, time.Time{}, err
    }

    resultSlice, ok := result.([]interface{})
    if !ok || len(resultSlice) != 2 {
        return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
    }

    allowedInt, ok1 := resultSlice[0].(int64)
    remainingInt, ok2 := resultSlice[1].(int64)

    if !ok1 || !ok2 {
        return false, 0, time.Time{}, fmt.Errorf("failed to parse redis result")
    }

    return allowedInt == 1, int(remainingInt), windowEnd, nil
}

// SecurityHeadersMiddleware sets baseline security headers on every response.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("X-Content-Type-Options", "nosniff")
        w.Header().Set("X-Frame-Options", "DENY")
        w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

        if strings.HasPrefix(r.URL.Path, "/api/") {
            w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
            w.Header().Set("Pragma", "no-cache")
        }

        next.ServeHTTP(w, r)
    })
}

func (rl *RateLimiter) Close() error {
    return rl.client.Close()
}
