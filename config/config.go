package config

import (
    "log"
    "os"
    "strconv"

    "github.com/joho/godotenv"

    "paymentwall-gateway-api/database"
    "paymentwall-gateway-api/gateway"
    "paymentwall-gateway-api/services/payment/brick"
)

type Config struct {
    Database    database.DatabaseConfig
    Paymentwall gateway.Config
    Server      ServerConfig
    Redis       RedisConfig
    Auth        AuthConfig
    Session     SessionConfig
}

type ServerConfig struct {
    Port string
}

type RedisConfig struct {
    URL               string
    WorkerConcurrency int
}

type AuthConfig struct {
    JWTSecret      string
    Issuer         string
    InternalSecret string
}

type SessionConfig struct {
    Secret string
}

func Load() *Config {
    if err := godotenv.Load(); err != nil {
        log.Printf("Warning: Error loading .env file: %v", err)
    }

    cfg := &Config{
        Database: database.DatabaseConfig{
            Host:     os.Getenv("DB_HOST"),
            User:     os.Getenv("DB_USER"),
            Password: os.Getenv("DB_PASSWORD"),
            DBName:   os.Getenv("DB_NAME"),
        },
        Paymentwall: gateway.Config{
            APIType:     envInt("PW_API_TYPE", brick.APIDigitalGoods),
            PublicKey:   os.Getenv("PW_PUBLIC_KEY"),
            PrivateKey:  os.Getenv("PW_PRIVATE_KEY"),
            WidgetKey:   os.Getenv("PW_WIDGET_KEY"),
            SignVersion: envInt("PW_SIGN_VERSION", 2),
            SiteKey:     os.Getenv("PW_SITE_KEY"),
            SiteDomain:  os.Getenv("PW_SITE_DOMAIN"),
            TestMode:    envBool("PW_TEST_MODE"),
        },
        Server: ServerConfig{
            Port: os.Getenv("SERVER_PORT"),
        },
        Redis: RedisConfig{
            URL:               os.Getenv("REDIS_URL"),
            WorkerConcurrency: envInt("WORKER_CONCURRENCY", 2),
        },
        Auth: AuthConfig{
            JWTSecret:      os.Getenv("JWT_SECRET"),
            Issuer:         "paymentwall-gateway-api",
            InternalSecret: os.Getenv("INTERNAL_API_SECRET"),
        },
        Session: SessionConfig{
            Secret: os.Getenv("SESSION_SECRET"),
        },
    }

    if cfg.Server.Port == "" {
        cfg.Server.Port = "8080"
    }
    if cfg.Redis.URL == "" {
        cfg.Redis.URL = "redis://localhost:6379/0"
        log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
    }
    if cfg.Paymentwall.PublicKey == "" {
        log.Printf("Warning: PW_PUBLIC_KEY not set; processor calls will be rejected")
    }

    return cfg
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("Warning: invalid %s=%q, using default %d", key, v, def)
        return def
    }
    return n
}

func envBool(key string) bool {
    b, _ := strconv.ParseBool(os.Getenv(key))
    return b
}
