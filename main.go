package main

import (
    "context"
    "encoding/json"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "runtime"
    "syscall"
    "time"

    _ "github.com/go-sql-driver/mysql"
    "github.com/gorilla/mux"

    "paymentwall-gateway-api/config"
    "paymentwall-gateway-api/database"
    "paymentwall-gateway-api/handlers"
    "paymentwall-gateway-api/middleware"
    "paymentwall-gateway-api/queue"
    "paymentwall-gateway-api/services/auth"
    "paymentwall-gateway-api/services/payment"
    "paymentwall-gateway-api/worker"
)

func corsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
        w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")

        if r.Method == "OPTIONS" {
            w.WriteHeader(http.StatusOK)
            return
        }
        next.ServeHTTP(w, r)
    })
}

type responseWriter struct {
    http.ResponseWriter
    status int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.status = code
    rw.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(wrapper, r)

        // Only log slow requests and errors to keep the noise down.
        elapsed := time.Since(start)
        if elapsed > 500*time.Millisecond || wrapper.status >= 400 {
            log.Printf(
                "%s %s %s %d %v",
                r.Method,
                r.RequestURI,
                r.RemoteAddr,
                wrapper.status,
                elapsed,
            )
        }
    })
}

func main() {
    log.SetFlags(log.LstdFlags | log.Lshortfile | log.Lmicroseconds | log.LUTC)

    numCPU := runtime.NumCPU()
    runtime.GOMAXPROCS(numCPU)
    log.Printf("Server starting with %d CPUs available", numCPU)

    cfg := config.Load()
    log.Printf("Configuration loaded successfully")

    var db *database.Connection
    var err error
    for retries := 0; retries < 5; retries++ {
        db, err = database.NewConnection(cfg.Database)
        if err == nil {
            break
        }
        retryDelay := time.Duration(retries+1) * time.Second
        log.Printf("Failed to connect to database (attempt %d/5): %v. Retrying in %v...",
            retries+1, err, retryDelay)
        time.Sleep(retryDelay)
    }

    if err != nil {
        log.Fatalf("Failed to connect to database after retries: %v", err)
    }
    defer db.Close()

    ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
    defer cancel()

    if err := db.GetDB().PingContext(ctx); err != nil {
        log.Fatalf("Failed to ping database: %v", err)
    }
    log.Println("Successfully connected to database")

    jobQueue, err := queue.NewQueue(cfg.Redis.URL, "payment_jobs")
    if err != nil {
        log.Fatalf("Failed to connect to Redis: %v", err)
    }
    defer jobQueue.Close()
    log.Println("Successfully connected to Redis")

    paymentService := payment.NewPaymentService(cfg.Paymentwall)
    jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

    workerConcurrency := cfg.Redis.WorkerConcurrency
    if workerConcurrency < 2 {
        workerConcurrency = 2
    } else if workerConcurrency > 8 {
        workerConcurrency = 8
    }

    paymentWorker := worker.NewWorker(jobQueue, db, paymentService)
    paymentWorker.Start(workerConcurrency)
    defer paymentWorker.Stop()
    log.Printf("Started payment worker with %d threads", workerConcurrency)

    paymentHandler, err := handlers.NewPaymentHandler(db, paymentService, jobQueue)
    if err != nil {
        log.Fatalf("Failed to initialize payment handler: %v", err)
    }

    widgetHandler := handlers.NewWidgetHandler(paymentService, cfg)
    internalHandler := handlers.NewInternalHandler(jwtService, cfg.Auth.InternalSecret)
    adminHandler := handlers.NewAdminHandler(db, paymentService, jobQueue)

    rateLimiter, err := middleware.NewRateLimiter(cfg.Redis.URL)
    if err != nil {
        log.Fatalf("Failed to initialize rate limiter: %v", err)
    }
    defer rateLimiter.Close()

    router := mux.NewRouter()
    router.Use(corsMiddleware)
    router.Use(loggingMiddleware)
    router.Use(middleware.SecurityHeadersMiddleware)
    router.Use(rateLimiter.RateLimitMiddleware())

    api := router.PathPrefix("/api").Subrouter()

    // Direct charge endpoints
    api.HandleFunc("/payments/purchase", paymentHandler.ProcessPurchase).Methods("POST", "OPTIONS")
    api.HandleFunc("/payments/authorize", paymentHandler.ProcessAuthorize).Methods("POST", "OPTIONS")
    api.HandleFunc("/payments/{saleID}/capture", paymentHandler.CaptureTransaction).Methods("POST", "OPTIONS")
    api.HandleFunc("/payments/{saleID}/void", paymentHandler.VoidTransaction).Methods("POST", "OPTIONS")
    api.HandleFunc("/payments/{saleID}/refund", paymentHandler.RefundTransaction).Methods("POST", "OPTIONS")
    api.HandleFunc("/payments/{saleID}", paymentHandler.PaymentStatus).Methods("GET", "OPTIONS")
    api.HandleFunc("/transactions/{reference}", paymentHandler.TransactionByReference).Methods("GET", "OPTIONS")

    // Hosted widget endpoints
    api.HandleFunc("/widget/purchase", widgetHandler.WidgetPurchase).Methods("POST", "OPTIONS")
    api.HandleFunc("/widget/return", widgetHandler.WidgetReturn).Methods("GET", "OPTIONS")
    api.HandleFunc("/widget/payment-systems/{country}", widgetHandler.PaymentSystems).Methods("GET", "OPTIONS")
    api.HandleFunc("/widget/payment-systems", widgetHandler.PaymentSystems).Methods("GET", "OPTIONS")

    // Admin endpoints behind JWT
    adminRouter := api.PathPrefix("/admin").Subrouter()
    adminRouter.Use(middleware.AuthMiddleware(jwtService))
    adminRouter.Use(middleware.RequireAdmin())
    adminRouter.Use(middleware.AuthLoggingMiddleware)
    adminRouter.HandleFunc("/refunds", adminHandler.ManualRefund).Methods("POST")
    adminRouter.HandleFunc("/jobs/failed", adminHandler.ListFailedJobs).Methods("GET")
    adminRouter.HandleFunc("/jobs/failed/{jobID}/retry", adminHandler.RetryFailedJob).Methods("POST")

    // Internal endpoints gated by shared secret
    internal := router.PathPrefix("/internal").Subrouter()
    internal.HandleFunc("/generate-token", internalHandler.RequireInternalSecret(internalHandler.GenerateToken)).Methods("POST")
    internal.HandleFunc("/health", internalHandler.InternalHealthCheck).Methods("GET")

    startTime := time.Now()

    api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
        defer cancel()

        health := struct {
            Status    string `json:"status"`
            Time      string `json:"time"`
            Database  string `json:"database"`
            Redis     string `json:"redis"`
            Uptime    string `json:"uptime"`
            GoVersion string `json:"go_version"`
        }{
            Status:    "ok",
            Time:      time.Now().Format(time.RFC3339),
            Database:  "connected",
            Redis:     "connected",
            Uptime:    fmt.Sprintf("%v", time.Since(startTime)),
            GoVersion: runtime.Version(),
        }

        dbCtx, dbCancel := context.WithTimeout(ctx, 500*time.Millisecond)
        defer dbCancel()

        if err := db.GetDB().PingContext(dbCtx); err != nil {
            health.Status = "degraded"
            health.Database = "error"
        }

        redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
        defer redisCancel()

        if err := jobQueue.Client().Ping(redisCtx).Err(); err != nil {
            health.Status = "degraded"
            health.Redis = "error"
        }

        w.Header().Set("Content-Type", "application/json")
        json.NewEncoder(w).Encode(health)
    }).Methods("GET")

    srv := &http.Server{
        Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
        Handler:        router,
        ReadTimeout:    15 * time.Second,
        WriteTimeout:   30 * time.Second,
        IdleTimeout:    120 * time.Second,
        MaxHeaderBytes: 1 << 20,
    }

    go func() {
        log.Printf("Server starting on port %s", cfg.Server.Port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("Server error: %v", err)
        }
    }()

    stop := make(chan os.Signal, 1)
    signal.Notify(stop, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

    <-stop
    log.Println("Shutdown signal received, gracefully shutting down...")

    shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
    defer shutdownCancel()

    log.Println("Shutting down HTTP server...")
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Printf("Server forced to shutdown: %v", err)
    }

    log.Println("Stopping payment worker...")
    paymentWorker.Stop()

    // Give in-flight jobs a moment to finish.
    time.Sleep(2 * time.Second)

    log.Println("Closing database connections...")
    db.Close()

    log.Println("Closing Redis connections...")
    jobQueue.Close()

    log.Println("Server exited properly")
}
