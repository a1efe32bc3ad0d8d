package main // Entry point package

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/shopsmart/internal/config"
    "github.com/iliyamo/shopsmart/internal/database"
    "github.com/iliyamo/shopsmart/internal/handler"
    "github.com/iliyamo/shopsmart/internal/middleware"
    "github.com/iliyamo/shopsmart/internal/queue"
    "github.com/iliyamo/shopsmart/internal/repository"
    "github.com/iliyamo/shopsmart/internal/router"
)

func main() {
    // .env is optional; real deployments set the variables directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    userRepo := repository.NewUserRepo(db)
    productRepo := repository.NewProductRepo(db)
    cartRepo := repository.NewCartRepo(db)
    orderRepo := repository.NewOrderRepo(db)

    authHandler := handler.NewAuthHandler(cfg, userRepo)
    productHandler := handler.NewProductHandler(productRepo)
    cartHandler := handler.NewCartHandler(cartRepo, productRepo)
    orderHandler := handler.NewOrderHandler(cartRepo, orderRepo)
    userAdminHandler := handler.NewUserAdminHandler(userRepo, cartRepo, orderRepo)

    e := echo.New()

    // Redis is optional: when unreachable the limiter and cache
    // middlewares degrade to pass-through.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response cache disabled")
    }
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    catalogCache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authHandler, cfg.JWTSecret)
    router.RegisterPublic(e, productHandler, catalogCache)
    router.RegisterCustomer(e, cartHandler, orderHandler, cfg.JWTSecret)
    router.RegisterAdmin(e, productHandler, orderHandler, userAdminHandler, cfg.JWTSecret)

    // Background consumer mirrors placed orders into logs/orders.log.
    go func() {
        if err := queue.StartOrderConsumer(); err != nil {
            log.Printf("order consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)

    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
