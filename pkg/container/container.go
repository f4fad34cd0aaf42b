package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"netshop-backend/internal/config"
	infraCache "netshop-backend/internal/infrastructure/cache"
	"netshop-backend/internal/infrastructure/database"
	"netshop-backend/internal/infrastructure/email"
	"netshop-backend/pkg/cache"
	"netshop-backend/pkg/jwt"
	"netshop-backend/pkg/logger"

	addressHandler "netshop-backend/internal/domains/address/handler"
	addressRepo "netshop-backend/internal/domains/address/repository"
	addressService "netshop-backend/internal/domains/address/service"
	cartHandler "netshop-backend/internal/domains/cart/handler"
	cartRepo "netshop-backend/internal/domains/cart/repository"
	cartService "netshop-backend/internal/domains/cart/service"
	orderHandler "netshop-backend/internal/domains/order/handler"
	orderRepo "netshop-backend/internal/domains/order/repository"
	orderService "netshop-backend/internal/domains/order/service"
	paymentGateway "netshop-backend/internal/domains/payment/gateway"
	momoMock "netshop-backend/internal/domains/payment/gateway/mock"
	"netshop-backend/internal/domains/payment/gateway/momo"
	paymentHandler "netshop-backend/internal/domains/payment/handler"
	paymentRepo "netshop-backend/internal/domains/payment/repository"
	paymentService "netshop-backend/internal/domains/payment/service"
	productRepo "netshop-backend/internal/domains/product/repository"
	promotionRepo "netshop-backend/internal/domains/promotion/repository"
	promotionService "netshop-backend/internal/domains/promotion/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa toàn bộ dependencies của api và worker.
// Thứ tự init: config -> infrastructure -> repositories -> services -> handlers
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	RedisOpt    asynq.RedisClientOpt
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	Email       email.EmailService
	Gateway     paymentGateway.MomoGateway

	// ========================================
	// REPOSITORY LAYER
	// ========================================
	ProductRepo    productRepo.Repository
	AddressRepo    addressRepo.Repository
	CartRepo       cartRepo.RepositoryInterface
	OrderRepo      orderRepo.OrderRepository
	PromotionRepo  promotionRepo.PromotionRepository
	PaymentLogRepo paymentRepo.PaymentLogRepository

	// ========================================
	// SERVICE LAYER
	// ========================================
	AddressService addressService.ServiceInterface
	CartService    cartService.ServiceInterface
	StatusMachine  *orderService.StatusMachine
	PaymentService paymentService.PaymentService
	OrderService   orderService.OrderService

	// ========================================
	// HANDLER LAYER
	// ========================================
	AddressHandler *addressHandler.AddressHandler
	CartHandler    *cartHandler.Handler
	OrderHandler   *orderHandler.OrderHandler
	PaymentHandler *paymentHandler.PaymentHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("🔧 Initializing DI Container...", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE + QUEUE
	// ========================================
	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// Redis lỗi không critical cho cache; order detail đọc thẳng DB
		logger.Warn("⚠️  Redis connection failed (non-critical)", map[string]interface{}{
			"error": err.Error(),
		})
	}
	c.Cache = redisCache

	c.RedisOpt = asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	c.AsynqClient = asynq.NewClient(c.RedisOpt)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	c.Email = email.NewSMTPEmailService(cfg.SMTP)
	c.Gateway = newMomoGateway(cfg.Momo)

	// ========================================
	// STEP 4-6: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("🎉 DI Container initialized successfully", nil)
	return c, nil
}

// newMomoGateway: không có partner code (local dev) thì dùng mock, chữ ký IPN vẫn verify thật
func newMomoGateway(cfg config.MomoConfig) paymentGateway.MomoGateway {
	if cfg.PartnerCode == "" {
		logger.Warn("MOMO_PARTNER_CODE is empty, using mock MoMo gateway", nil)
		return momoMock.NewMockMomoGateway(cfg.AccessKey, cfg.SecretKey)
	}
	return momo.NewClient(momo.NewConfig(cfg))
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.ProductRepo = productRepo.NewPostgresRepository(pool)
	c.AddressRepo = addressRepo.NewPostgresRepository(pool)
	c.CartRepo = cartRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(pool)
	c.PromotionRepo = promotionRepo.NewPostgresRepository()
	c.PaymentLogRepo = paymentRepo.NewPaymentLogRepository(pool)
}

func (c *Container) initServices() {
	c.AddressService = addressService.NewAddressService(c.AddressRepo)
	c.CartService = cartService.NewCartService(c.CartRepo, c.ProductRepo)
	c.StatusMachine = orderService.NewStatusMachine(c.OrderRepo, c.ProductRepo)

	// Payment service tạo trước: order service chỉ biết PaymentInitiator
	c.PaymentService = paymentService.NewPaymentService(paymentService.Deps{
		DB:        c.DB.Pool,
		OrderRepo: c.OrderRepo,
		LogRepo:   c.PaymentLogRepo,
		Gateway:   c.Gateway,
		Machine:   c.StatusMachine,
		Enqueuer:  c.AsynqClient,
		Cache:     c.Cache,
	})

	var discounts orderService.DiscountApplier = orderService.NoDiscount{}
	if c.Config.Discount.Enabled {
		discounts = promotionService.NewPromotionDiscount(c.PromotionRepo)
	}

	c.OrderService = orderService.NewOrderService(orderService.Deps{
		DB:          c.DB.Pool,
		OrderRepo:   c.OrderRepo,
		CartRepo:    c.CartRepo,
		ProductRepo: c.ProductRepo,
		Addresses:   c.AddressService,
		Machine:     c.StatusMachine,
		Discounts:   discounts,
		Payments:    c.PaymentService,
		Enqueuer:    c.AsynqClient,
		Cache:       c.Cache,
		Config:      c.Config.Order,
	})
}

func (c *Container) initHandlers() {
	c.AddressHandler = addressHandler.NewAddressHandler(c.AddressService)
	c.CartHandler = cartHandler.NewHandler(c.CartService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService, c.Config.Momo.ResultURL)
}

// Cleanup dọn dẹp resources khi shutdown
func (c *Container) Cleanup() {
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			logger.Error("Failed to close asynq client", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Error("Failed to close Redis", err)
		}
	}

	logger.Info("✅ Container cleanup completed", nil)
}
