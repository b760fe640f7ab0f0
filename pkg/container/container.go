package container

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"bookstore-marketplace/internal/config"
	bookHandler "bookstore-marketplace/internal/domains/book/handler"
	bookRepo "bookstore-marketplace/internal/domains/book/repository"
	bookService "bookstore-marketplace/internal/domains/book/service"
	orderHandler "bookstore-marketplace/internal/domains/order/handler"
	orderRepo "bookstore-marketplace/internal/domains/order/repository"
	orderService "bookstore-marketplace/internal/domains/order/service"
	"bookstore-marketplace/internal/domains/payment/gateway"
	mockGateway "bookstore-marketplace/internal/domains/payment/gateway/mock"
	"bookstore-marketplace/internal/domains/payment/gateway/razorpay"
	paymentHandler "bookstore-marketplace/internal/domains/payment/handler"
	paymentRepo "bookstore-marketplace/internal/domains/payment/repository"
	paymentService "bookstore-marketplace/internal/domains/payment/service"
	statsHandler "bookstore-marketplace/internal/domains/stats/handler"
	statsRepo "bookstore-marketplace/internal/domains/stats/repository"
	statsService "bookstore-marketplace/internal/domains/stats/service"
	"bookstore-marketplace/internal/domains/user"
	userHandler "bookstore-marketplace/internal/domains/user/handler"
	userRepo "bookstore-marketplace/internal/domains/user/repository"
	userService "bookstore-marketplace/internal/domains/user/service"
	infraCache "bookstore-marketplace/internal/infrastructure/cache"
	"bookstore-marketplace/internal/infrastructure/database"
	"bookstore-marketplace/internal/infrastructure/email"
	emailJob "bookstore-marketplace/internal/infrastructure/email/job"
	"bookstore-marketplace/internal/infrastructure/events"
	"bookstore-marketplace/internal/infrastructure/queue"
	"bookstore-marketplace/internal/infrastructure/storage"
	"bookstore-marketplace/pkg/cache"
	"bookstore-marketplace/pkg/jwt"
)

const cacheKeyPrefix = "bookstore"

// Container giữ toàn bộ dependencies của app, dùng chung cho cmd/api và cmd/worker
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	AsynqClient *asynq.Client
	Publisher   events.Publisher
	Storage     *storage.MinIOStorage
	Processor   *storage.ImageProcessor
	Gateway     gateway.Gateway
	Email       email.EmailService

	// Repositories
	UserRepo    user.Repository
	BookRepo    bookRepo.RepositoryInterface
	OrderRepo   orderRepo.RepositoryInterface
	PaymentRepo paymentRepo.Repository
	StatsRepo   statsRepo.RepositoryInterface

	// Services
	UserService    user.Service
	BookService    bookService.ServiceInterface
	CoverService   bookService.CoverServiceInterface
	OrderService   orderService.OrderService
	PaymentService paymentService.PaymentService
	StatsService   statsService.StatsService

	// Handlers
	UserHandler    *userHandler.UserHandler
	BookHandler    *bookHandler.Handler
	OrderHandler   *orderHandler.OrderHandler
	PaymentHandler *paymentHandler.PaymentHandler
	StatsHandler   *statsHandler.StatsHandler

	// Email job cần tra người nhận qua user repo
	Recipients emailJob.RecipientResolver
}

// NewContainer khởi tạo theo thứ tự: config → infra → repo → service → handler
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIG
	// ========================================
	log.Println("📝 Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// ========================================
	// STEP 2: CONNECT DATABASE
	// ========================================
	log.Println("🐘 Connecting to PostgreSQL...")
	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// ========================================
	// STEP 3: INITIALIZE INFRASTRUCTURE
	// ========================================
	log.Println("🔴 Connecting to Redis...")
	c.Redis = infraCache.NewRedisClient(cfg.Redis)
	if err := c.Redis.Connect(ctx); err != nil {
		// Redis lỗi không critical cho cache, repo tự fallback về DB
		log.Printf("⚠️  Redis connection failed (non-critical): %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client, cacheKeyPrefix)

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)
	c.AsynqClient = queue.NewClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	c.Publisher = events.NewPublisher(cfg.Kafka)
	c.Processor = storage.NewImageProcessor()
	c.Gateway = newGateway(cfg.Razorpay)
	c.Email = email.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)

	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		// Không có MinIO thì upload cover trả lỗi, các API khác vẫn chạy
		log.Printf("⚠️  MinIO unavailable (non-critical): %v", err)
	} else {
		c.Storage = minioStorage
		log.Println("✅ MinIO connected")
	}

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	log.Println("📦 Initializing repositories...")
	c.initRepositories()
	log.Println("✅ Repositories initialized")

	// ========================================
	// STEP 5: INITIALIZE SERVICES
	// ========================================
	log.Println("⚙️  Initializing services...")
	c.initServices()
	log.Println("✅ Services initialized")

	// ========================================
	// STEP 6: INITIALIZE HANDLERS
	// ========================================
	log.Println("🎯 Initializing handlers...")
	c.initHandlers()
	log.Println("✅ Handlers initialized")

	log.Println("🎉 DI Container initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool, c.Cache)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.OrderRepo = orderRepo.NewPostgresRepository(pool)
	c.PaymentRepo = paymentRepo.NewPostgresRepository(pool)
	c.StatsRepo = statsRepo.NewPostgresRepository(pool)

	c.Recipients = &userRecipients{users: c.UserRepo}
}

func (c *Container) initServices() {
	// ----------------------------------------
	// USER SERVICE
	// ----------------------------------------
	// Wishlist populate sách qua book repo
	c.UserService = userService.NewUserService(c.UserRepo, c.BookRepo, c.JWTManager)

	// ----------------------------------------
	// BOOK + COVER SERVICE
	// ----------------------------------------
	c.BookService = bookService.NewService(c.BookRepo, c.Cache, c.AsynqClient)

	// interface nil khi MinIO không sẵn sàng (tránh typed-nil)
	var objects bookService.ObjectStorage
	if c.Storage != nil {
		objects = c.Storage
	}
	c.CoverService = bookService.NewCoverService(c.BookRepo, objects, c.Processor, c.Cache, c.AsynqClient)

	// ----------------------------------------
	// ORDER SERVICE
	// ----------------------------------------
	// Cross-domain: snapshot giá từ book repo
	c.OrderService = orderService.NewOrderService(c.OrderRepo, c.BookRepo, c.Publisher)

	// ----------------------------------------
	// PAYMENT SERVICE
	// ----------------------------------------
	c.PaymentService = paymentService.NewPaymentService(
		c.PaymentRepo,
		c.Gateway,
		c.OrderRepo, // Cross-domain: kiểm tra order trước khi tạo intent
		c.Publisher,
		c.AsynqClient,
		paymentService.Options{
			Currency:  c.Config.Payment.Currency,
			IntentTTL: c.Config.Payment.IntentTTL,
		},
	)

	c.StatsService = statsService.NewStatsService(c.StatsRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.BookHandler = bookHandler.NewHandler(c.BookService, c.CoverService)
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)
	c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
	c.StatsHandler = statsHandler.NewStatsHandler(c.StatsService)
}

// newGateway chọn Razorpay thật hoặc mock (local dev)
func newGateway(cfg config.RazorpayConfig) gateway.Gateway {
	if cfg.UseMock {
		log.Println("⚠️  Using mock Razorpay gateway")
		return mockGateway.NewMockRazorpayGateway(cfg.KeySecret)
	}
	return razorpay.NewClient(cfg)
}

// ========================================
// ADAPTERS
// ========================================

// userRecipients adapt user.Repository sang emailJob.RecipientResolver
type userRecipients struct {
	users user.Repository
}

func (r *userRecipients) ResolveRecipient(ctx context.Context, userID uuid.UUID) (*emailJob.Recipient, error) {
	u, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, emailJob.ErrRecipientNotFound
		}
		return nil, err
	}
	return &emailJob.Recipient{Email: u.Email, Username: u.Username}, nil
}

// ========================================
// LIFECYCLE
// ========================================

// Cleanup đóng resources khi shutdown
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container resources...")

	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			log.Printf("⚠️  Failed to close event publisher: %v", err)
		}
	}

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Failed to close asynq client: %v", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Printf("⚠️  Failed to close Redis: %v", err)
		} else {
			log.Println("✅ Redis connections closed")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Println("✅ Database connections closed")
	}

	log.Println("✅ Container cleanup completed")
}
