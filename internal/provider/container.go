package provider

import (
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/authz"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/cache"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/config"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/logger"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/models"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/queue"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/repository"
	"github.com/Shatar6/Gereltjin-Cargo-App/internal/service"
)

// Container is the dependency injection container.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	WorkerRepo       repository.WorkerRepository
	OrderRepo        repository.OrderRepository
	OrderHistoryRepo repository.OrderHistoryRepository

	// Services
	AuthzService  *authz.Service
	AuthService   *service.AuthService
	EmailService  *service.EmailService
	UploadService *service.UploadService
	OrderService  *service.OrderService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.WorkerRepo = repository.NewWorkerRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderHistoryRepo = repository.NewOrderHistoryRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.EmailService = service.NewEmailService(&c.Config.Email)
	c.UploadService = service.NewUploadService(c.Config)
	c.AuthService = service.NewAuthService(c.Config, c.WorkerRepo)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.OrderHistoryRepo,
		c.WorkerRepo,
		c.UploadService,
		c.QueueClient,
	)
}
