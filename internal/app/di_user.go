package app

import (
	"fmt"
	"sync"

	outboxRepository "github.com/allisson/accounts/internal/outbox/repository"
	outboxUsecase "github.com/allisson/accounts/internal/outbox/usecase"
	userHTTP "github.com/allisson/accounts/internal/user/http"
	userRepository "github.com/allisson/accounts/internal/user/repository"
	userUsecase "github.com/allisson/accounts/internal/user/usecase"
)

// userComponents holds the lazily initialized user management components.
type userComponents struct {
	repo       userUsecase.UserRepository
	outboxRepo outboxUsecase.OutboxEventRepository
	useCase    userUsecase.UseCase
	handler    *userHTTP.UserHandler

	repoInit       sync.Once
	outboxRepoInit sync.Once
	useCaseInit    sync.Once
	handlerInit    sync.Once
}

// UserRepository returns the user repository matching the configured driver.
func (c *Container) UserRepository() (userUsecase.UserRepository, error) {
	c.users.repoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		c.users.repo = repo
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.users.repo, nil
}

// OutboxRepository returns the outbox event repository matching the configured driver.
func (c *Container) OutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	c.users.outboxRepoInit.Do(func() {
		repo, err := c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
			return
		}
		c.users.outboxRepo = repo
	})
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.users.outboxRepo, nil
}

// UserUseCase returns the user use case wrapped with metrics instrumentation.
func (c *Container) UserUseCase() (userUsecase.UseCase, error) {
	c.users.useCaseInit.Do(func() {
		useCase, err := c.initUserUseCase()
		if err != nil {
			c.initErrors["userUseCase"] = err
			return
		}
		c.users.useCase = useCase
	})
	if storedErr, exists := c.initErrors["userUseCase"]; exists {
		return nil, storedErr
	}
	return c.users.useCase, nil
}

// UserHandler returns the user HTTP handler.
func (c *Container) UserHandler() (*userHTTP.UserHandler, error) {
	c.users.handlerInit.Do(func() {
		useCase, err := c.UserUseCase()
		if err != nil {
			c.initErrors["userHandler"] = fmt.Errorf("failed to get user use case for user handler: %w", err)
			return
		}
		c.users.handler = userHTTP.NewUserHandler(useCase, c.Translator(), c.Logger())
	})
	if storedErr, exists := c.initErrors["userHandler"]; exists {
		return nil, storedErr
	}
	return c.users.handler, nil
}

// initUserRepository creates the user repository based on the database driver.
func (c *Container) initUserRepository() (userUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return userRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return userRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOutboxRepository creates the outbox event repository based on the database driver.
func (c *Container) initOutboxRepository() (outboxUsecase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	case "postgres":
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (userUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for user use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := userUsecase.NewUserUseCase(txManager, userRepo, outboxRepo)
	return userUsecase.NewUseCaseWithMetrics(useCase, businessMetrics), nil
}
