package app

import (
	"fmt"
	"sync"

	authHTTP "github.com/allisson/accounts/internal/auth/http"
	authService "github.com/allisson/accounts/internal/auth/service"
	authUsecase "github.com/allisson/accounts/internal/auth/usecase"
)

// authComponents holds the lazily initialized authentication components.
type authComponents struct {
	passwordService authService.PasswordService
	tokenService    authService.TokenService
	useCase         authUsecase.UseCase
	handler         *authHTTP.AuthHandler

	passwordServiceInit sync.Once
	tokenServiceInit    sync.Once
	useCaseInit         sync.Once
	handlerInit         sync.Once
}

// PasswordService returns the Argon2id password service.
func (c *Container) PasswordService() (authService.PasswordService, error) {
	c.auth.passwordServiceInit.Do(func() {
		service, err := authService.NewPasswordService()
		if err != nil {
			c.initErrors["passwordService"] = fmt.Errorf("failed to create password service: %w", err)
			return
		}
		c.auth.passwordService = service
	})
	if storedErr, exists := c.initErrors["passwordService"]; exists {
		return nil, storedErr
	}
	return c.auth.passwordService, nil
}

// TokenService returns the JWT token service.
func (c *Container) TokenService() (authService.TokenService, error) {
	c.auth.tokenServiceInit.Do(func() {
		service, err := authService.NewJWTService(c.config.JWTSecret, c.config.AccessTokenExpiration)
		if err != nil {
			c.initErrors["tokenService"] = fmt.Errorf("failed to create token service: %w", err)
			return
		}
		c.auth.tokenService = service
	})
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.auth.tokenService, nil
}

// AuthUseCase returns the auth use case wrapped with metrics instrumentation.
func (c *Container) AuthUseCase() (authUsecase.UseCase, error) {
	c.auth.useCaseInit.Do(func() {
		useCase, err := c.initAuthUseCase()
		if err != nil {
			c.initErrors["authUseCase"] = err
			return
		}
		c.auth.useCase = useCase
	})
	if storedErr, exists := c.initErrors["authUseCase"]; exists {
		return nil, storedErr
	}
	return c.auth.useCase, nil
}

// AuthHandler returns the auth HTTP handler.
func (c *Container) AuthHandler() (*authHTTP.AuthHandler, error) {
	c.auth.handlerInit.Do(func() {
		useCase, err := c.AuthUseCase()
		if err != nil {
			c.initErrors["authHandler"] = fmt.Errorf("failed to get auth use case for auth handler: %w", err)
			return
		}
		c.auth.handler = authHTTP.NewAuthHandler(useCase, c.Translator(), c.Logger())
	})
	if storedErr, exists := c.initErrors["authHandler"]; exists {
		return nil, storedErr
	}
	return c.auth.handler, nil
}

// initAuthUseCase creates the auth use case with all its dependencies.
func (c *Container) initAuthUseCase() (authUsecase.UseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for auth use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for auth use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for auth use case: %w", err)
	}

	passwordService, err := c.PasswordService()
	if err != nil {
		return nil, err
	}

	tokenService, err := c.TokenService()
	if err != nil {
		return nil, err
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}

	useCase := authUsecase.NewAuthUseCase(txManager, userRepo, outboxRepo, passwordService, tokenService)
	return authUsecase.NewUseCaseWithMetrics(useCase, businessMetrics), nil
}
