// Package auth signs the storefront in and out against the backend and keeps
// the state container, the access-token cookie and persisted state in step.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/internal/store"
	"github.com/angelmondragon/storefront/internal/users"
	pkgauth "github.com/angelmondragon/storefront/pkg/auth"
	"github.com/angelmondragon/storefront/pkg/auth/cookie"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/storeapi"
	"github.com/angelmondragon/storefront/pkg/types"
	"go.uber.org/multierr"
)

const missingCredentialsMessage = "username and password are required"

type credentials interface {
	Set(ctx context.Context, token string) (cookie.Cookie, error)
	Token(ctx context.Context) (string, error)
	Remove(ctx context.Context) error
}

type purger interface {
	PurgeOnLogout(ctx context.Context) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	API       storeapi.Requester
	Cookies   credentials
	Store     *store.Container
	Persistor purger
	Users     users.Service
	Orders    orders.Service
	Logger    *logger.Logger
}

type Service struct {
	api       storeapi.Requester
	cookies   credentials
	store     *store.Container
	persistor purger
	users     users.Service
	orders    orders.Service
	logg      *logger.Logger
	now       func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.API == nil {
		return nil, fmt.Errorf("api client is required")
	}
	if params.Cookies == nil {
		return nil, fmt.Errorf("cookie manager is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("state container is required")
	}
	if params.Persistor == nil {
		return nil, fmt.Errorf("persistor is required")
	}
	if params.Users == nil || params.Orders == nil {
		return nil, fmt.Errorf("users and orders services are required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		api:       params.API,
		cookies:   params.Cookies,
		store:     params.Store,
		persistor: params.Persistor,
		users:     params.Users,
		orders:    params.Orders,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// Login posts the credentials, stores the returned token as the access
// cookie and puts the user into the session. Nothing changes on failure.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, missingCredentialsMessage)
	}

	var resp loginResponse
	if err := s.api.Do(ctx, storeapi.Request{Method: http.MethodPost, Path: "auth/login", Body: req}, &resp); err != nil {
		return nil, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response carried no token")
	}

	c, err := s.cookies.Set(ctx, resp.Token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "store access token")
	}
	s.store.Dispatch(session.SetUser{User: resp.User})

	s.logg.Info(s.logg.WithUserID(ctx, strconv.FormatInt(resp.User.ID, 10)), "auth.login")
	return &LoginResult{Message: resp.Message, User: resp.User, Cookie: c}, nil
}

// Logout drops the cookie, resets the state and purges what was persisted.
// The in-memory state is always signed out, even when storage fails.
func (s *Service) Logout(ctx context.Context) error {
	var errs error
	if err := s.cookies.Remove(ctx); err != nil {
		errs = multierr.Append(errs, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "remove access token"))
	}
	s.store.Dispatch(store.Reset{})
	if err := s.persistor.PurgeOnLogout(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		s.logg.WarnErr(ctx, "auth.logout incomplete", errs)
		return errs
	}
	s.logg.Info(ctx, "auth.logout")
	return nil
}

// Register creates a USER account. It does not sign the visitor in.
func (s *Service) Register(ctx context.Context, input users.RegisterPayload) (*users.User, error) {
	return s.users.Register(ctx, input)
}

// Me returns the signed-in user.
func (s *Service) Me() (*session.User, error) {
	u := s.store.Snapshot().Session.User
	if u == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not signed in")
	}
	return u, nil
}

// Verify checks the stored access token. An expired, missing or undecodable
// token while a user is in session signs the session out.
func (s *Service) Verify(ctx context.Context) (*pkgauth.Claims, error) {
	token, err := s.cookies.Token(ctx)
	if err != nil && !errors.Is(err, cookie.ErrNoCredential) {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load access token")
	}
	var claims *pkgauth.Claims
	if err == nil {
		claims, err = pkgauth.ParseActiveClaims(token, s.now())
	}
	if err != nil {
		if s.store.Snapshot().Session.Authenticated() {
			s.logg.Info(s.logg.WithField(ctx, "reason", err.Error()), "session expired")
			if logoutErr := s.Logout(ctx); logoutErr != nil {
				s.logg.WarnErr(ctx, "logout after expiry failed", logoutErr)
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session expired, please sign in again")
	}
	return claims, nil
}

// ProfileOrders lists the signed-in user's orders.
func (s *Service) ProfileOrders(ctx context.Context, params orders.ListParams) (types.Page[orders.Order], error) {
	u, err := s.Me()
	if err != nil {
		return types.Page[orders.Order]{}, err
	}
	return s.orders.ListByUser(ctx, u.ID, params)
}
