package api

import (
	"net/http"

	"github.com/dmitrymomot/tenancy/handler"
	"github.com/dmitrymomot/tenancy/pkg/auth"
	"github.com/dmitrymomot/tenancy/pkg/logger"
	"github.com/dmitrymomot/tenancy/pkg/ratelimiter"
	"github.com/dmitrymomot/tenancy/pkg/tenant"
	"github.com/dmitrymomot/tenancy/pkg/validator"
)

type registerRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	IsOwner  bool   `json:"is_owner" form:"is_owner"`
}

// register creates a core user, or a tenant user when X-TENANT is set.
func (a *api) register(ctx handler.Context, req registerRequest) handler.Response {
	if _, scoped := tenant.IDFromContext(ctx); scoped {
		u, err := a.tenants.Register(ctx, req.Email, req.Password)
		if err != nil {
			return handler.Fail(err)
		}
		return handler.JSON(newTenantUserResponse(u), handler.WithJSONStatus(http.StatusCreated))
	}

	reg, err := a.core.Register(ctx, req.Email, req.Password, req.IsOwner)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(coreRegistrationResponse{
		User:              newCoreUserResponse(reg.User),
		VerificationToken: reg.VerificationToken,
		tokenResponse:     newTokenResponse(reg.Session),
	}, handler.WithJSONStatus(http.StatusCreated))
}

// loginRequest accepts the OAuth2 password form field "username" as an
// alias of "email".
type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (a *api) login(ctx handler.Context, req loginRequest) handler.Response {
	email := req.Email
	if email == "" {
		email = req.Username
	}
	if err := validator.Apply(
		validator.Required("email", email),
		validator.Required("password", req.Password),
	); err != nil {
		return handler.Fail(err)
	}

	scope := "core"
	tid, scoped := tenant.IDFromContext(ctx)
	if scoped {
		scope = "tenant:" + tid.String()
	}
	if resp := a.throttleLogin(ctx, scope, email); resp != nil {
		return resp
	}

	if scoped {
		s, u, err := a.tenants.Login(ctx, email, req.Password)
		if err != nil {
			return handler.Fail(err)
		}
		return handler.JSON(loginResponse{tokenResponse: newTokenResponse(*s), User: newTenantUserResponse(u)})
	}

	s, u, err := a.core.Login(ctx, email, req.Password)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.JSON(loginResponse{tokenResponse: newTokenResponse(*s), User: newCoreUserResponse(u)})
}

// throttleLogin consumes one attempt from the login bucket. A store failure
// lets the attempt through.
func (a *api) throttleLogin(ctx handler.Context, scope, email string) handler.Response {
	if a.loginLimiter == nil {
		return nil
	}

	key := ratelimiter.Key("login", scope, auth.NormalizeEmail(email))
	result, err := a.loginLimiter.Allow(ctx, key)
	if err != nil {
		a.log.WarnContext(ctx, "login limiter unavailable", logger.Error(err))
		return nil
	}

	ratelimiter.SetHeaders(ctx.ResponseWriter(), result)
	if !result.Allowed() {
		return handler.JSONError(errTooManyAttempts)
	}
	return nil
}

type verifyRequest struct {
	Token string `query:"token"`
}

func (a *api) verify(ctx handler.Context, req verifyRequest) handler.Response {
	already, err := a.core.VerifyEmail(ctx, req.Token)
	if err != nil {
		return handler.Fail(err)
	}
	if already {
		return handler.JSON(messageResponse{Message: "Email already verified"})
	}
	return handler.JSON(messageResponse{Message: "Email verified successfully"})
}
