package httpapi

import (
	"errors"
	"net/http"

	"farmer-market-web/internal/account"
	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/form"

	"github.com/gin-gonic/gin"
)

func registerAccount(g *gin.RouterGroup) {
	g.POST("/signin", submit(func(c *gin.Context, svc *account.Service, f form.SignIn) (account.Result, error) {
		return svc.SignIn(c.Request.Context(), f)
	}))
	g.POST("/register/farmer", submit(func(c *gin.Context, svc *account.Service, f form.FarmerSignUp) (account.Result, error) {
		return svc.RegisterFarmer(c.Request.Context(), f)
	}))
	g.POST("/register/buyer", submit(func(c *gin.Context, svc *account.Service, f form.BuyerRegistration) (account.Result, error) {
		return svc.RegisterBuyer(c.Request.Context(), f)
	}))
	g.POST("/forgot-password", submit(func(c *gin.Context, svc *account.Service, f form.ForgotPassword) (account.Result, error) {
		return svc.ForgotPassword(c.Request.Context(), f)
	}))
	g.POST("/resend-otp", submit(func(c *gin.Context, svc *account.Service, f form.ResendOTP) (account.Result, error) {
		return svc.ResendOTP(c.Request.Context(), f)
	}))
	g.POST("/reset-password", submit(func(c *gin.Context, svc *account.Service, f form.ResetPassword) (account.Result, error) {
		return svc.ResetPassword(c.Request.Context(), f)
	}))
	g.POST("/verify-code", submit(func(c *gin.Context, svc *account.Service, f form.VerificationCode) (account.Result, error) {
		return svc.VerifyCode(c.Request.Context(), f)
	}))
	g.PUT("/settings", submit(func(c *gin.Context, svc *account.Service, f form.Settings) (account.Result, error) {
		return svc.SaveSettings(c.Request.Context(), f)
	}))
	g.POST("/support", submit(func(c *gin.Context, svc *account.Service, f form.Support) (account.Result, error) {
		return svc.SubmitSupport(c.Request.Context(), f)
	}))
	g.POST("/logout", func(c *gin.Context) {
		res, _ := container(c).Account.Logout(c.Request.Context())
		c.JSON(http.StatusOK, res)
	})
}

// submit binds the form and runs fn, mapping its error to a status.
func submit[F any](fn func(*gin.Context, *account.Service, F) (account.Result, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var f F
		if err := c.ShouldBindJSON(&f); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		res, err := fn(c, container(c).Account, f)
		c.JSON(resultStatus(err), res)
	}
}

func resultStatus(err error) int {
	var apiErr *apiclient.APIError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, form.ErrInvalid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, account.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, account.ErrNotAccepted):
		return http.StatusBadRequest
	case apiclient.IsNoResponse(err):
		return http.StatusBadGateway
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status
	}
	return http.StatusBadGateway
}
