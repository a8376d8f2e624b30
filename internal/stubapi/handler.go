// Package stubapi serves the upstream marketplace endpoints from the local
// user directory, for development and end-to-end tests.
package stubapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/auth"
	"farmer-market-web/internal/form"
	"farmer-market-web/internal/logger"
	"farmer-market-web/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register mounts every upstream endpoint on r.
func Register(r gin.IRouter, svc user.Service) {
	users := r.Group("/api/users")
	{
		users.POST("/login", login(svc))
		users.POST("/register/farmer", registerFarmer(svc))
		users.POST("/register/buyer", registerBuyer(svc))
		users.POST("/forgot-password", forgotPassword(svc))
		users.POST("/reset-password", resetPassword(svc))
		users.PUT("/settings", requireUser(svc), updateSettings(svc))
	}
	r.GET("/api/system/metrics", metrics(svc))
	r.POST("/api/support", support(svc))
}

func message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}

func login(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in form.SignIn
		if err := c.ShouldBindJSON(&in); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		token, u, err := svc.Login(c.Request.Context(), in.PhoneNumber, in.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				message(c, http.StatusUnauthorized, "Invalid phone number or password")
				return
			}
			message(c, http.StatusInternalServerError, "Login failed")
			return
		}

		c.JSON(http.StatusOK, apiclient.LoginResponse{
			Token: token,
			User:  apiclient.User{FirstName: u.FirstName, Phone: u.Phone, Role: string(u.Role)},
		})
	}
}

// registerError maps directory errors to the conflict messages the sign-up
// pages show.
func registerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrPhoneExists):
		message(c, http.StatusConflict, "Phone number already registered")
	case errors.Is(err, user.ErrEmailExists):
		message(c, http.StatusConflict, "Email already registered")
	default:
		logger.FromCtx(c.Request.Context()).Error("registration failed", zap.Error(err))
		message(c, http.StatusInternalServerError, "Server error occurred")
	}
}

func registerFarmer(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in form.FarmerSignUp
		if err := c.ShouldBindJSON(&in); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			message(c, http.StatusBadRequest, err.Error())
			return
		}

		_, err := svc.RegisterFarmer(c.Request.Context(), user.FarmerInput{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Phone:     in.PhoneNumber,
			Email:     in.Email,
			Password:  in.Password,
		})
		if err != nil {
			registerError(c, err)
			return
		}
		message(c, http.StatusCreated, "Farmer registered successfully")
	}
}

func registerBuyer(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in form.BuyerPayload
		if err := c.ShouldBindJSON(&in); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if in.FullName == "" || in.PhoneNumber == "" || in.Password == "" {
			message(c, http.StatusBadRequest, "All fields are required!")
			return
		}

		_, err := svc.RegisterBuyer(c.Request.Context(), user.BuyerInput{
			FullName: in.FullName,
			Phone:    in.PhoneNumber,
			Email:    in.Email,
			Password: in.Password,
		})
		if err != nil {
			registerError(c, err)
			return
		}
		message(c, http.StatusCreated, "Account created successfully 🎉")
	}
}

func forgotPassword(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in apiclient.EmailRequest
		if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.Email) == "" {
			c.JSON(http.StatusBadRequest, apiclient.StatusResponse{Message: "Email is required"})
			return
		}

		if _, err := svc.ForgotPassword(c.Request.Context(), in.Email); err != nil {
			if errors.Is(err, user.ErrNotFound) {
				c.JSON(http.StatusOK, apiclient.StatusResponse{Message: "Email not found. Please try again."})
				return
			}
			c.JSON(http.StatusInternalServerError, apiclient.StatusResponse{Message: "Could not send OTP"})
			return
		}
		c.JSON(http.StatusOK, apiclient.StatusResponse{Success: true, Message: "OTP sent to your email"})
	}
}

func resetPassword(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in form.ResetPassword
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, apiclient.StatusResponse{Message: "Invalid request body"})
			return
		}
		if err := in.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, apiclient.StatusResponse{Message: err.Error()})
			return
		}

		if err := svc.ResetPassword(c.Request.Context(), in.Email, in.OTP, in.NewPassword); err != nil {
			if errors.Is(err, user.ErrInvalidOTP) {
				c.JSON(http.StatusOK, apiclient.StatusResponse{Message: "Invalid OTP or email."})
				return
			}
			c.JSON(http.StatusInternalServerError, apiclient.StatusResponse{Message: "Reset failed."})
			return
		}
		c.JSON(http.StatusOK, apiclient.StatusResponse{Success: true, Message: "Password reset successful"})
	}
}

const ctxUser = "user"

// requireUser resolves the bearer token and stores the user under ctxUser.
func requireUser(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractAccessToken(c.Request)
		if token == "" {
			message(c, http.StatusUnauthorized, "Authorization header is missing")
			c.Abort()
			return
		}

		u, err := svc.Authenticate(c.Request.Context(), token)
		if err != nil {
			message(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ctxUser, u)
		c.Next()
	}
}

func updateSettings(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := c.MustGet(ctxUser).(user.User)

		var in form.SettingsPayload
		if err := c.ShouldBindJSON(&in); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		_, err := svc.UpdateSettings(c.Request.Context(), u.Phone, user.SettingsInput{
			FullName:        in.FullName,
			Phone:           in.PhoneNumber,
			CurrentPassword: in.CurrentPassword,
			NewPassword:     in.NewPassword,
		})
		switch {
		case errors.Is(err, user.ErrWrongPassword):
			message(c, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, user.ErrPhoneExists):
			message(c, http.StatusConflict, "Phone number already registered")
		case err != nil:
			message(c, http.StatusInternalServerError, "Failed to update settings")
		default:
			message(c, http.StatusOK, "Settings updated successfully ✅")
		}
	}
}

func metrics(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		counts, err := svc.Counts(c.Request.Context())
		if err != nil {
			message(c, http.StatusInternalServerError, "Failed to load metrics")
			return
		}
		c.JSON(http.StatusOK, apiclient.Metrics{
			TotalUsers:    counts.Total,
			ActiveFarmers: counts.Farmers,
			ActiveBuyers:  counts.Buyers,
		})
	}
}

func support(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in form.Support
		if err := c.ShouldBindJSON(&in); err != nil {
			message(c, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := in.Validate(); err != nil {
			message(c, http.StatusBadRequest, err.Error())
			return
		}

		err := svc.SubmitTicket(c.Request.Context(), user.Ticket{
			Name:    in.Name,
			Email:   in.Email,
			Subject: in.Subject,
			Message: in.Message,
		})
		if err != nil {
			message(c, http.StatusInternalServerError, "Failed to submit request. Try again.")
			return
		}
		message(c, http.StatusCreated, "Your support request has been submitted ✅")
	}
}

// NewEngine builds a gin engine with the stub routes and request logging.
func NewEngine(svc user.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLog())
	Register(r, svc)
	return r
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.FromCtx(c.Request.Context()).Info("stub api request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
