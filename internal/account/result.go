package account

import "farmer-market-web/internal/form"

// Fixed next routes.
const (
	NextBusinessDetails  = "/businessdetails"
	NextVerificationCode = "/verificationcode"
	NextOTPPage          = "/otppage"
	NextSignIn           = "/signin"
	NextSuccessPage      = "/successpage"
	NextHome             = "/"
)

// Result is what a flow hands back to the page. Next is empty on failure.
type Result struct {
	Next        string           `json:"next,omitempty"`
	Message     string           `json:"message,omitempty"`
	FieldErrors form.FieldErrors `json:"fieldErrors,omitempty"`
	// Email is carried from the forgot-password page to the OTP page.
	Email string `json:"email,omitempty"`
}

// Failure and success messages per flow.
const (
	msgSignInFailed = "Login failed"

	msgServerError = "Server error occurred"
	msgNoResponse  = "No response from server. Check your connection."
	msgBuyerDone   = "Account created successfully 🎉"

	msgOTPSent        = "OTP sent successfully. Redirecting..."
	msgEmailNotFound  = "Email not found. Please try again."
	msgForgotFailed   = "Verification failed."
	msgSomethingWrong = "Something went wrong. Try again later."

	msgResetDone    = "✅ Password reset successful! Redirecting to Sign In..."
	msgResetInvalid = "Invalid OTP or email."
	msgResetFailed  = "Reset failed."

	msgResent        = "✅ OTP resent successfully!"
	msgResendInvalid = "Failed to resend OTP."
	msgResendFailed  = "Could not resend OTP."
	msgResendWrong   = "Something went wrong while resending OTP."

	msgVerified = "Verification successful!"

	msgSettingsSaved  = "Settings updated successfully ✅"
	msgSettingsFailed = "Failed to update settings"

	msgSupportSent   = "Your support request has been submitted ✅"
	msgSupportFailed = "Failed to submit request. Try again."
)
