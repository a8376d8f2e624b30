package form

import "strings"

type SignIn struct {
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
}

func (f SignIn) Validate() error {
	return Chain(
		Required("All fields are required!", f.PhoneNumber, f.Password),
		MinLength("password", f.Password, MinPasswordLength, "Password must be at least 6 characters."),
		Phone("phoneNumber", f.PhoneNumber, "Phone number must be 10–15 digits."),
	)
}

type FarmerSignUp struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// Validate stops at the first failing rule, in the order the sign-up page
// reports them.
func (f FarmerSignUp) Validate() error {
	return Chain(
		Required("All fields are required!",
			f.FirstName, f.LastName, f.PhoneNumber, f.Email, f.Password, f.ConfirmPassword),
		Accepted("agreeToTerms", f.AgreeToTerms, "You must accept the Terms of Use!"),
		MinLength("password", f.Password, MinPasswordLength, "Password must be at least 6 characters."),
		Equal("confirmPassword", f.Password, f.ConfirmPassword, "Passwords do not match!"),
		Phone("phoneNumber", f.PhoneNumber, "Phone number must be 10–15 digits."),
		Email("email", f.Email, "Please enter a valid email address."),
	)
}

type BuyerRegistration struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	State           string `json:"state"`
	LGA             string `json:"lga"`
	BusinessName    string `json:"businessName,omitempty"`
	BusinessType    string `json:"businessType,omitempty"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

// BuyerRegistrationMessage is shown when any field fails.
const BuyerRegistrationMessage = "Please fix the highlighted errors"

// Validate reports every failing field at once.
func (f BuyerRegistration) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.FullName) == "" {
		errs["fullName"] = "Full name is required"
	}
	if !ValidPhone(f.PhoneNumber) {
		errs["phoneNumber"] = "Enter a valid phone number (10-15 digits)"
	}
	if !ValidEmail(f.Email) {
		errs["email"] = "Enter a valid email address"
	}
	if len([]rune(f.Password)) < MinPasswordLength {
		errs["password"] = "Password must be at least 6 characters"
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	if f.State == "" {
		errs["state"] = "Please select your state"
	}
	if f.LGA == "" {
		errs["lga"] = "Please select your LGA"
	}
	if !f.AgreeToTerms {
		errs["agreeToTerms"] = "You must agree to the Terms of Use"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// BuyerPayload is what the registration endpoint receives.
type BuyerPayload struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	AgreeToTerms    bool   `json:"agreeToTerms"`
}

func (f BuyerRegistration) Payload() BuyerPayload {
	return BuyerPayload{
		FullName:        f.FullName,
		PhoneNumber:     f.PhoneNumber,
		Email:           f.Email,
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
		AgreeToTerms:    f.AgreeToTerms,
	}
}

type ForgotPassword struct {
	Email string `json:"email"`
}

func (f ForgotPassword) Validate() error {
	return Chain(RequiredTrimmed("Please enter your email address.", f.Email))
}

type ResetPassword struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (f ResetPassword) Validate() error {
	return Chain(
		RequiredTrimmed("Please fill in all fields.", f.Email, f.OTP, f.NewPassword),
		Matches("otp", codePattern, f.OTP, "OTP must be exactly 6 digits."),
		MinLength("newPassword", f.NewPassword, MinPasswordLength, "Password must be at least 6 characters long."),
	)
}

// ResendOTP needs only the email the code goes to.
type ResendOTP struct {
	Email string `json:"email"`
}

func (f ResendOTP) Validate() error {
	return Chain(RequiredTrimmed("Please enter your email address first.", f.Email))
}

type VerificationCode struct {
	Code string `json:"code"`
}

func (f VerificationCode) Validate() error {
	return Chain(Matches("code", codePattern, f.Code, "Please enter all 6 digits."))
}

type Support struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f Support) Validate() error {
	return Chain(Required("Please fill in all fields.", f.Name, f.Email, f.Subject, f.Message))
}

type Settings struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
	Notifications   bool   `json:"notifications"`
}

type SettingsPayload struct {
	FullName        string `json:"fullName"`
	PhoneNumber     string `json:"phoneNumber"`
	NewPassword     string `json:"newPassword,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
}

// Payload includes the password change only when the new password is set
// and confirmed.
func (f Settings) Payload() SettingsPayload {
	p := SettingsPayload{FullName: f.FullName, PhoneNumber: f.PhoneNumber}
	if f.NewPassword != "" && f.NewPassword == f.ConfirmPassword {
		p.NewPassword = f.NewPassword
		p.CurrentPassword = f.CurrentPassword
	}
	return p
}
