// Package route declares the page table and the access guards that decide,
// for a given session, whether a path renders or redirects.
package route

import (
	"strings"

	"farmer-market-web/internal/session"
)

const (
	PathHome   = "/"
	PathSignIn = "/signin"
)

type Access int

const (
	// Public pages render for everyone.
	Public Access = iota
	// PublicOnly pages bounce signed-in users to their dashboard.
	PublicOnly
	// Guarded pages need a token and, when Roles is set, a matching role.
	Guarded
)

type Route struct {
	Path   string
	Page   string
	Access Access
	Roles  []session.Role
	// Nested matches Path and anything below it ("/x" and "/x/...").
	Nested bool
}

var (
	farmer = []session.Role{session.RoleFarmer}
	buyer  = []session.Role{session.RoleBuyer}
	admin  = []session.Role{session.RoleAdmin}
)

// Table is the application's page table in match order.
var Table = []Route{
	{Path: "/", Page: "Home", Access: Public},
	{Path: "/about", Page: "About", Access: Public},
	{Path: "/contact", Page: "Contact", Access: Public},
	{Path: "/otppage", Page: "OTPPage", Access: Public},
	{Path: "/systempage", Page: "SystemPage", Access: Public},
	{Path: "/supportpage", Page: "SupportPage", Access: Public},
	{Path: "/settingspage", Page: "SettingsPage", Access: Public},

	{Path: "/signin", Page: "SignIn", Access: PublicOnly},
	{Path: "/signup", Page: "SignUp", Access: PublicOnly},
	{Path: "/signuphome", Page: "SignUpHome", Access: PublicOnly},
	{Path: "/createaccount", Page: "CreateAccount", Access: PublicOnly},
	{Path: "/forgot", Page: "ForgotPassword", Access: PublicOnly},

	{Path: "/farmerdashboardnew", Page: "FarmerDashboard", Access: Guarded, Roles: farmer, Nested: true},
	{Path: "/buyerdashboard", Page: "BuyerDashboard", Access: Guarded, Roles: buyer, Nested: true},
	{Path: "/admindashboard", Page: "AdminDashboard", Access: Guarded, Roles: admin, Nested: true},

	{Path: "/businessdetails", Page: "BusinessDetails", Access: Guarded, Roles: farmer},
	{Path: "/verifyd", Page: "VerifyDetails", Access: Guarded, Roles: farmer},
	{Path: "/bankingpayment", Page: "BankingPayment", Access: Guarded, Roles: farmer},
	{Path: "/successpagefarmer", Page: "SuccessPageFarmer", Access: Guarded, Roles: farmer},
	{Path: "/verificationcode", Page: "VerificationCode", Access: Guarded, Roles: buyer},
	{Path: "/successpage", Page: "SuccessPage", Access: Guarded, Roles: buyer},

	{Path: "/marketplace", Page: "Marketplace", Access: Guarded},
	{Path: "/cartpage", Page: "CartPage", Access: Guarded},
	{Path: "/wallet", Page: "Wallet", Access: Guarded},
	{Path: "/paymentdetails", Page: "PaymentDetails", Access: Guarded},
	{Path: "/withdrawal", Page: "Withdrawal", Access: Guarded},
	{Path: "/paymentmethod", Page: "PaymentMethod", Access: Guarded},
	{Path: "/buyerpaymentacceptance", Page: "BuyerPaymentAcceptance", Access: Guarded},
	{Path: "/ordertracking", Page: "OrderTracking", Access: Guarded},
}

// SetupPaths are reachable without a token while registration is incomplete.
var SetupPaths = map[string]struct{}{
	"/businessdetails":   {},
	"/verifyd":           {},
	"/bankingpayment":    {},
	"/successpagefarmer": {},
	"/verificationcode":  {},
	"/successpage":       {},
	"/forgot":            {},
	"/otppage":           {},
}

// IsSetupPath reports whether path is on the registration allow-list.
func IsSetupPath(path string) bool {
	_, ok := SetupPaths[normalize(path)]
	return ok
}

// DashboardFor returns the dashboard root for role, or "" when the role has
// no dashboard.
func DashboardFor(role session.Role) string {
	switch role {
	case session.RoleFarmer:
		return "/farmerdashboardnew"
	case session.RoleBuyer:
		return "/buyerdashboard"
	case session.RoleAdmin:
		return "/admindashboard"
	}
	return ""
}

// Match finds the route for path. Exact paths win over nested prefixes.
func Match(path string) (Route, bool) {
	p := normalize(path)
	for _, r := range Table {
		if r.Path == p {
			return r, true
		}
	}
	for _, r := range Table {
		if r.Nested && strings.HasPrefix(p, r.Path+"/") {
			return r, true
		}
	}
	return Route{}, false
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return strings.ToLower(path)
}
