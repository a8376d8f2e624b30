package apiclient

type User struct {
	FirstName string `json:"firstName"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

type LoginResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message,omitempty"`
}

type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type Metrics struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveFarmers int `json:"activeFarmers"`
	ActiveBuyers  int `json:"activeBuyers"`
	OrdersToday   int `json:"ordersToday"`
}
