package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Username  string `json:"username"   validate:"required"`
	Password  string `json:"password"   validate:"required"`
	Email     string `json:"email"      validate:"omitempty,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type meRequest struct {
	Token string `json:"token" validate:"required"`
}

type updateRoleRequest struct {
	Username string `json:"username" validate:"required"`
	NewRole  string `json:"new_role" validate:"required"`
}

type statusResponse struct {
	Message string `json:"message"`
}

type sendMessageRequest struct {
	ReceiverUsername string `json:"receiver_username" validate:"required"`
	Text             string `json:"text"              validate:"required"`
}
