package api

// ErrorResponse is the standardized error payload returned by all
// handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse is a simple acknowledgement payload for operations that
// return no resource body.
type SuccessResponse struct {
	Message string `json:"message"`
}

// InviteCodeResponse carries a freshly generated invite code.
type InviteCodeResponse struct {
	InviteCode string `json:"inviteCode"`
}
