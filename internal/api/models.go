package api

// Common request/response structures

// PostPayload defines the JSON body accepted by the create and update
// endpoints. All fields are optional at the transport level: create enforces
// the required fields at the domain layer, and update treats absent fields
// as "leave unchanged".
type PostPayload struct {
	UserID *int64  `json:"userId" validate:"omitempty,gt=0"`
	Title  *string `json:"title"  validate:"omitempty,max=100"`
	Body   *string `json:"body"   validate:"omitempty,max=200"`
}

// LoginRequest defines the payload for the token issuing endpoint.
// user_id is the only field; no credential accompanies it.
type LoginRequest struct {
	UserID *int64 `json:"user_id" validate:"required,gt=0"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// DeleteResponse defines the successful response for the delete endpoint.
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// HealthResponse defines the body of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}
