package domain

// User represents the authenticated user as returned by the server
type User struct {
	ID          int64     `json:"userId"`
	Name        string    `json:"name"`
	HasBall     bool      `json:"hasBall"`
	LocationLat float64   `json:"locationLat"`
	LocationLng float64   `json:"locationLng"`
	CreatedAt   Instant   `json:"createdAt"`
}

// Location is a WGS84 coordinate pair
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LoginRequest is the payload for the login endpoint.
// The client sends its current (or fallback) coordinates along with the
// credentials so the server can record the user's last known position.
type LoginRequest struct {
	Name        string  `json:"name"`
	Password    string  `json:"password"`
	LocationLat float64 `json:"locationLat"`
	LocationLng float64 `json:"locationLng"`
}

// SignupRequest is the payload for the signup endpoint
type SignupRequest struct {
	Name        string  `json:"name"`
	Password    string  `json:"password"`
	HasBall     bool    `json:"hasBall"`
	LocationLat float64 `json:"locationLat"`
	LocationLng float64 `json:"locationLng"`
}

// LoginResponse carries the bearer token and the user snapshot
type LoginResponse struct {
	Message     string    `json:"message"`
	Token       string    `json:"token"`
	UserID      int64     `json:"userId"`
	Name        string    `json:"name"`
	HasBall     bool      `json:"hasBall"`
	LocationLat float64   `json:"locationLat"`
	LocationLng float64   `json:"locationLng"`
	CreatedAt   Instant   `json:"createdAt"`
}

// User converts the login response into a User snapshot
func (r *LoginResponse) User() User {
	return User{
		ID:          r.UserID,
		Name:        r.Name,
		HasBall:     r.HasBall,
		LocationLat: r.LocationLat,
		LocationLng: r.LocationLng,
		CreatedAt:   r.CreatedAt,
	}
}
