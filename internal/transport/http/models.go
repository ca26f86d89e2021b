package http

import (
	"time"

	"github.com/njprem/Travel_planner_APP_BackEnd/internal/domain"
	"github.com/njprem/Travel_planner_APP_BackEnd/internal/service"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"destination not found"`
}

type RegisterRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Username string `json:"username" example:"wanderer"`
	Password string `json:"password" example:"StrongPass!23"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token"`
}

type AuthUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     *string   `json:"username,omitempty"`
	FullName     *string   `json:"full_name,omitempty"`
	UserImageURL *string   `json:"user_image_url,omitempty"`
	Roles        []string  `json:"roles"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuthTokenResponse struct {
	Token     string   `json:"token"`
	ExpiresAt string   `json:"expires_at"`
	User      AuthUser `json:"user"`
}

func buildAuthUser(u *domain.User) AuthUser {
	return AuthUser{
		ID:           u.ID.String(),
		Email:        u.Email,
		Username:     u.Username,
		FullName:     u.FullName,
		UserImageURL: u.ImageURL,
		Roles:        u.RoleNames(),
		Admin:        u.IsAdmin(),
		CreatedAt:    u.CreatedAt,
	}
}

// DestinationRequest is the body of destination create and update. Absent
// fields are left unchanged on update.
type DestinationRequest struct {
	Name           *string  `json:"name" example:"Machu Picchu"`
	TypeID         *int64   `json:"type_id" example:"3"`
	District       *string  `json:"district"`
	Latitude       *float64 `json:"latitude" example:"-13.1631"`
	Longitude      *float64 `json:"longitude" example:"-72.5450"`
	CountryID      *int64   `json:"country_id" example:"172"`
	IsPublic       *bool    `json:"is_public" example:"true"`
	TravellerTypes []int64  `json:"traveller_types"`
}

func (r DestinationRequest) input() service.DestinationInput {
	return service.DestinationInput{
		Name:           r.Name,
		TypeID:         r.TypeID,
		District:       r.District,
		Latitude:       r.Latitude,
		Longitude:      r.Longitude,
		CountryID:      r.CountryID,
		IsPublic:       r.IsPublic,
		TravellerTypes: r.TravellerTypes,
	}
}

type ListMeta struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

type AttachPhotoRequest struct {
	PhotoID string `json:"photo_id"`
}

type ProposalRequest struct {
	TravellerTypes []int64 `json:"traveller_types"`
}

type TripStopRequest struct {
	DestinationID string     `json:"destination_id"`
	ArrivalDate   *time.Time `json:"arrival_date"`
	DepartureDate *time.Time `json:"departure_date"`
}

type TripRequest struct {
	Name         string            `json:"name" example:"Andes loop"`
	Description  *string           `json:"description"`
	Destinations []TripStopRequest `json:"destinations"`
}

// TreasureHuntRequest is the body of treasure hunt create and edit. Dates use
// the yyyy-mm-dd form; absent fields are left unchanged on edit.
type TreasureHuntRequest struct {
	Name          *string `json:"name" example:"Test Hunt"`
	DestinationID *string `json:"destination_id"`
	Riddle        *string `json:"riddle" example:"Where the condor circles"`
	StartDate     *string `json:"start_date" example:"2024-05-01"`
	EndDate       *string `json:"end_date" example:"2024-05-31"`
}
