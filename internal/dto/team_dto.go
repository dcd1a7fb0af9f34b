package dto

type TeamMemberRequest struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Tel             string `json:"tel" validate:"max=50"`
	Email           string `json:"email" validate:"required,email,max=255"`
	Pin             string `json:"pin" validate:"required,min=4,max=20"`
	Role            string `json:"role" validate:"max=100"`
	ProfileImageURL string `json:"profile_image_url"`
}
