package echoapi

import (
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}

type LoginResponse struct {
	Token string `json:"token"`
}

type RegisterResponse struct {
	Token string        `json:"token"`
	User  user.Response `json:"user"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

// AnswersResponse echoes back the answers as they were recorded, blank-filled
// and re-ordered to the item's question order.
type AnswersResponse struct {
	Answers []user.Answer `json:"answers"`
}
