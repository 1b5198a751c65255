package dto

import (
	"strings"

	"libraryhub/internal/domains/customer/model"
	"libraryhub/shared/constant"
	gDto "libraryhub/shared/dto"
	gModel "libraryhub/shared/model"
	"libraryhub/shared/timezone"
)

type SyncCustomerRequest struct {
	FirstName            string `json:"first_name"            validate:"required,max=100"`
	LastName             string `json:"last_name"             validate:"required,max=100"`
	PhoneNumber          string `json:"phone_number"          validate:"required,max=20"`
	IdentificationType   string `json:"identification_type"   validate:"required,max=50"`
	IdentificationNumber string `json:"identification_number" validate:"required,max=50"`
	Role                 string `json:"role"                  validate:"required,oneof=Customer Author Admin"`
}

// ToModel binds the request to the verified email. Self-registration never grants Admin.
func (s *SyncCustomerRequest) ToModel(email string) model.Customer {
	role := s.Role
	if strings.EqualFold(role, constant.RoleAdmin) {
		role = constant.RoleCustomer
	}

	return model.Customer{
		FirstName:            strings.TrimSpace(s.FirstName),
		LastName:             strings.TrimSpace(s.LastName),
		PhoneNumber:          strings.TrimSpace(s.PhoneNumber),
		Email:                email,
		IdentificationType:   s.IdentificationType,
		IdentificationNumber: s.IdentificationNumber,
		Role:                 role,
		Metadata:             gModel.NewMetadata(timezone.Now(), email),
	}
}

type CustomerResponse struct {
	ID                   int64  `json:"id"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	PhoneNumber          string `json:"phone_number"`
	Email                string `json:"email"`
	IdentificationType   string `json:"identification_type"`
	IdentificationNumber string `json:"identification_number"`
	Role                 string `json:"role"`
	gDto.Metadata
}

func (r *CustomerResponse) FromModel(model model.Customer) {
	r.ID = model.ID
	r.FirstName = model.FirstName
	r.LastName = model.LastName
	r.PhoneNumber = model.PhoneNumber
	r.Email = model.Email
	r.IdentificationType = model.IdentificationType
	r.IdentificationNumber = model.IdentificationNumber
	r.Role = model.Role
	r.Metadata.FromModel(model.Metadata)
}

type SyncCustomerResponse struct {
	Created  bool             `json:"created"`
	Customer CustomerResponse `json:"customer"`
}
