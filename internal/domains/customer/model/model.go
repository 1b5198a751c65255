package model

import "libraryhub/shared/model"

const (
	TableName  = "customers"
	EntityName = "customer"

	FieldID                   = "id"
	FieldFirstName            = "first_name"
	FieldLastName             = "last_name"
	FieldPhoneNumber          = "phone_number"
	FieldEmail                = "email"
	FieldIdentificationType   = "identification_type"
	FieldIdentificationNumber = "identification_number"
	FieldRole                 = "role"
)

// Customer is a library patron. Email is unique and identifies the caller behind a bearer token.
type Customer struct {
	ID                   int64  `db:"id"                    generated:"true"`
	FirstName            string `db:"first_name"`
	LastName             string `db:"last_name"`
	PhoneNumber          string `db:"phone_number"`
	Email                string `db:"email"`
	IdentificationType   string `db:"identification_type"`
	IdentificationNumber string `db:"identification_number"`
	Role                 string `db:"role"`
	model.Metadata
}
