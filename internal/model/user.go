package model

type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStaff    UserRole = "staff"
	UserRoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Name          string   `db:"name" json:"name"`
	Email         string   `db:"email" json:"email"`
	PasswordHash  string   `db:"password_hash" json:"-"`
	ContactNumber string   `db:"contact_number" json:"contact_number,omitempty"`
	Role          UserRole `db:"role" json:"role"`
}

type CreateUserRequest struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=8"`
	ContactNumber string   `json:"contact_number"`
	Role          UserRole `json:"role" binding:"omitempty,oneof=customer staff admin"`
}
