package domain

import "time"

type Role string

const (
	RoleAdmin     Role = "Administrador"
	RoleSeller    Role = "Vendedor"
	RoleInventory Role = "Inventario"
	RoleCustomer  Role = "Cliente"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRequest is the admin user-management payload, used for both create and
// update. A nil Active defaults to true on create and keeps the stored value
// on update.
type UserRequest struct {
	Name   string `json:"name" binding:"required,min=2,max=50"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone" binding:"required,len=10,numeric"`
	Role   Role   `json:"role" binding:"required,oneof=Administrador Vendedor Inventario Cliente"`
	Active *bool  `json:"active"`
}

// RegisterRequest is the public customer sign-up form.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	LastName string `json:"last_name" binding:"required,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required,len=10,numeric"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest covers both account types: customers identify themselves by
// name only, employees authenticate against the predefined accounts.
type LoginRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=50"`
	Password string `json:"password"`
	Type     string `json:"type" binding:"required,oneof=Cliente Empleado"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// LoginBlock is the persisted failed-attempt counter behind the temporary
// lockout.
type LoginBlock struct {
	Timestamp time.Time `json:"timestamp"`
	Attempts  int       `json:"attempts"`
}
