package repository

import (
	"time"

	"github.com/armonia-music/pos-backend/internal/auth/domain"
)

// SeedUsers is the demo user directory installed the first time the store
// runs with an empty backend. The employee entries match the predefined
// login accounts.
func SeedUsers() []Record {
	registered := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	return []Record{
		{User: domain.User{
			ID:        "USR-1",
			Name:      "admin",
			Email:     "admin@armonia-music.mx",
			Phone:     "5551000001",
			Role:      domain.RoleAdmin,
			Active:    true,
			CreatedAt: registered,
		}},
		{User: domain.User{
			ID:        "USR-2",
			Name:      "vendedor",
			Email:     "ventas@armonia-music.mx",
			Phone:     "5551000002",
			Role:      domain.RoleSeller,
			Active:    true,
			CreatedAt: registered,
		}},
		{User: domain.User{
			ID:        "USR-3",
			Name:      "inventario",
			Email:     "almacen@armonia-music.mx",
			Phone:     "5551000003",
			Role:      domain.RoleInventory,
			Active:    true,
			CreatedAt: registered,
		}},
		{User: domain.User{
			ID:        "USR-4",
			Name:      "María García",
			Email:     "maria.garcia@example.com",
			Phone:     "5552000004",
			Role:      domain.RoleCustomer,
			Active:    true,
			CreatedAt: registered.AddDate(0, 1, 0),
		}},
	}
}
