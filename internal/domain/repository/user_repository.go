package repository

import "github.com/jmorales/inventario-pos/internal/domain/entity"

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List() ([]*entity.User, error)
	UpdateRole(userID, role string) error
	UpdateName(userID, name string) error
	UpdatePassword(userID, passwordHash string) error
	Delete(id string) error
}
