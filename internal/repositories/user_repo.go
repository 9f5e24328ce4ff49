package repositories

import (
	"esport-events-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "get user by email")
	}
	return &user, nil
}

func (r *userRepo) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err, "get user by username")
	}
	return &user, nil
}

func (r *userRepo) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &user, nil
}

func (r *userRepo) CreateUser(user *models.User) error {
	return translate(r.db.Create(user).Error, "create user")
}

// DeleteUser removes the account. Participations cascade and authored
// comments keep their row with a NULL author.
func (r *userRepo) DeleteUser(id uuid.UUID) error {
	result := r.db.Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return translate(result.Error, "delete user")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete user")
	}
	return nil
}
