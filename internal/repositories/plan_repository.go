package repositories

import (
	"errors"
	"fmt"

	"payvault/internal/models"

	"gorm.io/gorm"
)

type PlanRepository interface {
	GetByNameAndInterval(name, interval string) (*models.Plan, error)
	Create(plan *models.Plan) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

func (r *planRepository) GetByNameAndInterval(name, interval string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.First(&plan, "name = ? AND interval = ?", name, interval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &plan, nil
}

func (r *planRepository) Create(plan *models.Plan) error {
	if err := r.db.Create(plan).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicatePlan
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}
	return nil
}
