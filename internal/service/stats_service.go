package service

import (
	"context"

	"github.com/tajkir-alam/music-camp-server/internal/models"
	"github.com/tajkir-alam/music-camp-server/internal/repository"
)

type StatsService struct {
	users    repository.UserRepository
	courses  repository.CourseRepository
	payments repository.PaymentRepository
}

func NewStatsService(users repository.UserRepository, courses repository.CourseRepository, payments repository.PaymentRepository) *StatsService {
	return &StatsService{users: users, courses: courses, payments: payments}
}

// AdminStats gathers the dashboard numbers. Counts are estimates.
func (s *StatsService) AdminStats(ctx context.Context) (models.AdminStats, error) {
	var stats models.AdminStats
	var err error

	if stats.Revenue, err = s.payments.Revenue(ctx); err != nil {
		return stats, err
	}
	if stats.Customers, err = s.users.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Classes, err = s.courses.Count(ctx); err != nil {
		return stats, err
	}
	if stats.Orders, err = s.payments.Count(ctx); err != nil {
		return stats, err
	}
	return stats, nil
}
