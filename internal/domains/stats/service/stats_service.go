package service

import (
	"context"

	"bookstore-marketplace/internal/domains/stats/model"
	"bookstore-marketplace/internal/domains/stats/repository"
	"bookstore-marketplace/internal/shared/apperror"
	"bookstore-marketplace/internal/shared/authz"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrStatsForbidden = apperror.Forbidden("STA001", "You are not allowed to view these statistics")

type StatsService interface {
	SellerStats(ctx context.Context, requester authz.Identity) (*model.SellerStats, error)
	AdminStats(ctx context.Context, requester authz.Identity) (*model.AdminStats, error)
}

type statsService struct {
	repo repository.RepositoryInterface
}

func NewStatsService(repo repository.RepositoryInterface) StatsService {
	return &statsService{repo: repo}
}

func (s *statsService) SellerStats(ctx context.Context, requester authz.Identity) (*model.SellerStats, error) {
	if !requester.Can(authz.ActionRead, authz.ResourceSellerStats) {
		return nil, ErrStatsForbidden
	}

	sellerID := requester.UserID
	var stats model.SellerStats

	g, gctx := errgroup.WithContext(ctx)
	g.Go(countInto(&stats.BookCount, func() (int64, error) { return s.repo.CountBooks(gctx, &sellerID) }))
	g.Go(countInto(&stats.OrderCount, func() (int64, error) { return s.repo.CountOrders(gctx, &sellerID) }))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *statsService) AdminStats(ctx context.Context, requester authz.Identity) (*model.AdminStats, error) {
	if !requester.Can(authz.ActionRead, authz.ResourceAdminStats) {
		return nil, ErrStatsForbidden
	}

	var stats model.AdminStats
	var all *uuid.UUID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(countInto(&stats.VendorCount, func() (int64, error) { return s.repo.CountUsersByRole(gctx, authz.RoleVendor) }))
	g.Go(countInto(&stats.UserCount, func() (int64, error) { return s.repo.CountUsersByRole(gctx, authz.RoleUser) }))
	g.Go(countInto(&stats.BookCount, func() (int64, error) { return s.repo.CountBooks(gctx, all) }))
	g.Go(countInto(&stats.OrderCount, func() (int64, error) { return s.repo.CountOrders(gctx, all) }))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// countInto - mỗi goroutine ghi vào field riêng nên không cần lock
func countInto(dst *int64, fn func() (int64, error)) func() error {
	return func() error {
		n, err := fn()
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}
