package service

import (
	"context"
	"errors"

	"reviewdb/internal/api/authz"
	"reviewdb/internal/api/dto"
	"reviewdb/internal/api/models"
	"reviewdb/internal/api/repository"

	"gorm.io/gorm"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

// TitleFinder is the slice of the title repository the review service needs.
type TitleFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Title, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  TitleFinder
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo TitleFinder) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}

	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getForTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Create submits a new review. The one-review-per-(author,title) invariant
// is enforced by the store's unique index; a concurrent duplicate submit
// loses at the insert, not at a racy pre-check.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	// Reload with the author association for the response.
	created, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.getForTitle(titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !authz.CanModify(actor, authz.ActionPartialUpdate, review.AuthorID) {
		return nil, ErrForbidden
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	review, err := s.getForTitle(titleID, reviewID)
	if err != nil {
		return err
	}

	if !authz.CanModify(actor, authz.ActionDestroy, review.AuthorID) {
		return ErrForbidden
	}

	return s.reviewRepo.Delete(review.ID)
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// getForTitle loads a review and hides it behind ErrNotFound when it does
// not belong to the title in the request path.
func (s *reviewService) getForTitle(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrNotFound
	}
	return review, nil
}
