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

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PaginatedCommentResponse, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}

	return dto.NewPaginatedCommentResponse(responses, int(total), page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getForReview(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// Create posts a comment on an existing review. Unlike reviews there is no
// uniqueness rule: an author may comment the same review many times.
func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(created), nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.getForReview(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !authz.CanModify(actor, authz.ActionPartialUpdate, comment.AuthorID) {
		return nil, ErrForbidden
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	comment, err := s.getForReview(titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !authz.CanModify(actor, authz.ActionDestroy, comment.AuthorID) {
		return ErrForbidden
	}

	return s.commentRepo.Delete(comment.ID)
}

func (s *commentService) requireReview(titleID, reviewID int64) error {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if review.TitleID != titleID {
		return ErrNotFound
	}
	return nil
}

func (s *commentService) getForReview(titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrNotFound
	}
	return comment, nil
}
