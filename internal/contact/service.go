package contact

import (
	"context"

	"github.com/go-playground/validator/v10"

	"github.com/dkhanna99/JerseyWorld-sub000/internal/apperrors"
	"github.com/dkhanna99/JerseyWorld-sub000/internal/models"
)

type Store interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
	FindAll(ctx context.Context) ([]*models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactMessage, error)
}

// Service handles contact message intake and the status machine.
type Service struct {
	store    Store
	validate *validator.Validate
}

func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

type CreateInput struct {
	Name    string `json:"name" binding:"required" validate:"required"`
	Email   string `json:"email" binding:"required,email" validate:"required,email"`
	Message string `json:"message" binding:"required" validate:"required"`
}

// Create validates the input and stores the message with status unread.
// Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.ContactMessage, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperrors.Validation("invalid contact message: %v", err)
	}

	msg := &models.ContactMessage{
		Name:    in.Name,
		Email:   in.Email,
		Message: in.Message,
		Status:  models.ContactUnread,
	}
	if err := s.store.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *Service) List(ctx context.Context) ([]*models.ContactMessage, error) {
	return s.store.FindAll(ctx)
}

// UpdateStatus sets the message's status. Any of the three states is
// directly settable; transitions are not forced forward.
func (s *Service) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) (*models.ContactMessage, error) {
	if !models.ValidContactStatus(status) {
		return nil, apperrors.Validation("unrecognized status %q", status)
	}
	return s.store.UpdateStatus(ctx, id, status)
}
