package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/models"
	"feuerwehr-web/pkg/store"
)

// ContactInput is the contact form. It binds from JSON and from form posts.
type ContactInput struct {
	Name    string      `json:"name" form:"name" validate:"required,max=200"`
	Email   string      `json:"email" form:"email" validate:"required,sitemail,max=254"`
	Phone   string      `json:"phone" form:"phone" validate:"max=64"`
	Subject string      `json:"subject" form:"subject" validate:"max=200"`
	Message string      `json:"message" form:"message" validate:"required,max=5000"`
	Locale  i18n.Locale `json:"-" form:"-"`
}

func (in *ContactInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if !in.Locale.Valid() {
		in.Locale = i18n.DefaultLocale
	}
}

type ContactService interface {
	// Submit stores the message and returns the new submission id.
	Submit(ctx context.Context, in ContactInput) (string, error)
}

type contactService struct {
	contacts store.ContactRepository
}

func NewContactService(contacts store.ContactRepository) ContactService {
	return &contactService{contacts: contacts}
}

func (s *contactService) Submit(ctx context.Context, in ContactInput) (string, error) {
	in.normalize()
	if err := checkStruct(&in); err != nil {
		return "", err
	}
	sub := &models.ContactSubmission{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
		Locale:  in.Locale,
		Status:  models.SubmissionNew,
	}
	if err := s.contacts.Create(ctx, sub); err != nil {
		return "", err
	}
	logger.Info("contact submission stored", zap.String("id", sub.ID), zap.String("locale", string(in.Locale)))
	return sub.ID, nil
}
