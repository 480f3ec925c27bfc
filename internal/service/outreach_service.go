package service

import (
	"context"
	"fmt"
	"strings"

	"admin-dashboard/internal/models"
	"admin-dashboard/internal/outreach"
	"admin-dashboard/internal/util"

	"go.uber.org/zap"
)

// TemplateStore persists outreach templates
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]models.MessageTemplate, error)
	GetTemplate(ctx context.Context, id string) (*models.MessageTemplate, error)
	CreateTemplate(ctx context.Context, tmpl *models.MessageTemplate) error
	UpdateTemplate(ctx context.Context, tmpl *models.MessageTemplate) error
	DeleteTemplate(ctx context.Context, id string) error
}

// Recipient picks who a message goes to: a known customer, or an explicit
// name and phone. Explicit values override the customer's.
type Recipient struct {
	CustomerID string `json:"customer_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
}

// DispatchRequest is a reviewed, possibly edited message ready for hand-off
type DispatchRequest struct {
	Kind       string `json:"kind"`
	Recipient
	Body       string `json:"body"`
	TemplateID string `json:"template_id"`
	ProductID  string `json:"product_id"`
}

// OutreachService composes messages for review and emits their dispatch links
type OutreachService struct {
	dashboard *DashboardService
	templates TemplateStore
	composer  *outreach.Composer
	events    AuditPublisher
	logger    *zap.Logger
}

// NewOutreachService creates the service; events may be nil
func NewOutreachService(dashboard *DashboardService, templates TemplateStore, composer *outreach.Composer, events AuditPublisher) *OutreachService {
	return &OutreachService{
		dashboard: dashboard,
		templates: templates,
		composer:  composer,
		events:    events,
		logger:    util.GetLogger(),
	}
}

// ListTemplates returns every saved template
func (s *OutreachService) ListTemplates(ctx context.Context) ([]models.MessageTemplate, error) {
	return s.templates.ListTemplates(ctx)
}

// CreateTemplate validates and saves a new template
func (s *OutreachService) CreateTemplate(ctx context.Context, name, body string) (*models.MessageTemplate, error) {
	tmpl, err := newTemplate("", name, body)
	if err != nil {
		return nil, err
	}
	if err := s.templates.CreateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	s.logger.Info("Template created", zap.String("template_id", tmpl.ID))
	return tmpl, nil
}

// UpdateTemplate validates and replaces an existing template
func (s *OutreachService) UpdateTemplate(ctx context.Context, id, name, body string) (*models.MessageTemplate, error) {
	tmpl, err := newTemplate(id, name, body)
	if err != nil {
		return nil, err
	}
	if err := s.templates.UpdateTemplate(ctx, tmpl); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// DeleteTemplate removes a template
func (s *OutreachService) DeleteTemplate(ctx context.Context, id string) error {
	return s.templates.DeleteTemplate(ctx, id)
}

func newTemplate(id, name, body string) (*models.MessageTemplate, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: template name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: template body is required", ErrInvalidInput)
	}
	return &models.MessageTemplate{ID: id, Name: name, Body: body}, nil
}

// ComposeFromTemplate binds a saved template to a recipient
func (s *OutreachService) ComposeFromTemplate(ctx context.Context, templateID string, to Recipient) (*outreach.Message, error) {
	ctx, span := util.StartSpan(ctx, "OutreachService.ComposeFromTemplate")
	defer span.End()

	name, phone, err := s.resolve(to)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.templates.GetTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	util.OutreachComposedTotal.WithLabelValues(outreach.KindTemplate).Inc()
	return s.composer.FromTemplate(*tmpl, name, phone), nil
}

// ComposeProductPromotion builds a promotional message for one product
func (s *OutreachService) ComposeProductPromotion(ctx context.Context, productID string, to Recipient) (*outreach.Message, error) {
	_, span := util.StartSpan(ctx, "OutreachService.ComposeProductPromotion")
	defer span.End()

	name, phone, err := s.resolve(to)
	if err != nil {
		return nil, err
	}

	product, err := s.dashboard.Product(productID)
	if err != nil {
		return nil, err
	}

	util.OutreachComposedTotal.WithLabelValues(outreach.KindProduct).Inc()
	return s.composer.ProductPromotion(product, name, phone), nil
}

// Dispatch turns the reviewed body into the deep link handed to the
// messaging client. Nothing is sent from here.
func (s *OutreachService) Dispatch(ctx context.Context, req DispatchRequest) (*outreach.Message, error) {
	name, phone, err := s.resolve(req.Recipient)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, fmt.Errorf("%w: message body is required", ErrInvalidInput)
	}

	msg := s.composer.Custom(name, phone, req.Body)
	switch req.Kind {
	case outreach.KindTemplate, outreach.KindProduct:
		msg.Kind = req.Kind
	default:
		util.OutreachComposedTotal.WithLabelValues(outreach.KindCustom).Inc()
	}

	if s.events != nil {
		event := &models.OutreachPreparedEvent{
			Kind:       msg.Kind,
			CustomerID: req.CustomerID,
			Phone:      msg.RecipientPhone,
			TemplateID: req.TemplateID,
			ProductID:  req.ProductID,
		}
		if err := s.events.PublishOutreachPrepared(ctx, event); err != nil {
			s.logger.Warn("Failed to publish outreach event", zap.Error(err))
		}
	}
	return msg, nil
}

func (s *OutreachService) resolve(to Recipient) (string, string, error) {
	name, phone := strings.TrimSpace(to.Name), strings.TrimSpace(to.Phone)

	if to.CustomerID != "" {
		customer, _, err := s.dashboard.Customer(to.CustomerID)
		if err != nil {
			return "", "", err
		}
		if name == "" {
			name = customer.Name
		}
		if phone == "" {
			phone = customer.Phone
		}
	}

	if outreach.NormalizePhone(phone) == "" {
		return "", "", fmt.Errorf("%w: recipient has no phone number", ErrInvalidInput)
	}
	return name, phone, nil
}
