package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"admin-dashboard/internal/models"

	"github.com/google/uuid"
)

// ErrTemplateNotFound is returned when no template has the given id
var ErrTemplateNotFound = errors.New("template not found")

// ListTemplates returns every saved template, newest first
func (s *Store) ListTemplates(ctx context.Context) ([]models.MessageTemplate, error) {
	templates := []models.MessageTemplate{}
	err := s.db.SelectContext(ctx, &templates,
		"SELECT id, name, body, created_at, updated_at FROM message_templates ORDER BY created_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}

// GetTemplate retrieves a template by id
func (s *Store) GetTemplate(ctx context.Context, id string) (*models.MessageTemplate, error) {
	var tmpl models.MessageTemplate
	err := s.db.GetContext(ctx, &tmpl,
		"SELECT id, name, body, created_at, updated_at FROM message_templates WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// CreateTemplate inserts a template and assigns its id and timestamps
func (s *Store) CreateTemplate(ctx context.Context, tmpl *models.MessageTemplate) error {
	now := time.Now().UTC()
	tmpl.ID = uuid.New().String()
	tmpl.CreatedAt = now
	tmpl.UpdatedAt = now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO message_templates (id, name, body, created_at, updated_at)
		VALUES (:id, :name, :body, :created_at, :updated_at)`, tmpl)
	if err != nil {
		return fmt.Errorf("failed to create template: %w", err)
	}
	return nil
}

// UpdateTemplate replaces name and body of an existing template
func (s *Store) UpdateTemplate(ctx context.Context, tmpl *models.MessageTemplate) error {
	tmpl.UpdatedAt = time.Now().UTC()

	err := s.db.GetContext(ctx, &tmpl.CreatedAt, `
		UPDATE message_templates SET name = $1, body = $2, updated_at = $3
		WHERE id = $4
		RETURNING created_at`, tmpl.Name, tmpl.Body, tmpl.UpdatedAt, tmpl.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, tmpl.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM message_templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return nil
}
