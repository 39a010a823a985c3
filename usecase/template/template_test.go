package template

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/contracts/domain"
	"github.com/fastygo/contracts/repository"
)

type memoryTemplates struct {
	rows map[string]*domain.Template
	seq  int
}

func newMemoryTemplates() *memoryTemplates {
	return &memoryTemplates{rows: make(map[string]*domain.Template)}
}

func (m *memoryTemplates) GetByID(_ context.Context, id string) (*domain.Template, error) {
	t, ok := m.rows[id]
	if !ok || t.DeletedAt != nil {
		return nil, domain.ErrTemplateNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memoryTemplates) List(_ context.Context, filter repository.TemplateFilter) ([]domain.Template, error) {
	var out []domain.Template
	for _, t := range m.rows {
		if t.DeletedAt != nil {
			continue
		}
		if filter.ScopeID != "" && domain.StringValue(t.ScopeID) != filter.ScopeID {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

func (m *memoryTemplates) Create(_ context.Context, t *domain.Template) error {
	m.seq++
	t.ID = "tpl-" + strings.Repeat("x", m.seq)
	cp := *t
	m.rows[t.ID] = &cp
	return nil
}

func (m *memoryTemplates) Update(_ context.Context, t *domain.Template) error {
	if _, ok := m.rows[t.ID]; !ok {
		return domain.ErrTemplateNotFound
	}
	cp := *t
	m.rows[t.ID] = &cp
	return nil
}

func (m *memoryTemplates) SoftDelete(_ context.Context, id string, at time.Time) error {
	t, ok := m.rows[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTemplateNotFound
	}
	t.DeletedAt = &at
	return nil
}

func (m *memoryTemplates) NameTaken(_ context.Context, scopeID *string, name, excludeID string) (bool, error) {
	for _, t := range m.rows {
		if t.DeletedAt != nil || t.ID == excludeID {
			continue
		}
		if domain.StringValue(t.ScopeID) == domain.StringValue(scopeID) && strings.EqualFold(t.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func ptr(s string) *string { return &s }

func TestCreateTemplate(t *testing.T) {
	uc := New(newMemoryTemplates(), nil, nil)

	view, err := uc.CreateTemplate(context.Background(), Input{
		ScopeID: ptr("prj-1"),
		Name:    ptr("  Contrato de Desenvolvimento de Sóftware "),
		HTML:    ptr("<p>{{CUSTOMER_NAME}} {{CUSTOMER_TAX_ID}} {{CUSTOMER_NAME}}</p>"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Contrato de Desenvolvimento de Sóftware", view.Name)
	assert.True(t, view.TierPriced)
	assert.Equal(t, []string{"CUSTOMER_NAME", "CUSTOMER_TAX_ID"}, view.Placeholders)
}

func TestCreateTemplateValidation(t *testing.T) {
	uc := New(newMemoryTemplates(), nil, nil)

	_, err := uc.CreateTemplate(context.Background(), Input{HTML: ptr("<p>x</p>")})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
	assert.Equal(t, "name", domain.ErrorDetails(err)["field"])

	_, err = uc.CreateTemplate(context.Background(), Input{Name: ptr("NDA"), HTML: ptr("   ")})
	assert.Equal(t, "html", domain.ErrorDetails(err)["field"])
}

func TestTemplateNameUniquePerScope(t *testing.T) {
	ctx := context.Background()
	uc := New(newMemoryTemplates(), []string{"software"}, nil)

	first, err := uc.CreateTemplate(ctx, Input{ScopeID: ptr("prj-1"), Name: ptr("NDA"), HTML: ptr("<p>a</p>")})
	require.NoError(t, err)

	_, err = uc.CreateTemplate(ctx, Input{ScopeID: ptr("prj-1"), Name: ptr("nda"), HTML: ptr("<p>b</p>")})
	assert.ErrorIs(t, err, domain.ErrTemplateNameConflict)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	_, err = uc.CreateTemplate(ctx, Input{ScopeID: ptr("prj-2"), Name: ptr("NDA"), HTML: ptr("<p>b</p>")})
	require.NoError(t, err)

	_, err = uc.UpdateTemplate(ctx, first.ID, Input{Name: ptr("NDA"), Description: ptr("revisado")})
	require.NoError(t, err, "renaming to its own name is allowed")

	require.NoError(t, uc.DeleteTemplate(ctx, first.ID))
	_, err = uc.CreateTemplate(ctx, Input{ScopeID: ptr("prj-1"), Name: ptr("NDA"), HTML: ptr("<p>c</p>")})
	require.NoError(t, err, "deleted templates free their name")
}

func TestUpdateAndListTemplates(t *testing.T) {
	ctx := context.Background()
	uc := New(newMemoryTemplates(), nil, nil)

	created, err := uc.CreateTemplate(ctx, Input{ScopeID: ptr("prj-1"), Name: ptr("Base"), HTML: ptr("<p>{{A}}</p>")})
	require.NoError(t, err)
	assert.False(t, created.TierPriced)

	updated, err := uc.UpdateTemplate(ctx, created.ID, Input{
		Description: ptr("Modelo para software sob demanda"),
		HTML:        ptr("<p>{{B}}</p>"),
	})
	require.NoError(t, err)
	assert.True(t, updated.TierPriced)
	assert.Equal(t, []string{"B"}, updated.Placeholders)
	assert.Equal(t, "Base", updated.Name)

	list, err := uc.ListTemplates(ctx, repository.TemplateFilter{ScopeID: "prj-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "<p>{{B}}</p>", list[0].HTML)

	_, err = uc.UpdateTemplate(ctx, "missing", Input{})
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	assert.ErrorIs(t, uc.DeleteTemplate(ctx, "missing"), domain.ErrTemplateNotFound)
}
