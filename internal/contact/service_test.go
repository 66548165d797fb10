package contact

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/baxoq/baxoq-store-backend/pkg/db/models"
	"github.com/baxoq/baxoq-store-backend/pkg/enums"
	pkgerrors "github.com/baxoq/baxoq-store-backend/pkg/errors"
	"github.com/baxoq/baxoq-store-backend/pkg/pagination"
)

type fakeMessageRepo struct {
	messages map[uuid.UUID]*models.ContactMessage
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: map[uuid.UUID]*models.ContactMessage{}}
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeMessageRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	if msg, ok := f.messages[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMessageRepo) List(ctx context.Context, status *enums.ContactStatus, params pagination.Params) ([]models.ContactMessage, int64, error) {
	var out []models.ContactMessage
	for _, msg := range f.messages {
		if status != nil && msg.Status != *status {
			continue
		}
		out = append(out, *msg)
	}
	return out, int64(len(out)), nil
}

func (f *fakeMessageRepo) Save(ctx context.Context, msg *models.ContactMessage) error {
	f.messages[msg.ID] = msg
	return nil
}

func newContactService(t *testing.T) (Service, *fakeMessageRepo) {
	t.Helper()
	repo := newFakeMessageRepo()
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestSubmitStoresMessageAsNew(t *testing.T) {
	svc, _ := newContactService(t)

	msg, err := svc.Submit(context.Background(), SubmitInput{
		Name:    "Ada",
		Email:   "ADA@Example.com",
		Subject: "Shipping question",
		Message: "Where is my katana?",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ContactStatusNew, msg.Status)
	assert.Equal(t, "ada@example.com", msg.Email)
}

func TestSubmitCollectsAllMissingFields(t *testing.T) {
	svc, _ := newContactService(t)

	_, err := svc.Submit(context.Background(), SubmitInput{Email: "bad"})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	details, ok := appErr.Details().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "subject")
	assert.Contains(t, details, "message")
}

func TestSetStatus(t *testing.T) {
	svc, _ := newContactService(t)
	ctx := context.Background()

	msg, err := svc.Submit(ctx, SubmitInput{
		Name:    "Ada",
		Email:   "ada@example.com",
		Subject: "Hi",
		Message: "Hello",
	})
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, msg.ID, enums.ContactStatusReplied)
	require.NoError(t, err)
	assert.Equal(t, enums.ContactStatusReplied, updated.Status)

	_, err = svc.SetStatus(ctx, msg.ID, enums.ContactStatus("archived"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.SetStatus(ctx, uuid.New(), enums.ContactStatusRead)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newContactService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{Name: "Ada", Email: "ada@example.com", Subject: "a", Message: "b"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{Name: "Grace", Email: "grace@example.com", Subject: "c", Message: "d"})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, first.ID, enums.ContactStatusResolved)
	require.NoError(t, err)

	resolved := enums.ContactStatusResolved
	messages, page, err := svc.List(ctx, &resolved, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, int64(1), page.TotalItems)

	messages, page, err = svc.List(ctx, nil, pagination.Params{Page: 1})
	require.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, int64(2), page.TotalItems)
}
