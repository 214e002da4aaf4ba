package dataupdate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aid-portal/beneficiary_portal/internal/beneficiary"
)

type countingRepository struct {
	Repository
	creates int
}

func (r *countingRepository) Create(ctx context.Context, req Request) error {
	r.creates++
	return r.Repository.Create(ctx, req)
}

func sampleBeneficiary() beneficiary.Beneficiary {
	return beneficiary.Beneficiary{
		ID:             "b-1",
		NationalID:     "123456789",
		Name:           "Mona",
		WhatsAppNumber: "0599111111",
		Address:        "Gaza",
	}
}

func TestSubmitCreatesPendingRequest(t *testing.T) {
	repo := &countingRepository{Repository: NewMemoryRepository()}
	svc := NewService(repo)
	ctx := context.Background()

	req, err := svc.Submit(ctx, sampleBeneficiary(), FieldAddress, "Khan Younis")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	assert.Equal(t, "Gaza", req.OldValue)
	assert.Equal(t, "Khan Younis", req.NewValue)
	assert.Equal(t, 1, repo.creates)

	list, err := svc.List(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
}

func TestSubmitRejectsUnchangedValueLocally(t *testing.T) {
	repo := &countingRepository{Repository: NewMemoryRepository()}
	svc := NewService(repo)

	_, err := svc.Submit(context.Background(), sampleBeneficiary(), FieldAddress, "Gaza")
	assert.ErrorIs(t, err, ErrNoChange)
	assert.Zero(t, repo.creates)
}

func TestSubmitRejectsProtectedFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	b := sampleBeneficiary()

	for _, field := range []string{FieldName, FieldFullName, FieldNationalID, FieldGender} {
		_, err := svc.Submit(context.Background(), b, field, "x")
		assert.ErrorIs(t, err, ErrReadOnlyField, field)
	}

	_, err := svc.Submit(context.Background(), b, "photo", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestPhoneLocksOnceSet(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	b := sampleBeneficiary()

	_, err := svc.Submit(context.Background(), b, FieldPhone, "0599222222")
	require.NoError(t, err)

	b.Phone = "0599222222"
	_, err = svc.Submit(context.Background(), b, FieldPhone, "0599333333")
	assert.ErrorIs(t, err, ErrFieldLocked)
}

func TestFieldsReflectEditState(t *testing.T) {
	b := sampleBeneficiary()
	b.Phone = "0599000000"

	fields := Fields(b)
	require.Len(t, fields, 8)

	byName := map[string]Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}
	assert.False(t, byName[FieldName].Editable)
	assert.True(t, byName[FieldPhone].Locked)
	assert.False(t, byName[FieldPhone].Editable)
	assert.True(t, byName[FieldAddress].Editable)
	assert.Equal(t, "العنوان", byName[FieldAddress].Label)
}
