package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/ShelterDesk/internal/models"
)

func TestMemoryTable_CRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	id, err := m.Donors.Insert(ctx, models.Donor{Name: "Ann", DonorID: 42})
	require.NoError(t, err)
	assert.EqualValues(t, 1, id, "keys are assigned by the store")
	id2, err := m.Donors.Insert(ctx, models.Donor{Name: "Bo"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, id2)

	d, err := m.Donors.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.Donor{DonorID: 1, Name: "Ann"}, d)

	require.NoError(t, m.Donors.Update(ctx, 1, models.Donor{Name: "Ann", ContactInfo: "ann@example.com"}))
	list, err := m.Donors.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "ann@example.com", list[0].ContactInfo)
	assert.EqualValues(t, 1, list[0].DonorID)
	assert.Equal(t, "Bo", list[1].Name)

	require.NoError(t, m.Donors.Delete(ctx, 1))
	_, err = m.Donors.Get(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Donors.Delete(ctx, 1), ErrNotFound)
	assert.ErrorIs(t, m.Donors.Update(ctx, 1, models.Donor{Name: "X"}), ErrNotFound)

	id3, err := m.Donors.Insert(ctx, models.Donor{Name: "Cy"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, id3, "keys are never reused")
}

func TestMemory_References(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Medical.Insert(ctx, models.MedicalRecord{AnimalID: 99, Date: "2024-05-01"})
	require.ErrorIs(t, err, ErrReference)
	assert.Contains(t, err.Error(), "animal 99 is not present")

	_, err = m.Adoptions.Insert(ctx, models.AdoptionApplication{AnimalID: 99})
	assert.ErrorIs(t, err, ErrReference)
	_, err = m.Donations.Insert(ctx, models.Donation{DonorID: 3, Amount: "5.00"})
	assert.ErrorIs(t, err, ErrReference)

	animal, err := m.Animals.Insert(ctx, models.Animal{Name: "Rex", Species: "Dog"})
	require.NoError(t, err)
	rec, err := m.Medical.Insert(ctx, models.MedicalRecord{AnimalID: animal})
	require.NoError(t, err)
	assert.ErrorIs(t, m.Medical.Update(ctx, rec, models.MedicalRecord{AnimalID: 99}), ErrReference)
}

func TestMemory_CascadingDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rex, _ := m.Animals.Insert(ctx, models.Animal{Name: "Rex", Species: "Dog"})
	tom, _ := m.Animals.Insert(ctx, models.Animal{Name: "Tom", Species: "Cat"})
	_, err := m.Medical.Insert(ctx, models.MedicalRecord{AnimalID: rex})
	require.NoError(t, err)
	_, err = m.Medical.Insert(ctx, models.MedicalRecord{AnimalID: tom})
	require.NoError(t, err)
	_, err = m.Adoptions.Insert(ctx, models.AdoptionApplication{AnimalID: rex, AnimalName: "Rex"})
	require.NoError(t, err)

	require.NoError(t, m.Animals.Delete(ctx, rex))

	medical, _ := m.Medical.List(ctx)
	require.Len(t, medical, 1)
	assert.Equal(t, tom, medical[0].AnimalID)
	adoptions, _ := m.Adoptions.List(ctx)
	assert.Empty(t, adoptions)

	ann, _ := m.Donors.Insert(ctx, models.Donor{Name: "Ann"})
	_, err = m.Donations.Insert(ctx, models.Donation{DonorID: ann, Amount: "10.00"})
	require.NoError(t, err)
	require.NoError(t, m.Donors.Delete(ctx, ann))
	donations, _ := m.Donations.List(ctx)
	assert.Empty(t, donations)
}

func TestMemory_FindDonorByName(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, _ = m.Donors.Insert(ctx, models.Donor{Name: "Bo"})
	_, _ = m.Donors.Insert(ctx, models.Donor{Name: "Ann", ContactInfo: "first"})
	_, _ = m.Donors.Insert(ctx, models.Donor{Name: "Ann", ContactInfo: "second"})

	d, err := m.FindDonorByName(ctx, "Ann")
	require.NoError(t, err)
	assert.Equal(t, "first", d.ContactInfo)

	_, err = m.FindDonorByName(ctx, "ann")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Users(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	acc := models.Account{User: models.User{Name: "Ann", Email: "ann@example.com"}, PasswordHash: "h"}
	id, err := m.CreateUser(ctx, acc)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)

	_, err = m.CreateUser(ctx, acc)
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := m.UserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.ID)
	assert.Equal(t, "h", got.PasswordHash)

	_, err = m.UserByEmail(ctx, "bo@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
