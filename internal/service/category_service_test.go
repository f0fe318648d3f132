package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omfen/fenntech-internal-system-sub001/internal/dto"
)

func findCategoryID(t *testing.T, repo *stubCategoryRepo, name string) uuid.UUID {
	t.Helper()
	for _, c := range repo.categories {
		if c.Name == name {
			return c.ID
		}
	}
	t.Fatalf("category %q not seeded", name)
	return uuid.Nil
}

func TestCategoryCreateRejectsOutOfRangeMarkup(t *testing.T) {
	svc := NewCategoryService(&stubCategoryRepo{})

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{
		Name:             "Gaming Chairs",
		MarkupPercentage: dec("1001"),
	})
	assert.ErrorIs(t, err, ErrInvalidMarkup)

	_, err = svc.Create(context.Background(), dto.CreateCategoryRequest{
		Name:             "Gaming Chairs",
		MarkupPercentage: dec("-1"),
	})
	assert.ErrorIs(t, err, ErrInvalidMarkup)

	// Boundary values are accepted.
	_, err = svc.Create(context.Background(), dto.CreateCategoryRequest{
		Name:             "Gaming Chairs",
		MarkupPercentage: dec("1000"),
	})
	assert.NoError(t, err)
}

func TestCategoryCreateRejectsDuplicateName(t *testing.T) {
	repo := seededCategoryRepo()
	svc := NewCategoryService(repo)

	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{
		Name:             "Ink",
		MarkupPercentage: dec("30"),
	})
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCategoryUpdateMarkupAllowed(t *testing.T) {
	repo := seededCategoryRepo()
	svc := NewCategoryService(repo)

	id := findCategoryID(t, repo, "Laptops")
	markup := dec("30")
	resp, err := svc.Update(context.Background(), id, dto.UpdateCategoryRequest{MarkupPercentage: &markup})
	require.NoError(t, err)
	assert.True(t, dec("30").Equal(resp.MarkupPercentage))
}

func TestCategoryReservedNameCannotBeRenamed(t *testing.T) {
	repo := seededCategoryRepo()
	svc := NewCategoryService(repo)

	id := findCategoryID(t, repo, "Speakers")
	newName := "Audio"
	_, err := svc.Update(context.Background(), id, dto.UpdateCategoryRequest{Name: &newName})
	assert.ErrorIs(t, err, ErrCategoryReserved)
}

func TestCategoryReservedCannotBeDeleted(t *testing.T) {
	repo := seededCategoryRepo()
	svc := NewCategoryService(repo)

	id := findCategoryID(t, repo, "Accessories")
	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrCategoryReserved)
}

func TestCategoryUpdateUnknownIDNotFound(t *testing.T) {
	svc := NewCategoryService(seededCategoryRepo())

	markup := dec("30")
	_, err := svc.Update(context.Background(), uuid.New(), dto.UpdateCategoryRequest{MarkupPercentage: &markup})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), ErrCategoryNotFound)
}

func TestCategoryCustomCanBeDeleted(t *testing.T) {
	repo := seededCategoryRepo()
	svc := NewCategoryService(repo)

	created, err := svc.Create(context.Background(), dto.CreateCategoryRequest{
		Name:             "Monitors",
		MarkupPercentage: dec("35"),
	})
	require.NoError(t, err)
	assert.NoError(t, svc.Delete(context.Background(), created.ID))
}
