package services

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/campora/campus-portal/internal/entity"
	"github.com/campora/campus-portal/internal/repo"
	"github.com/campora/campus-portal/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity_FallbackChain(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	// linked only by email: the first two lookups must miss, the third hit
	student := entity.Student{
		ID:      uuid.NewString(),
		UserID:  uuid.NewString(),
		ClassID: testClassID,
		Email:   gofakeit.Email(),
	}
	store.AddStudent(student)

	authUserID := uuid.NewString()

	got, err := identity.ResolveStudent(context.Background(), authUserID, student.Email)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
	assert.Equal(t, []string{"user_id", "id", "email"}, store.StudentLookups)
}

func TestIdentity_LinkedByUserID(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	student := entity.Student{
		ID:     uuid.NewString(),
		UserID: uuid.NewString(),
		Email:  gofakeit.Email(),
	}
	store.AddStudent(student)

	got, err := identity.ResolveStudent(context.Background(), student.UserID, student.Email)
	require.NoError(t, err)
	assert.Equal(t, student.ID, got.ID)
	assert.Equal(t, []string{"user_id"}, store.StudentLookups)
}

func TestIdentity_NotFound(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	_, err := identity.ResolveStudent(context.Background(), uuid.NewString(), "")
	require.ErrorIs(t, err, repo.ErrStudentNotFound)
}

func TestIdentity_ResolveUsesCache(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	student := entity.Student{ID: uuid.NewString(), UserID: uuid.NewString(), Email: gofakeit.Email()}
	store.AddStudent(student)

	ctx := context.Background()

	_, err := identity.ResolveStudent(ctx, student.UserID, student.Email)
	require.NoError(t, err)
	hits := len(store.StudentLookups)

	_, err = identity.ResolveStudent(ctx, student.UserID, student.Email)
	require.NoError(t, err)
	assert.Equal(t, hits, len(store.StudentLookups), "second resolve must come from the cache")

	identity.Invalidate(student.UserID)

	_, err = identity.ResolveStudent(ctx, student.UserID, student.Email)
	require.NoError(t, err)
	assert.Greater(t, len(store.StudentLookups), hits, "resolve after invalidation must hit storage")
}

func TestIdentity_RefreshBypassesCache(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	student := entity.Student{ID: uuid.NewString(), UserID: uuid.NewString(), Email: gofakeit.Email()}
	store.AddStudent(student)

	ctx := context.Background()

	_, err := identity.ResolveStudent(ctx, student.UserID, student.Email)
	require.NoError(t, err)

	// the row changes behind our back; Refresh must see it
	student.FullName = gofakeit.Name()
	store.AddStudent(student)

	got, err := identity.RefreshStudent(ctx, student.UserID, student.Email)
	require.NoError(t, err)
	assert.Equal(t, student.FullName, got.FullName)
}

func TestIdentity_SetStudentPhoto(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	student := entity.Student{ID: uuid.NewString(), UserID: uuid.NewString(), Email: gofakeit.Email()}
	store.AddStudent(student)

	ctx := context.Background()

	err := identity.SetStudentPhoto(ctx, student.UserID, student.Email, "  ")
	require.ErrorIs(t, err, ErrValidation)

	url := gofakeit.URL()
	require.NoError(t, identity.SetStudentPhoto(ctx, student.UserID, student.Email, url))

	got, err := identity.ResolveStudent(ctx, student.UserID, student.Email)
	require.NoError(t, err)
	assert.Equal(t, url, got.ProfileURL)
}

func TestIdentity_FacultyFallbackChain(t *testing.T) {
	store := testutil.NewStore()
	identity := NewIdentity(testLogger(), store, store)

	faculty := entity.Faculty{
		ID:    uuid.NewString(),
		Email: gofakeit.Email(),
	}
	store.AddFaculty(faculty)

	got, err := identity.ResolveFaculty(context.Background(), uuid.NewString(), faculty.Email)
	require.NoError(t, err)
	assert.Equal(t, faculty.ID, got.ID)
}
