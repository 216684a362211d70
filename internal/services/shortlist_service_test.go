package services

import (
	"context"
	"fmt"
	"testing"

	"findtern_backend/internal/models"
	"findtern_backend/internal/repositories"
	"findtern_backend/internal/services/dto"
	"findtern_backend/pkg/apperrors"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShortlistService(t *testing.T) ShortlistService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: "admin-1"}, Role: models.UserRoleAdmin})
	for i := 1; i <= 6; i++ {
		id := fmt.Sprintf("intern-%d", i)
		users.users[id] = &models.User{BaseModel: models.BaseModel{ID: id}, Role: models.UserRoleIntern}
	}
	return NewShortlistService(repositories.NewShortlistRepository(rdb, "test"), users)
}

func TestShortlist_Cart(t *testing.T) {
	svc := newShortlistService(t)
	ctx := context.Background()

	for i := 1; i <= 6; i++ {
		_, err := svc.AddToShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCart, fmt.Sprintf("intern-%d", i))
		require.NoError(t, err)
	}
	resp, err := svc.GetShortlist(ctx, employerActor, "emp-1", repositories.ShortlistCart)
	require.NoError(t, err)
	assert.Len(t, resp.InternIDs, 6)
	assert.Zero(t, resp.Limit)

	resp, err = svc.RemoveFromShortlist(ctx, employerActor, "emp-1", repositories.ShortlistCart, "intern-1")
	require.NoError(t, err)
	assert.NotContains(t, resp.InternIDs, "intern-1")

	require.NoError(t, svc.ClearShortlist(ctx, employerActor, "emp-1", repositories.ShortlistCart))
	resp, err = svc.GetShortlist(ctx, employerActor, "emp-1", repositories.ShortlistCart)
	require.NoError(t, err)
	assert.Equal(t, []string{}, resp.InternIDs)
}

func TestShortlist_CompareLimit(t *testing.T) {
	svc := newShortlistService(t)
	ctx := context.Background()

	for i := 1; i <= CompareLimit; i++ {
		_, err := svc.AddToShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCompare, fmt.Sprintf("intern-%d", i))
		require.NoError(t, err)
	}

	_, err := svc.AddToShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCompare, "intern-5")
	assert.ErrorIs(t, err, apperrors.ErrCompareLimit)

	// уже добавленный не упирается в лимит
	resp, err := svc.AddToShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCompare, "intern-1")
	require.NoError(t, err)
	assert.Len(t, resp.InternIDs, CompareLimit)
	assert.Equal(t, CompareLimit, resp.Limit)
}

func TestShortlist_Replace(t *testing.T) {
	svc := newShortlistService(t)
	ctx := context.Background()

	resp, err := svc.ReplaceShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCart, []string{"intern-2", "intern-1", "intern-2", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"intern-1", "intern-2"}, resp.InternIDs)

	_, err = svc.ReplaceShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCompare,
		[]string{"intern-1", "intern-2", "intern-3", "intern-4", "intern-5"})
	assert.ErrorIs(t, err, apperrors.ErrCompareLimit)

	_, err = svc.ReplaceShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCart, []string{"intern-1", "admin-1"})
	requireCode(t, err, apperrors.CodeValidationFailed)

	// неудачная замена не трогает список
	resp, err = svc.GetShortlist(ctx, employerActor, "emp-1", repositories.ShortlistCart)
	require.NoError(t, err)
	assert.Equal(t, []string{"intern-1", "intern-2"}, resp.InternIDs)
}

func TestShortlist_Access(t *testing.T) {
	svc := newShortlistService(t)
	ctx := context.Background()

	_, err := svc.GetShortlist(ctx, dto.Actor{ID: "emp-2", Role: models.UserRoleEmployer}, "emp-1", repositories.ShortlistCart)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	_, err = svc.GetShortlist(ctx, employerActor, "emp-1", repositories.ShortlistKind("wishlist"))
	requireCode(t, err, apperrors.CodeValidationFailed)

	_, err = svc.AddToShortlist(ctx, nil, employerActor, "emp-1", repositories.ShortlistCart, "nobody")
	requireCode(t, err, apperrors.CodeValidationFailed)
}
