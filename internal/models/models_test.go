package models

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngagementKind(t *testing.T) {
	kind, err := ParseEngagementKind("like")
	require.NoError(t, err)
	assert.Equal(t, EngagementLike, kind)

	kind, err = ParseEngagementKind("collect")
	require.NoError(t, err)
	assert.Equal(t, EngagementCollect, kind)

	// no fallback kind
	_, err = ParseEngagementKind("share")
	assert.Error(t, err)
	_, err = ParseEngagementKind("")
	assert.Error(t, err)
	_, err = ParseEngagementKind("Like")
	assert.Error(t, err)
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseUserRole("superuser")
	assert.Error(t, err)
}

func TestUserIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: "admin"}).IsAdmin())
	assert.False(t, (&User{Role: "user"}).IsAdmin())
	assert.False(t, (&User{Role: "garbage"}).IsAdmin())
}

func TestValidSortField(t *testing.T) {
	for _, field := range []string{"id", "title", "like_count", "collect_count", "created_at", "updated_at"} {
		assert.True(t, ValidSortField(field), field)
	}
	for _, field := range []string{"password", "is_deleted", "title; DROP TABLE post", ""} {
		assert.False(t, ValidSortField(field), field)
	}
}

func TestValidSearchSortField(t *testing.T) {
	for _, field := range []string{"id", "created_at", "updated_at"} {
		assert.True(t, ValidSearchSortField(field), field)
	}
	// counters are not projected into index documents and title is analyzed
	// text, so none of them can back an index sort
	for _, field := range []string{"like_count", "collect_count", "title", "password", ""} {
		assert.False(t, ValidSearchSortField(field), field)
	}
}

func TestPostQueryOffset(t *testing.T) {
	assert.Equal(t, 0, PostQuery{Page: 1, PageSize: 10}.Offset())
	assert.Equal(t, 10, PostQuery{Page: 2, PageSize: 10}.Offset())
	assert.Equal(t, 40, PostQuery{Page: 5, PageSize: 10}.Offset())
	// pages below 1 clamp to the first page
	assert.Equal(t, 0, PostQuery{Page: 0, PageSize: 10}.Offset())
	assert.Equal(t, 0, PostQuery{Page: -3, PageSize: 10}.Offset())
}

func TestStatusForCode(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, StatusForCode(CodeNotFound))
	assert.Equal(t, fiber.StatusBadRequest, StatusForCode(CodeParamsError))
	assert.Equal(t, fiber.StatusForbidden, StatusForCode(CodeForbidden))
	assert.Equal(t, fiber.StatusUnauthorized, StatusForCode(CodeUnauthorized))
	assert.Equal(t, fiber.StatusInternalServerError, StatusForCode(CodeSystemError))
	assert.Equal(t, fiber.StatusInternalServerError, StatusForCode("SOMETHING_ELSE"))
}

func TestAppErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewSystemError("failed to update counter", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to update counter")
	assert.Contains(t, err.Error(), "connection refused")

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	assert.Equal(t, CodeSystemError, appErr.Code)
}
