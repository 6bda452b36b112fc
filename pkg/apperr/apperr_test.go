package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:        http.StatusNotFound,
		KindInvalidArgument: http.StatusBadRequest,
		KindConflict:        http.StatusConflict,
		KindUnauthorized:    http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindInternal:        http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NotFound("game %d not found", 7))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestFromDB(t *testing.T) {
	assert.NoError(t, FromDB(nil, "user"))
	assert.True(t, errors.Is(FromDB(gorm.ErrRecordNotFound, "user"), ErrNotFound))
	assert.True(t, errors.Is(FromDB(gorm.ErrDuplicatedKey, "purchase"), ErrConflict))

	conflict := Conflict("already")
	assert.Same(t, conflict, FromDB(conflict, "x"))

	internal := FromDB(errors.New("connection reset"), "game")
	assert.Equal(t, KindInternal, KindOf(internal))
	assert.Contains(t, internal.Error(), "connection reset")
}
