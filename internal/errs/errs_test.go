package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsSetStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, Validation("bad").Status)
	assert.Equal(t, http.StatusUnauthorized, Unauthorized("who").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("gone").Status)
	assert.Equal(t, http.StatusConflict, Conflict("dup").Status)
	assert.Equal(t, http.StatusInternalServerError, Internal().Status)
}

func TestHTTPErrorSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("upload: %w", Validation("no file uploaded"))

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, "no file uploaded", httpErr.Message)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}
