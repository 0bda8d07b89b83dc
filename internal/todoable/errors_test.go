package todoable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	for _, status := range []int{200, 201, 204, 299} {
		assert.NoError(t, classify(status, nil), "status %d", status)
	}
	assert.ErrorIs(t, classify(401, nil), ErrUnauthorized)
	assert.ErrorIs(t, classify(404, []byte("missing")), ErrContentNotFound)

	var statusErr *StatusError
	require.ErrorAs(t, classify(500, []byte("boom")), &statusErr)
	assert.Equal(t, 500, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "unexpected status 500")

	require.ErrorAs(t, classify(302, nil), &statusErr)
	assert.Equal(t, 302, statusErr.StatusCode)
}

func TestClassify_Unprocessable(t *testing.T) {
	err := classify(422, []byte(`{"errors": {"name": ["has already been taken"]}}`))
	var unprocessable *UnprocessableError
	require.ErrorAs(t, err, &unprocessable)
	assert.Equal(t, "name has already been taken.", unprocessable.Error())
	assert.Equal(t, []string{"has already been taken"}, unprocessable.Messages("name"))
	assert.Nil(t, unprocessable.Messages("other"))
}

func TestClassify_UnprocessableKeepsFieldOrder(t *testing.T) {
	err := classify(422, []byte(`{"errors": {"title": ["is bad"], "name": ["can't be blank", "is too short"]}}`))
	assert.EqualError(t, err, "title is bad, name can't be blank,is too short.")
}

func TestClassify_UnprocessableMalformedBody(t *testing.T) {
	err := classify(422, []byte(`not json`))
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 422, statusErr.StatusCode)
}

func TestClassify_UnprocessableWithoutFields(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"errors":null}`, `{"errors":{}}`, `{"message":"bad"}`} {
		err := classify(422, []byte(body))
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr, body)
		assert.Equal(t, 422, statusErr.StatusCode, body)
		assert.NotEqual(t, ".", err.Error(), body)
	}
}

func TestAuthenticationErrorUnwraps(t *testing.T) {
	err := error(&AuthenticationError{StatusCode: 401, Err: ErrUnauthorized})
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "status 401")
}
