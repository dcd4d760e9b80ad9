package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParsePathInt(t *testing.T) {
	testCases := []struct {
		name         string
		value        string
		expected     int64
		expectedOK   bool
		expectedCode int
	}{
		{name: "valid", value: "42", expected: 42, expectedOK: true},
		{name: "zero is allowed", value: "0", expected: 0, expectedOK: true},
		{name: "negative", value: "-1", expectedCode: http.StatusBadRequest},
		{name: "not a number", value: "x1", expectedCode: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			req := httptest.NewRequest(http.MethodGet, "/products/"+tc.value, nil)
			req.SetPathValue("sku", tc.value)
			rr := httptest.NewRecorder()
			// when
			value, ok := ParsePathInt(rr, req, discardLogger(), "sku", Gte(0))
			// then
			assert.Equal(t, tc.expectedOK, ok)
			assert.Equal(t, tc.expected, value)
			if !tc.expectedOK {
				assert.Equal(t, tc.expectedCode, rr.Code)
				assert.JSONEq(t, `{"error":"Invalid sku: `+tc.value+`"}`, rr.Body.String())
			}
		})
	}
}

func Test_ParseQueryBool(t *testing.T) {
	rr := httptest.NewRecorder()
	value, ok := ParseQueryBool(rr, httptest.NewRequest(http.MethodGet, "/products", nil), discardLogger(), "available")
	assert.True(t, ok)
	assert.Nil(t, value)

	value, ok = ParseQueryBool(rr, httptest.NewRequest(http.MethodGet, "/products?available=false", nil), discardLogger(), "available")
	assert.True(t, ok)
	if assert.NotNil(t, value) {
		assert.False(t, *value)
	}

	rr = httptest.NewRecorder()
	_, ok = ParseQueryBool(rr, httptest.NewRequest(http.MethodGet, "/products?available=yes", nil), discardLogger(), "available")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
