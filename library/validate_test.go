package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUser(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		in    UserInput
		field string
	}{
		{"valid", UserInput{"Ana", "Diaz", "ana.diaz+lib@duoc.cl", "5551234"}, ""},
		{"empty first name", UserInput{"  ", "Diaz", "ana@x.com", "5551234"}, "firstname"},
		{"pipe in last name", UserInput{"Ana", "Di|az", "ana@x.com", "5551234"}, "lastname"},
		{"email without at", UserInput{"Ana", "Diaz", "ana.x.com", "5551234"}, "email"},
		{"email with space", UserInput{"Ana", "Diaz", "ana @x.com", "5551234"}, "email"},
		{"short phone", UserInput{"Ana", "Diaz", "ana@x.com", "123456"}, "phone"},
		{"phone with dash", UserInput{"Ana", "Diaz", "ana@x.com", "555-1234"}, "phone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := v.User(&in)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestValidateUserTrims(t *testing.T) {
	in := UserInput{" Ana ", "Diaz", " ana@x.com ", "5551234 "}
	require.NoError(t, NewValidator().User(&in))
	assert.Equal(t, "Ana", in.FirstName)
	assert.Equal(t, "ana@x.com", in.Email)
	assert.Equal(t, "5551234", in.Phone)
}

func TestValidateComic(t *testing.T) {
	v := NewValidator()

	ok := ComicInput{Title: "Saga", Author: "Vaughan"}
	require.NoError(t, v.Comic(&ok))

	bad := ComicInput{Title: "Saga|2", Author: "Vaughan"}
	var verr *ValidationError
	require.ErrorAs(t, v.Comic(&bad), &verr)
	assert.Equal(t, "title", verr.Field)

	assigned := ComicInput{Title: "Saga", Author: "Vaughan", AssignedTo: "a|b"}
	require.ErrorAs(t, v.Comic(&assigned), &verr)
	assert.Equal(t, "assignedto", verr.Field)
}

func TestValidateField(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Field("title", "Saga"))

	var verr *ValidationError
	require.ErrorAs(t, v.Field("title", ""), &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, "must not be empty", verr.Message)
}

func TestValidateEmailAndPhone(t *testing.T) {
	v := NewValidator()
	require.NoError(t, v.Email(" ana@x.com "))
	require.NoError(t, v.Phone("5551234"))

	var verr *ValidationError
	require.ErrorAs(t, v.Email("ana@"), &verr)
	assert.Equal(t, "email", verr.Field)
	require.ErrorAs(t, v.Phone("55512"), &verr)
	assert.Equal(t, "phone", verr.Field)
	assert.Equal(t, "must contain only digits, at least 7", verr.Message)
}
