package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brandInput struct {
	Name    string `validate:"required,min=1,max=255"`
	LogoURL string `validate:"omitempty,url"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	in := brandInput{Name: "Keychron", LogoURL: "https://cdn.example.com/keychron.png"}

	assert.NoError(t, Validate(in))
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate(brandInput{LogoURL: "https://cdn.example.com/x.png"})
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.Equal(t, "is required", fields["Name"])
}

func TestValidate_InvalidURL(t *testing.T) {
	err := Validate(brandInput{Name: "Keychron", LogoURL: "not a url"})
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.Equal(t, "must be a valid URL", fields["LogoURL"])
}

func TestValidate_OmitemptySkipsZeroValue(t *testing.T) {
	assert.NoError(t, Validate(brandInput{Name: "Keychron"}))
}

type quantityInput struct {
	Quantity int `validate:"gte=0,lte=10000"`
}

func TestValidate_RangeBounds(t *testing.T) {
	require.NoError(t, Validate(quantityInput{Quantity: 0}))
	require.NoError(t, Validate(quantityInput{Quantity: 10000}))

	err := Validate(quantityInput{Quantity: -1})
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err)["Quantity"], "greater than or equal to 0")

	err = Validate(quantityInput{Quantity: 10001})
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err)["Quantity"], "less than or equal to 10000")
}

type nameInput struct {
	Short string `validate:"min=3"`
	Long  string `validate:"max=5"`
}

func TestValidate_MinMax(t *testing.T) {
	err := Validate(nameInput{Short: "ab", Long: "toolongstring"})
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.Contains(t, fields["Short"], "at least 3")
	assert.Contains(t, fields["Long"], "at most 5")
}

type idInput struct {
	ID string `validate:"uuid"`
}

func TestValidate_UUID(t *testing.T) {
	err := Validate(idInput{ID: "not-a-uuid"})
	require.Error(t, err)
	assert.Equal(t, "must be a valid UUID", fieldsOf(t, err)["ID"])

	assert.NoError(t, Validate(idInput{ID: "550e8400-e29b-41d4-a716-446655440000"}))
}

type conditionInput struct {
	Condition string `validate:"oneof=new open_box refurbished used"`
}

func TestValidate_OneOf(t *testing.T) {
	err := Validate(conditionInput{Condition: "like_new"})
	require.Error(t, err)
	assert.Contains(t, fieldsOf(t, err)["Condition"], "one of")

	assert.NoError(t, Validate(conditionInput{Condition: "open_box"}))
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(brandInput{Name: "", LogoURL: "bad"})
	require.Error(t, err)

	fields := fieldsOf(t, err)
	assert.Len(t, fields, 2)
	assert.Contains(t, err.Error(), "field 'Name'")
	assert.Contains(t, err.Error(), "field 'LogoURL'")
}
