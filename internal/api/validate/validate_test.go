package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt64(t *testing.T) {
	v, ferr := Int64("id", " 42 ")
	assert.Nil(t, ferr)
	assert.Equal(t, int64(42), v)

	_, ferr = Int64("id", "abc")
	assert.Equal(t, &ErrField{Field: "id", Msg: "must be an integer"}, ferr)

	_, ferr = Int64("id", "99999999999999999999")
	assert.NotNil(t, ferr)
}

func TestErrs_AddAndError(t *testing.T) {
	var errs Errs
	errs = errs.Add(nil)
	assert.Empty(t, errs)

	errs = errs.Add(MinInt("id", 0, 1)).Add(MinInt("amount", -5, 1)).Add(MinInt("ok", 3, 1))

	assert.Len(t, errs, 2)
	assert.Equal(t, "id: must be >= 1; amount: must be >= 1", errs.Error())
}
