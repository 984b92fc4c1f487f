package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"membership-hub/internal/importer"
)

func rowOf(pairs ...string) *importer.Row {
	r := importer.NewRow()
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], importer.String(pairs[i+1]))
	}
	return r
}

func TestFieldExactMatchWinsOverLooser(t *testing.T) {
	t.Parallel()

	r := rowOf(
		"email", "lower@example.com",
		"Email", "exact@example.com",
	)
	v := r.Field("Email", "e-mail")
	assert.Equal(t, "exact@example.com", v.Text())
}

func TestFieldCaseInsensitiveExact(t *testing.T) {
	t.Parallel()

	r := rowOf("EMAIL", "shout@example.com")
	v := r.Field("Email Address", "Email", "e-mail")
	require.True(t, v.Defined())
	assert.Equal(t, "shout@example.com", v.Text())
}

func TestFieldSubstringMatch(t *testing.T) {
	t.Parallel()

	r := rowOf("Contact Email Address", "contact@example.com")
	v := r.Field("Email")
	require.True(t, v.Defined())
	assert.Equal(t, "contact@example.com", v.Text())
}

func TestFieldGenericAliasSkippedInSubstringPass(t *testing.T) {
	t.Parallel()

	// "Email Address" 不应命中泛化别名 "Address"
	r := rowOf("Email Address", "mail@example.com")
	v := r.Field("Residential Address", "Address")
	assert.False(t, v.Defined())
}

func TestFieldResidentialAddressFallback(t *testing.T) {
	t.Parallel()

	r := rowOf(
		"Email Address", "mail@example.com",
		"Complete Residential Address (House, Street, Area)", "House 12, Street 4",
	)
	v := r.Field("Residential Address", "Address")
	require.True(t, v.Defined())
	assert.Equal(t, "House 12, Street 4", v.Text())
}

func TestFieldUndefinedVersusBlank(t *testing.T) {
	t.Parallel()

	r := importer.NewRow()
	r.Set("CNIC", importer.Empty())

	blank := r.Field("CNIC")
	require.True(t, blank.Defined(), "blank cell must not look like a missing column")
	assert.Equal(t, "", blank.Text())

	missing := r.Field("Phone")
	assert.False(t, missing.Defined())
}

func TestFieldAliasPriorityWithinStep(t *testing.T) {
	t.Parallel()

	r := rowOf(
		"Name of Member", "from-second-alias",
		"Full Name", "from-first-alias",
	)
	v := r.Field("Full Name", "Name of Member", "Name")
	assert.Equal(t, "from-first-alias", v.Text())
}
