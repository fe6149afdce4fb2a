package catalog

import (
	"testing"

	"github.com/go-sif/tabula/errors"
	ttest "github.com/go-sif/tabula/testing"
	"github.com/stretchr/testify/require"
)

func TestViews(t *testing.T) {
	c := New()
	people := ttest.CreateTable(t, "name STRING", []interface{}{"Sean"})
	other := ttest.CreateTable(t, "id INT", []interface{}{1}, []interface{}{2})

	require.Nil(t, c.RegisterView(people, "people"))
	err := c.RegisterView(other, "PEOPLE")
	require.True(t, errors.IsInvalidArgument(err))
	require.True(t, errors.IsInvalidArgument(c.RegisterView(other, " ")))

	v, err := c.View("People")
	require.Nil(t, err)
	require.Equal(t, 1, v.NumRows())

	require.Nil(t, c.ReplaceView(other, "people"))
	v, err = c.View("people")
	require.Nil(t, err)
	require.Equal(t, 2, v.NumRows())

	require.Nil(t, c.RegisterView(people, "alpha"))
	require.Equal(t, []string{"alpha", "people"}, c.Names())

	require.True(t, c.DropView("ALPHA"))
	require.False(t, c.DropView("alpha"))
	_, err = c.View("alpha")
	require.True(t, errors.IsSourceNotFound(err))
}
