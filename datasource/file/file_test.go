package file

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-sif/tabula/errors"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.csv", "_SUCCESS", ".hidden"} {
		require.Nil(t, ioutil.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.Nil(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	files, err := Resolve(dir)
	require.Nil(t, err)
	require.Equal(t, []string{filepath.Join(dir, "a.csv"), filepath.Join(dir, "b.csv")}, files)

	files, err = Resolve(filepath.Join(dir, "b.*"))
	require.Nil(t, err)
	require.Equal(t, []string{filepath.Join(dir, "b.csv")}, files)

	files, err = Resolve(filepath.Join(dir, "_SUCCESS"))
	require.Nil(t, err)
	require.Len(t, files, 1)

	_, err = Resolve(filepath.Join(dir, "nested"))
	require.True(t, errors.IsSourceNotFound(err))
	_, err = Resolve(filepath.Join(dir, "missing"))
	require.True(t, errors.IsSourceNotFound(err))
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
	require.True(t, errors.IsSourceNotFound(err))
}
