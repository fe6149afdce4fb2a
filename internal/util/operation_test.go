package util

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeScalarFuncRecoversPanics(t *testing.T) {
	fn := SafeScalarFunc(func(v interface{}) (interface{}, error) {
		return v.(string) + "!", nil
	})
	res, err := fn("hi")
	require.Nil(t, err)
	require.Equal(t, "hi!", res)

	res, err = fn(int64(5))
	require.NotNil(t, err)
	require.Nil(t, res)
	require.True(t, strings.HasPrefix(err.Error(), "Panic:"))
	require.Contains(t, err.Error(), "Value: 5")
}

func TestSafeScalarFuncWrapsErrorPanics(t *testing.T) {
	cause := fmt.Errorf("boom")
	fn := SafeScalarFunc(func(v interface{}) (interface{}, error) {
		panic(cause)
	})
	_, err := fn(nil)
	require.ErrorIs(t, err, cause)
}
