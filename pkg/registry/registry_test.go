// pkg/registry/registry_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test the generic registry's uniqueness, lookup and listing
// behavior, including concurrent access

package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/onefile/pkg/errors"
)

type widget struct {
	ID int
}

func TestRegisterAndGet(t *testing.T) {
	reg := New[widget]()

	require.NoError(t, reg.Register("first", widget{ID: 1}))

	got, err := reg.Get("first")
	require.NoError(t, err)
	assert.Equal(t, widget{ID: 1}, got)
}

func TestRegister_EmptyName(t *testing.T) {
	reg := New[widget]()
	err := reg.Register("", widget{})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRegister_DuplicateKeepsOriginal(t *testing.T) {
	reg := New[widget]()
	require.NoError(t, reg.Register("first", widget{ID: 1}))

	err := reg.Register("first", widget{ID: 2})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	got, err := reg.Get("first")
	require.NoError(t, err)
	assert.Equal(t, widget{ID: 1}, got, "the earlier item survives the collision")
}

func TestGet_Missing(t *testing.T) {
	reg := New[widget]()
	_, err := reg.Get("absent")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))
}

func TestHas(t *testing.T) {
	reg := New[widget]()
	require.NoError(t, reg.Register("present", widget{}))

	assert.True(t, reg.Has("present"))
	assert.False(t, reg.Has("absent"))
}

func TestList_Sorted(t *testing.T) {
	reg := New[widget]()
	for _, name := range []string{"charlie", "alpha", "bravo"} {
		require.NoError(t, reg.Register(name, widget{}))
	}
	assert.Equal(t, []string{"alpha", "bravo", "charlie"}, reg.List())
}

func TestConcurrentAccess(t *testing.T) {
	reg := New[widget]()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("item%d", n)
			assert.NoError(t, reg.Register(name, widget{ID: n}))
			assert.True(t, reg.Has(name))
			_ = reg.List()
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.List(), 20)
}
