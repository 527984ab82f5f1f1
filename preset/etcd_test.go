package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEtcdStoreRequiresEndpoints(t *testing.T) {
	_, err := NewEtcdStore(EtcdOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endpoints cannot be empty")
}

func TestEtcdKeyLayout(t *testing.T) {
	s := &EtcdStore{namespace: "cardsmith"}

	assert.Equal(t, "/cardsmith/preset/abc", s.presetKey("abc"))
	assert.Equal(t, "/cardsmith/preset/", s.presetPrefix())
	assert.Equal(t, "/cardsmith/session/s1/", s.sessionPrefix("s1"))
}
