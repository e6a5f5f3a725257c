package suggest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omar-28-2/minisql/pkg/suggest"
)

func TestKeywordFindsCloseMatch(t *testing.T) {
	closest, ok := suggest.Keyword("SELET", []string{"SELECT", "INSERT", "UPDATE"})
	assert.True(t, ok)
	assert.Equal(t, "SELECT", closest)
}

func TestKeywordRejectsFarMatch(t *testing.T) {
	_, ok := suggest.Keyword("XYZXYZXYZ", []string{"SELECT", "INSERT"})
	assert.False(t, ok)
}

func TestKeywordIsCaseInsensitive(t *testing.T) {
	closest, ok := suggest.Keyword("select", []string{"SELECT"})
	assert.True(t, ok)
	assert.Equal(t, "SELECT", closest)
}
