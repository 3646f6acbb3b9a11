package goquery_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/doccrawl/goquery"
	"github.com/stretchr/testify/assert"
)

func TestContentVisible(t *testing.T) {
	t.Parallel()

	ready := goquery.ContentVisible(goquery.DefaultReadyMinText, goquery.DefaultReadyMinBody)

	t.Run("is ready when a semantic container has enough text", func(t *testing.T) {
		t.Parallel()
		assert.True(t, ready(page("T", "<main><p>"+strings.Repeat("x", 101)+"</p></main>")))
	})

	t.Run("is ready when the body has enough text", func(t *testing.T) {
		t.Parallel()
		assert.True(t, ready(page("T", "<div><p>"+strings.Repeat("x", 501)+"</p></div>")))
	})

	t.Run("is not ready for an application shell", func(t *testing.T) {
		t.Parallel()
		assert.False(t, ready(page("T", `<div id="root"></div><script>`+strings.Repeat("x", 1000)+`</script>`)))
	})

	t.Run("requires strictly more than the thresholds", func(t *testing.T) {
		t.Parallel()
		assert.False(t, ready(page("T", "<main><p>"+strings.Repeat("x", 100)+"</p></main>")))
	})
}
