package fim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInMemorySymbolIndexTracksMostRecentFirst(t *testing.T) {
	idx := NewInMemorySymbolIndex()
	idx.SetFile("a.go", "A")
	idx.SetFile("b.go", "B")
	idx.SetFile("a.go", "A2") // re-touching moves it back to the front

	recent := idx.RecentlyEditedFiles()
	assert.Equal(t, []string{"a.go", "b.go"}, recent)
}

func TestInMemorySymbolIndexBoundsHistoryToMaxSize(t *testing.T) {
	idx := NewInMemorySymbolIndex()
	for i := 0; i < maxHistorySize+10; i++ {
		idx.SetFile(fmt.Sprintf("file_%d.go", i), "content")
	}

	assert.Len(t, idx.RecentlyEditedFiles(), maxHistorySize)
}
