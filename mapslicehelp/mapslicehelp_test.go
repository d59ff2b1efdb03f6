package mapslicehelp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

func TestOrderedMapKeys(t *testing.T) {
	m := orderedmap.New[string, int]()
	m.Set("z", 1)
	m.Set("a", 2)
	m.Set("m", 3)
	assert.Equal(t, []string{"z", "a", "m"}, OrderedMapKeys(m))
	assert.Equal(t, []string{}, OrderedMapKeys(orderedmap.New[string, int]()))
}

func TestCopyOrderedMap(t *testing.T) {
	m := orderedmap.New[string, int]()
	m.Set("b", 1)
	m.Set("a", 2)

	c := CopyOrderedMap(m)
	c.Set("a", 3)
	c.Set("c", 4)

	v, _ := m.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, []string{"b", "a"}, OrderedMapKeys(m))
	assert.Equal(t, []string{"b", "a", "c"}, OrderedMapKeys(c))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]bool{"c": true, "a": false, "b": true}))
	assert.Equal(t, []int{1, 2}, SortedKeys(map[int]string{2: "", 1: ""}))
	assert.Empty(t, SortedKeys(map[string]int{}))
}
