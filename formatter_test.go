package courserec_test

import (
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/stretchr/testify/assert"
)

func TestFormatResults(t *testing.T) {
	t.Parallel()

	t.Run("formats single result with rank and score", func(t *testing.T) {
		t.Parallel()

		results := []courserec.SearchResult{
			{Course: &courserec.Course{Code: "CS 583", Name: "Deep Learning", Link: "https://example.edu/cs583"}, Score: 0.91234},
		}

		assert.Equal(t, "1. [0.912] CS 583 Deep Learning\n   https://example.edu/cs583", courserec.FormatResults(results))
	})

	t.Run("separates results with blank line", func(t *testing.T) {
		t.Parallel()

		results := []courserec.SearchResult{
			{Course: &courserec.Course{Code: "A 1", Name: "One", Link: "l1"}, Score: 0.5},
			{Course: &courserec.Course{Code: "B 2", Name: "Two", Link: "l2"}, Score: 0.25},
		}

		expected := "1. [0.500] A 1 One\n   l1\n\n2. [0.250] B 2 Two\n   l2"
		assert.Equal(t, expected, courserec.FormatResults(results))
	})

	t.Run("returns empty string for no results", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, courserec.FormatResults(nil))
	})
}
