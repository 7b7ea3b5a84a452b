package eval_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/courserec"
	"github.com/fwojciec/courserec/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDataset = `cases:
  - question: What class should I take if I like chemistry?
    relevant: [CH 115, CH 221]
    reference: CH 115 General Chemistry I introduces atomic structure.
  - question: Which course covers linear algebra?
    relevant:
      - MA 232
`

func TestParseDataset(t *testing.T) {
	t.Parallel()

	t.Run("decodes cases", func(t *testing.T) {
		t.Parallel()

		ds, err := eval.ParseDataset(strings.NewReader(sampleDataset))

		require.NoError(t, err)
		require.Len(t, ds.Cases, 2)
		assert.Equal(t, courserec.EvalCase{
			Question:  "What class should I take if I like chemistry?",
			Relevant:  []string{"CH 115", "CH 221"},
			Reference: "CH 115 General Chemistry I introduces atomic structure.",
		}, ds.Cases[0])
		assert.Equal(t, []string{"MA 232"}, ds.Cases[1].Relevant)
		assert.Empty(t, ds.Cases[1].Reference)
	})

	t.Run("rejects invalid datasets", func(t *testing.T) {
		t.Parallel()

		inputs := map[string]string{
			"empty":          "",
			"no cases":       "cases: []\n",
			"blank question": "cases:\n  - question: \"  \"\n",
			"unknown field":  "cases:\n  - question: q\n    answer: a\n",
			"malformed yaml": "cases: [\n",
		}
		for name, input := range inputs {
			_, err := eval.ParseDataset(strings.NewReader(input))
			assert.Equal(t, courserec.EINVALID, courserec.ErrorCode(err), name)
		}
	})
}

func TestLoadDataset(t *testing.T) {
	t.Parallel()

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "dataset.yaml")
		require.NoError(t, os.WriteFile(path, []byte(sampleDataset), 0o644))

		ds, err := eval.LoadDataset(path)

		require.NoError(t, err)
		assert.Len(t, ds.Cases, 2)
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := eval.LoadDataset(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
