package eval

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fwojciec/courserec"
	"gopkg.in/yaml.v3"
)

// Dataset is a set of labelled questions.
type Dataset struct {
	Cases []courserec.EvalCase `yaml:"cases"`
}

// LoadDataset reads a YAML dataset from path.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return ParseDataset(f)
}

// ParseDataset decodes a YAML dataset of the form
//
//	cases:
//	  - question: What class should I take if I like chemistry?
//	    relevant: [CH 115, CH 221]
//	    reference: CH 115 General Chemistry I covers ...
func ParseDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil {
		if err == io.EOF {
			return nil, courserec.Errorf(courserec.EINVALID, "dataset is empty")
		}
		return nil, courserec.Errorf(courserec.EINVALID, "invalid dataset: %v", err)
	}

	if len(ds.Cases) == 0 {
		return nil, courserec.Errorf(courserec.EINVALID, "dataset has no cases")
	}
	for i, c := range ds.Cases {
		if strings.TrimSpace(c.Question) == "" {
			return nil, courserec.Errorf(courserec.EINVALID, "case %d: question required", i+1)
		}
	}
	return &ds, nil
}
