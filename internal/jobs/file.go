package jobs

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"

	"github.com/kubev2v/jobrunner/internal/models"
)

// batchFile is the jobs file layout. YAML and JSON are both accepted.
//
//	jobs:
//	  - id: job-1
//	    type: email
//	    payload:
//	      recipient: user@example.com
type batchFile struct {
	Jobs []models.Job `json:"jobs"`
}

// LoadFile reads a batch of jobs from a YAML or JSON file.
func LoadFile(path string) ([]models.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}

	batch, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse jobs file %s: %w", path, err)
	}
	return batch, nil
}

// Parse decodes a batch document. A bare list of jobs is accepted as well.
func Parse(data []byte) ([]models.Job, error) {
	var f batchFile
	if err := yaml.Unmarshal(data, &f); err == nil && f.Jobs != nil {
		return f.Jobs, nil
	}

	var list []models.Job
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
