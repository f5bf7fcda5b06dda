package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/llmscope/llmscope/pkg/models"
)

//go:embed corpora/*.yaml
var corpora embed.FS

// suiteFile holds the YAML shape of one prompt corpus.
type suiteFile struct {
	Suite   string              `yaml:"suite"`
	Prompts []models.TestPrompt `yaml:"prompts"`
}

// Loader supplies ordered prompt lists per suite. Corpora ship embedded;
// a corpus directory can override any suite file by name.
type Loader struct {
	dir string
}

// New creates a Loader. dir may be empty to use only the embedded corpora.
func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// LoadSuite returns the ordered prompt list for the named suite. The
// sidechannel suite carries no corpus and is rejected here.
func (l *Loader) LoadSuite(name string) ([]models.TestPrompt, error) {
	filename := name + ".yaml"

	var data []byte
	var err error
	if l.dir != "" {
		override := filepath.Join(l.dir, filename)
		if _, statErr := os.Stat(override); statErr == nil {
			data, err = os.ReadFile(override)
			if err != nil {
				return nil, fmt.Errorf("read corpus %s: %w", override, err)
			}
		}
	}
	if data == nil {
		data, err = corpora.ReadFile("corpora/" + filename)
		if err != nil {
			return nil, fmt.Errorf("no prompt corpus for suite %q", name)
		}
	}

	var f suiteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse corpus for suite %q: %w", name, err)
	}
	if len(f.Prompts) == 0 {
		return nil, fmt.Errorf("corpus for suite %q is empty", name)
	}
	return f.Prompts, nil
}
