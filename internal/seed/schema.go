// Package seed loads YAML fixtures of groups, accounts, templates, projects
// and tasks and applies them through the services.
package seed

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Document is the top-level fixture file.
type Document struct {
	Groups    []string      `yaml:"groups"`
	Actors    []ActorRow    `yaml:"actors"`
	Templates []TemplateRow `yaml:"templates"`
	Projects  []ProjectRow  `yaml:"projects"`
	Tasks     []TaskRow     `yaml:"tasks"`
}

type ActorRow struct {
	Username  string   `yaml:"username"`
	FullName  string   `yaml:"full_name"`
	Role      string   `yaml:"role"`
	Superuser bool     `yaml:"superuser"`
	Groups    []string `yaml:"groups"`
}

type TemplateRow struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Frequency   string `yaml:"frequency"`
	Group       string `yaml:"group"`
	Assignee    string `yaml:"assignee"`
	As          string `yaml:"as"`
}

type ProjectRow struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
	Status      string `yaml:"status"`
	Group       string `yaml:"group"`
	As          string `yaml:"as"`
}

// TaskRow names its project, parent and predecessor by name or code.
type TaskRow struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`
	Project     string `yaml:"project"`
	Parent      string `yaml:"parent"`
	DependsOn   string `yaml:"depends_on"`
	Assignee    string `yaml:"assignee"`
	RequestedBy string `yaml:"requested_by"`
	Start       string `yaml:"start"`
	Due         string `yaml:"due"`
	Status      string `yaml:"status"`
	Progress    int    `yaml:"progress"`
	Group       string `yaml:"group"`
	As          string `yaml:"as"`
}

// Decode reads a document, rejecting unknown keys.
func Decode(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("seed: document is empty")
		}
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	return &doc, nil
}

// LoadFile reads and structurally checks a fixture file.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	doc, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
