package oligo

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jjtimmons/oligo/config"
	"github.com/jjtimmons/oligo/internal/design"
	"github.com/jjtimmons/oligo/internal/optimize"
	"github.com/jjtimmons/oligo/internal/thermo"
	"github.com/jjtimmons/oligo/internal/validate"
)

// errEmptyRequest is returned for a design request without any strands
var errEmptyRequest = errors.New("no strands in design request")

// StrandRequest is a single strand to design
type StrandRequest struct {
	Name    string              `yaml:"strand_name"`
	Domains []design.DomainSpec `yaml:"domains"`
}

// DesignRequest is the contents of a design request file, YAML or JSON.
// It's either a single strand (strand_name and domains at the top level)
// or a list of them under strands. Strands are designed in order so a
// complement domain reuses the sequence of an earlier strand's domain.
type DesignRequest struct {
	StrandRequest `yaml:",inline"`

	Strands []StrandRequest `yaml:"strands"`

	// GlobalParams are the reaction conditions, defaults from the config
	GlobalParams thermo.Conditions `yaml:"global_params"`

	// ValidationSettings overlay the configured validation settings
	ValidationSettings validate.Settings `yaml:"validation_settings"`
}

// strands returns every strand in the request, the top level one first
func (r *DesignRequest) strands() []StrandRequest {
	var all []StrandRequest
	if r.Name != "" || len(r.Domains) > 0 {
		all = append(all, r.StrandRequest)
	}
	return append(all, r.Strands...)
}

// parseDesignRequest decodes a design request over the configured defaults
func parseDesignRequest(data []byte, conf *config.Config) (*DesignRequest, error) {
	req := &DesignRequest{
		GlobalParams:       conf.Conditions,
		ValidationSettings: conf.Validation,
	}
	if err := yaml.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("failed to parse design request: %w", err)
	}
	if len(req.strands()) == 0 {
		return nil, errEmptyRequest
	}
	return req, nil
}

// parseSearchRequest decodes a search request over the configured defaults.
// A timeout in the request is a duration string, ex: "30s".
func parseSearchRequest(data []byte, conf *config.Config) (*optimize.Request, error) {
	req := &optimize.Request{
		Settings:    conf.SearchSettings(),
		Generations: conf.Search.Generations,
	}
	if err := yaml.Unmarshal(data, req); err != nil {
		return nil, fmt.Errorf("failed to parse search request: %w", err)
	}
	return req, nil
}
