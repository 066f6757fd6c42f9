// Package bevault is the HTTP client for the remote data-warehouse-modeling
// service. One shared transport is injected into every resource client; no
// ambient globals.
package bevault

import (
	"github.com/charmbracelet/log"
)

// listAllLimit approximates "fetch everything" on paginated listings.
const listAllLimit = 1000000

// Client groups the resource clients over one shared transport.
type Client struct {
	Projects         *ProjectsClient
	SourceSystems    *SourceSystemsClient
	Model            *ModelClient
	Mappings         *MappingsClient
	InformationMarts *InformationMartsClient

	baseURL string
}

// BaseURLProvider exposes the service root for payload reference building.
type BaseURLProvider interface {
	BaseURL() string
}

// NewClient wires all resource clients to one transport.
func NewClient(t Doer, baseURL string, logger *log.Logger) *Client {
	return &Client{
		Projects:         &ProjectsClient{t: t, logger: logger},
		SourceSystems:    &SourceSystemsClient{t: t, logger: logger},
		Model:            &ModelClient{t: t, logger: logger},
		Mappings:         &MappingsClient{t: t, logger: logger},
		InformationMarts: &InformationMartsClient{t: t, logger: logger},
		baseURL:          baseURL,
	}
}

// BaseURL returns the service root.
func (c *Client) BaseURL() string { return c.baseURL }

func projectPath(projectID string) string {
	return "/metavault/api/projects/" + projectID
}
