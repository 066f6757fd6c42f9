package bevault

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// ProjectsClient reads the project catalogue.
type ProjectsClient struct {
	t      Doer
	logger *log.Logger
}

// List returns every project visible to the caller.
func (c *ProjectsClient) List(ctx context.Context) ([]types.Project, error) {
	var env struct {
		Embedded struct {
			Projects []types.Project `json:"projects"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listAllLimit))
	if err := c.t.GetJSON(ctx, "/metavault/api/projects", q, &env); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return env.Embedded.Projects, nil
}

// FindByName returns projects whose name matches exactly, via server-side
// filtering.
func (c *ProjectsClient) FindByName(ctx context.Context, name string) ([]types.Project, error) {
	var env struct {
		Embedded struct {
			Projects []types.Project `json:"projects"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("filter", "name eq "+name)
	if err := c.t.GetJSON(ctx, "/metavault/api/projects", q, &env); err != nil {
		return nil, fmt.Errorf("find project %q: %w", name, err)
	}
	return env.Embedded.Projects, nil
}
