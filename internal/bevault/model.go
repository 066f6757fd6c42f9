package bevault

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// ModelClient covers hubs, links, satellites, snapshots and model search.
type ModelClient struct {
	t      Doer
	logger *log.Logger
}

func modelPath(projectID string) string {
	return projectPath(projectID) + "/model"
}

// CreateHubRequest is the hub creation payload.
type CreateHubRequest struct {
	Name                  string             `json:"name"`
	IgnoreBusinessKeyCase bool               `json:"ignoreBusinessKeyCase"`
	BusinessKey           *types.BusinessKey `json:"businessKey,omitempty"`
	Descriptions          []string           `json:"descriptions,omitempty"`
}

// HubReferenceRequest declares one hub reference of a new link. Hub is a
// fully-qualified reference built by the caller.
type HubReferenceRequest struct {
	ColumnName string `json:"columnName"`
	Hub        string `json:"hub"`
	Order      int    `json:"order"`
}

// DependentChildRequest declares one dependent-child column of a new link.
type DependentChildRequest struct {
	ColumnName string `json:"columnName"`
	DataType   string `json:"dataType"`
}

// CreateLinkRequest is the link creation payload.
type CreateLinkRequest struct {
	Name                  string                  `json:"name"`
	LinkType              string                  `json:"linkType"`
	HubReferences         []HubReferenceRequest   `json:"hubReferences"`
	DependentChildColumns []DependentChildRequest `json:"dependentChildColumns,omitempty"`
}

// Hub returns one hub by id or name.
func (c *ModelClient) Hub(ctx context.Context, projectID, idOrName string) (types.Hub, error) {
	var out types.Hub
	if err := c.t.GetJSON(ctx, modelPath(projectID)+"/hubs/"+url.PathEscape(idOrName), nil, &out); err != nil {
		return types.Hub{}, err
	}
	return out, nil
}

// CreateHub creates a hub.
func (c *ModelClient) CreateHub(ctx context.Context, projectID string, req CreateHubRequest) (types.Hub, error) {
	var out types.Hub
	if err := c.t.PostJSON(ctx, modelPath(projectID)+"/hubs", req, &out); err != nil {
		return types.Hub{}, fmt.Errorf("create hub %q: %w", req.Name, err)
	}
	return out, nil
}

// UpdateHub rewrites a hub.
func (c *ModelClient) UpdateHub(ctx context.Context, projectID, hubID string, req CreateHubRequest) (types.Hub, error) {
	var out types.Hub
	if err := c.t.PutJSON(ctx, modelPath(projectID)+"/hubs/"+hubID, req, &out); err != nil {
		return types.Hub{}, fmt.Errorf("update hub: %w", err)
	}
	return out, nil
}

// DeleteHub removes a hub.
func (c *ModelClient) DeleteHub(ctx context.Context, projectID, hubID string) error {
	return c.t.Delete(ctx, modelPath(projectID)+"/hubs/"+hubID)
}

// Link returns one link by id or name, including its column catalogues.
func (c *ModelClient) Link(ctx context.Context, projectID, idOrName string) (types.Link, error) {
	var out types.Link
	if err := c.t.GetJSON(ctx, modelPath(projectID)+"/links/"+url.PathEscape(idOrName), nil, &out); err != nil {
		return types.Link{}, err
	}
	return out, nil
}

// CreateLink creates a link.
func (c *ModelClient) CreateLink(ctx context.Context, projectID string, req CreateLinkRequest) (types.Link, error) {
	var out types.Link
	if err := c.t.PostJSON(ctx, modelPath(projectID)+"/links", req, &out); err != nil {
		return types.Link{}, fmt.Errorf("create link %q: %w", req.Name, err)
	}
	return out, nil
}

// UpdateLink rewrites a link.
func (c *ModelClient) UpdateLink(ctx context.Context, projectID, linkID string, req CreateLinkRequest) (types.Link, error) {
	var out types.Link
	if err := c.t.PutJSON(ctx, modelPath(projectID)+"/links/"+linkID, req, &out); err != nil {
		return types.Link{}, fmt.Errorf("update link: %w", err)
	}
	return out, nil
}

// DeleteLink removes a link.
func (c *ModelClient) DeleteLink(ctx context.Context, projectID, linkID string) error {
	return c.t.Delete(ctx, modelPath(projectID)+"/links/"+linkID)
}

// Satellite returns one satellite scoped to its hub or link parent.
// parentKind is "hubs" or "links".
func (c *ModelClient) Satellite(ctx context.Context, projectID, parentKind, parentID, satelliteID string) (types.Satellite, error) {
	var out types.Satellite
	q := url.Values{}
	q.Set("expand", "parent")
	path := modelPath(projectID) + "/" + parentKind + "/" + parentID + "/satellites/" + satelliteID
	if err := c.t.GetJSON(ctx, path, q, &out); err != nil {
		return types.Satellite{}, err
	}
	return out, nil
}

// Search finds model entities whose name contains term.
func (c *ModelClient) Search(ctx context.Context, projectID, term string) ([]types.ModelEntity, error) {
	var env struct {
		Embedded struct {
			Entities []types.ModelEntity `json:"entities"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("filter", "name contains "+term)
	q.Set("limit", strconv.Itoa(listAllLimit))
	if err := c.t.GetJSON(ctx, modelPath(projectID)+"/search", q, &env); err != nil {
		return nil, fmt.Errorf("search model for %q: %w", term, err)
	}
	return env.Embedded.Entities, nil
}

// Snapshots lists the project's snapshots.
func (c *ModelClient) Snapshots(ctx context.Context, projectID string) ([]types.Snapshot, error) {
	var env struct {
		Embedded struct {
			Snapshots []types.Snapshot `json:"snapshots"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listAllLimit))
	if err := c.t.GetJSON(ctx, modelPath(projectID)+"/snapshots", q, &env); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return env.Embedded.Snapshots, nil
}
