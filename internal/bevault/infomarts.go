package bevault

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// InformationMartsClient covers information marts and their scripts.
type InformationMartsClient struct {
	t      Doer
	logger *log.Logger
}

func martsPath(projectID string) string {
	return projectPath(projectID) + "/informationmarts"
}

// CreateInformationMartRequest is the mart creation payload. Snapshot is a
// resolved snapshot id.
type CreateInformationMartRequest struct {
	Name        string `json:"name"`
	SnapshotID  string `json:"snapshotId"`
	Description string `json:"description,omitempty"`
}

// UpdateScriptRequest rewrites one information-mart script in full.
type UpdateScriptRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Search lists marts whose name contains the filter; empty filter lists all.
func (c *InformationMartsClient) Search(ctx context.Context, projectID, nameContains string) ([]types.InformationMart, error) {
	var env struct {
		Embedded struct {
			InformationMarts []types.InformationMart `json:"informationMarts"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listAllLimit))
	if nameContains != "" {
		q.Set("filter", "name contains "+nameContains)
	}
	if err := c.t.GetJSON(ctx, martsPath(projectID), q, &env); err != nil {
		return nil, fmt.Errorf("search information marts: %w", err)
	}
	return env.Embedded.InformationMarts, nil
}

// Get returns one mart including its embedded scripts.
func (c *InformationMartsClient) Get(ctx context.Context, projectID, martID string) (types.InformationMart, error) {
	var out types.InformationMart
	if err := c.t.GetJSON(ctx, martsPath(projectID)+"/"+martID, nil, &out); err != nil {
		return types.InformationMart{}, err
	}
	return out, nil
}

// Create creates an information mart.
func (c *InformationMartsClient) Create(ctx context.Context, projectID string, req CreateInformationMartRequest) (types.InformationMart, error) {
	var out types.InformationMart
	if err := c.t.PostJSON(ctx, martsPath(projectID), req, &out); err != nil {
		return types.InformationMart{}, fmt.Errorf("create information mart %q: %w", req.Name, err)
	}
	return out, nil
}

// UpdateScript rewrites one script of a mart.
func (c *InformationMartsClient) UpdateScript(ctx context.Context, projectID, martID, scriptID string, req UpdateScriptRequest) (types.InformationMartScript, error) {
	var out types.InformationMartScript
	path := martsPath(projectID) + "/" + martID + "/scripts/" + scriptID
	if err := c.t.PutJSON(ctx, path, req, &out); err != nil {
		return types.InformationMartScript{}, fmt.Errorf("update information mart script: %w", err)
	}
	return out, nil
}

// DeleteScript removes one script of a mart.
func (c *InformationMartsClient) DeleteScript(ctx context.Context, projectID, martID, scriptID string) error {
	return c.t.Delete(ctx, martsPath(projectID)+"/"+martID+"/scripts/"+scriptID)
}
