package bevault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
)

// Parent kinds for satellite mapping endpoints.
const (
	ParentKindHubs  = "hubs"
	ParentKindLinks = "links"
)

// MappingsClient sends mapping create/update/delete requests. Payloads carry
// fully-qualified entity references built by the assembler.
type MappingsClient struct {
	t      Doer
	logger *log.Logger
}

func mappingsPath(projectID string) string {
	return projectPath(projectID) + "/mappings"
}

// HubMappingPayload creates a hub mapping.
type HubMappingPayload struct {
	Hub                   string `json:"hub"`
	IsFullLoad            bool   `json:"isFullLoad"`
	ExpectNullBusinessKey bool   `json:"expectNullBusinessKey"`
	DataPackageTable      string `json:"dataPackageTable"`
	DataPackageColumn     string `json:"dataPackageColumn"`
}

// HubReferenceDetail points one link hub reference at an existing hub mapping.
type HubReferenceDetail struct {
	HubMapping   string `json:"hubMapping"`
	HubReference string `json:"hubReference"`
}

// LinkColumnDetail binds one link column to a staging column reference.
type LinkColumnDetail struct {
	LinkColumnID           string `json:"linkColumnId"`
	DataPackageTableColumn string `json:"dataPackageTableColumn"`
}

// LinkMappingPayload creates a link mapping. Optional arrays are omitted
// entirely when empty; the service distinguishes omitted from empty.
type LinkMappingPayload struct {
	Link                             string               `json:"link"`
	IsFullLoad                       bool                 `json:"isFullLoad"`
	DataPackageTable                 string               `json:"dataPackageTable"`
	HubReferencesDetails             []HubReferenceDetail `json:"hubReferencesDetails,omitempty"`
	LinkMappingDependentChildColumns []LinkColumnDetail   `json:"linkMappingDependentChildColumns,omitempty"`
	LinkMappingDataColumns           []LinkColumnDetail   `json:"linkMappingDataColumns,omitempty"`
}

// SatelliteMappingPayload creates or updates a satellite mapping.
type SatelliteMappingPayload struct {
	SatelliteColumns  []string `json:"satelliteColumns"`
	SatelliteName     string   `json:"satelliteName"`
	StagingTable      string   `json:"stagingTable"`
	IsMultiActive     bool     `json:"isMultiActive"`
	SubSequenceColumn string   `json:"subSequenceColumn,omitempty"`
}

// CreateHubMapping posts a hub mapping.
func (c *MappingsClient) CreateHubMapping(ctx context.Context, projectID string, payload HubMappingPayload) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.t.PostJSON(ctx, mappingsPath(projectID)+"/hubs", payload, &out); err != nil {
		return nil, fmt.Errorf("create hub mapping: %w", err)
	}
	return out, nil
}

// CreateLinkMapping posts a link mapping.
func (c *MappingsClient) CreateLinkMapping(ctx context.Context, projectID string, payload LinkMappingPayload) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.t.PostJSON(ctx, mappingsPath(projectID)+"/links", payload, &out); err != nil {
		return nil, fmt.Errorf("create link mapping: %w", err)
	}
	return out, nil
}

// CreateSatelliteMapping posts a satellite mapping under its parent mapping.
func (c *MappingsClient) CreateSatelliteMapping(ctx context.Context, projectID, parentKind, parentMappingID string, payload SatelliteMappingPayload) (json.RawMessage, error) {
	var out json.RawMessage
	path := mappingsPath(projectID) + "/" + parentKind + "/" + parentMappingID + "/satellites"
	if err := c.t.PostJSON(ctx, path, payload, &out); err != nil {
		return nil, fmt.Errorf("create satellite mapping: %w", err)
	}
	return out, nil
}

// UpdateSatelliteMapping rewrites an existing satellite mapping.
func (c *MappingsClient) UpdateSatelliteMapping(ctx context.Context, projectID, parentKind, parentMappingID, satelliteMappingID string, payload SatelliteMappingPayload) (json.RawMessage, error) {
	var out json.RawMessage
	path := mappingsPath(projectID) + "/" + parentKind + "/" + parentMappingID + "/satellites/" + satelliteMappingID
	if err := c.t.PutJSON(ctx, path, payload, &out); err != nil {
		return nil, fmt.Errorf("update satellite mapping: %w", err)
	}
	return out, nil
}

// DeleteHubMapping removes a hub mapping.
func (c *MappingsClient) DeleteHubMapping(ctx context.Context, projectID, mappingID string) error {
	return c.t.Delete(ctx, mappingsPath(projectID)+"/hubs/"+mappingID)
}

// DeleteLinkMapping removes a link mapping.
func (c *MappingsClient) DeleteLinkMapping(ctx context.Context, projectID, mappingID string) error {
	return c.t.Delete(ctx, mappingsPath(projectID)+"/links/"+mappingID)
}

// DeleteSatelliteMapping removes a satellite mapping through its parent's
// concrete hub or link id.
func (c *MappingsClient) DeleteSatelliteMapping(ctx context.Context, projectID, parentKind, parentHubOrLinkID, satelliteMappingID string) error {
	path := mappingsPath(projectID) + "/" + parentKind + "/" + parentHubOrLinkID + "/satellites/" + satelliteMappingID
	return c.t.Delete(ctx, path)
}
