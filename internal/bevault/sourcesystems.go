package bevault

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// SourceSystemsClient covers source systems, data packages, staging tables
// and their columns and attached mappings.
type SourceSystemsClient struct {
	t      Doer
	logger *log.Logger
}

func sourceSystemsPath(projectID string) string {
	return projectPath(projectID) + "/metavault/sourcesystems"
}

func dataPackagesPath(projectID, sourceSystemID string) string {
	return sourceSystemsPath(projectID) + "/" + sourceSystemID + "/datapackages"
}

func tablesPath(projectID, sourceSystemID, dataPackageID string) string {
	return dataPackagesPath(projectID, sourceSystemID) + "/" + dataPackageID + "/tables"
}

// CreateSourceSystemRequest is the source-system creation payload.
type CreateSourceSystemRequest struct {
	Name                string   `json:"name"`
	Code                string   `json:"code"`
	Version             string   `json:"version,omitempty"`
	QualityType         string   `json:"qualityType,omitempty"`
	Descriptions        []string `json:"descriptions,omitempty"`
	DataSteward         string   `json:"dataSteward,omitempty"`
	SystemAdministrator string   `json:"systemAdministrator,omitempty"`
}

// CreateDataPackageRequest is the data-package creation payload.
type CreateDataPackageRequest struct {
	Name             string `json:"name"`
	DeliverySchedule string `json:"deliverySchedule,omitempty"`
}

// StagingColumnRequest is one column in staging-table create/update payloads.
type StagingColumnRequest struct {
	ID                  string          `json:"id,omitempty"`
	Name                string          `json:"name"`
	DataType            string          `json:"dataType"`
	BaseType            *types.BaseType `json:"baseType,omitempty"`
	Length              int             `json:"length,omitempty"`
	Nullable            bool            `json:"nullable,omitempty"`
	PrimaryKey          bool            `json:"primaryKey,omitempty"`
	BusinessDescription string          `json:"businessDescription,omitempty"`
	HardRuleDefinition  string          `json:"hardRuleDefinition,omitempty"`
}

// CreateStagingTableRequest is the staging-table creation payload. Either a
// query (view/table definition) or an explicit column list is supplied.
type CreateStagingTableRequest struct {
	TableName string                 `json:"tableName"`
	QueryType string                 `json:"queryType"`
	Query     string                 `json:"query,omitempty"`
	Columns   []StagingColumnRequest `json:"columns,omitempty"`
}

// Get returns one source system by id or name.
func (c *SourceSystemsClient) Get(ctx context.Context, projectID, idOrName string) (types.SourceSystem, error) {
	var out types.SourceSystem
	if err := c.t.GetJSON(ctx, sourceSystemsPath(projectID)+"/"+url.PathEscape(idOrName), nil, &out); err != nil {
		return types.SourceSystem{}, err
	}
	return out, nil
}

// List returns all source systems of a project.
func (c *SourceSystemsClient) List(ctx context.Context, projectID string) ([]types.SourceSystem, error) {
	var env struct {
		Embedded struct {
			SourceSystems []types.SourceSystem `json:"sourceSystems"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listAllLimit))
	if err := c.t.GetJSON(ctx, sourceSystemsPath(projectID), q, &env); err != nil {
		return nil, fmt.Errorf("list source systems: %w", err)
	}
	return env.Embedded.SourceSystems, nil
}

// Create creates a source system.
func (c *SourceSystemsClient) Create(ctx context.Context, projectID string, req CreateSourceSystemRequest) (types.SourceSystem, error) {
	var out types.SourceSystem
	if err := c.t.PostJSON(ctx, sourceSystemsPath(projectID), req, &out); err != nil {
		return types.SourceSystem{}, fmt.Errorf("create source system %q: %w", req.Name, err)
	}
	return out, nil
}

// Update rewrites a source system.
func (c *SourceSystemsClient) Update(ctx context.Context, projectID, sourceSystemID string, req CreateSourceSystemRequest) (types.SourceSystem, error) {
	var out types.SourceSystem
	if err := c.t.PutJSON(ctx, sourceSystemsPath(projectID)+"/"+sourceSystemID, req, &out); err != nil {
		return types.SourceSystem{}, fmt.Errorf("update source system: %w", err)
	}
	return out, nil
}

// Delete removes a source system.
func (c *SourceSystemsClient) Delete(ctx context.Context, projectID, sourceSystemID string) error {
	return c.t.Delete(ctx, sourceSystemsPath(projectID)+"/"+sourceSystemID)
}

// DataPackage returns one data package by id or name.
func (c *SourceSystemsClient) DataPackage(ctx context.Context, projectID, sourceSystemID, idOrName string) (types.DataPackage, error) {
	var out types.DataPackage
	if err := c.t.GetJSON(ctx, dataPackagesPath(projectID, sourceSystemID)+"/"+url.PathEscape(idOrName), nil, &out); err != nil {
		return types.DataPackage{}, err
	}
	return out, nil
}

// CreateDataPackage creates a data package.
func (c *SourceSystemsClient) CreateDataPackage(ctx context.Context, projectID, sourceSystemID string, req CreateDataPackageRequest) (types.DataPackage, error) {
	var out types.DataPackage
	if err := c.t.PostJSON(ctx, dataPackagesPath(projectID, sourceSystemID), req, &out); err != nil {
		return types.DataPackage{}, fmt.Errorf("create data package %q: %w", req.Name, err)
	}
	return out, nil
}

// UpdateDataPackage rewrites a data package.
func (c *SourceSystemsClient) UpdateDataPackage(ctx context.Context, projectID, sourceSystemID, dataPackageID string, req CreateDataPackageRequest) (types.DataPackage, error) {
	var out types.DataPackage
	if err := c.t.PutJSON(ctx, dataPackagesPath(projectID, sourceSystemID)+"/"+dataPackageID, req, &out); err != nil {
		return types.DataPackage{}, fmt.Errorf("update data package: %w", err)
	}
	return out, nil
}

// DeleteDataPackage removes a data package.
func (c *SourceSystemsClient) DeleteDataPackage(ctx context.Context, projectID, sourceSystemID, dataPackageID string) error {
	return c.t.Delete(ctx, dataPackagesPath(projectID, sourceSystemID)+"/"+dataPackageID)
}

// StagingTables lists every staging table of a data package.
func (c *SourceSystemsClient) StagingTables(ctx context.Context, projectID, sourceSystemID, dataPackageID string) ([]types.StagingTable, error) {
	var env struct {
		Embedded struct {
			Tables []types.StagingTable `json:"tables"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(listAllLimit))
	if err := c.t.GetJSON(ctx, tablesPath(projectID, sourceSystemID, dataPackageID), q, &env); err != nil {
		return nil, fmt.Errorf("list staging tables: %w", err)
	}
	return env.Embedded.Tables, nil
}

// StagingTable returns one staging table including its column catalogue.
func (c *SourceSystemsClient) StagingTable(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID string) (types.StagingTable, error) {
	var out types.StagingTable
	if err := c.t.GetJSON(ctx, tablesPath(projectID, sourceSystemID, dataPackageID)+"/"+tableID, nil, &out); err != nil {
		return types.StagingTable{}, err
	}
	return out, nil
}

// CreateStagingTable creates a staging table.
func (c *SourceSystemsClient) CreateStagingTable(ctx context.Context, projectID, sourceSystemID, dataPackageID string, req CreateStagingTableRequest) (types.StagingTable, error) {
	var out types.StagingTable
	if err := c.t.PostJSON(ctx, tablesPath(projectID, sourceSystemID, dataPackageID), req, &out); err != nil {
		return types.StagingTable{}, fmt.Errorf("create staging table %q: %w", req.TableName, err)
	}
	return out, nil
}

// DeleteStagingTable removes a staging table.
func (c *SourceSystemsClient) DeleteStagingTable(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID string) error {
	return c.t.Delete(ctx, tablesPath(projectID, sourceSystemID, dataPackageID)+"/"+tableID)
}

// AddColumn appends a column to a staging table.
func (c *SourceSystemsClient) AddColumn(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID string, req StagingColumnRequest) (types.StagingColumn, error) {
	var out types.StagingColumn
	path := tablesPath(projectID, sourceSystemID, dataPackageID) + "/" + tableID + "/columns"
	if err := c.t.PostJSON(ctx, path, req, &out); err != nil {
		return types.StagingColumn{}, fmt.Errorf("add column %q: %w", req.Name, err)
	}
	return out, nil
}

// UpdateColumn rewrites one staging-table column.
func (c *SourceSystemsClient) UpdateColumn(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID, columnID string, req StagingColumnRequest) (types.StagingColumn, error) {
	var out types.StagingColumn
	path := tablesPath(projectID, sourceSystemID, dataPackageID) + "/" + tableID + "/columns/" + columnID
	if err := c.t.PutJSON(ctx, path, req, &out); err != nil {
		return types.StagingColumn{}, fmt.Errorf("update column: %w", err)
	}
	return out, nil
}

// DeleteColumn removes one staging-table column.
func (c *SourceSystemsClient) DeleteColumn(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID, columnID string) error {
	return c.t.Delete(ctx, tablesPath(projectID, sourceSystemID, dataPackageID)+"/"+tableID+"/columns/"+columnID)
}

// TableMappings returns the raw mapping records attached to a staging table.
// Records stay undecoded so read paths can degrade on unknown mapping types.
func (c *SourceSystemsClient) TableMappings(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID string) ([]json.RawMessage, error) {
	var env struct {
		Embedded struct {
			Mappings []json.RawMessage `json:"mappings"`
		} `json:"_embedded"`
	}
	q := url.Values{}
	q.Set("index", "0")
	q.Set("limit", strconv.Itoa(listAllLimit))
	path := tablesPath(projectID, sourceSystemID, dataPackageID) + "/" + tableID + "/mappings"
	if err := c.t.GetJSON(ctx, path, q, &env); err != nil {
		return nil, fmt.Errorf("list staging table mappings: %w", err)
	}
	return env.Embedded.Mappings, nil
}
