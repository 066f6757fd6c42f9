package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// User-friendly column types accepted by staging-table tools, mapped onto
// the service's type system.
var friendlyTypes = map[string]string{
	"DateTime": "DateTime2",
	"Date":     "Date",
	"Text":     "String",
	"Boolean":  "Boolean",
	"Integer":  "Int32",
	"Numeric":  "VarNumeric",
}

// apiColumnType maps a friendly type to the service type. Unknown values
// pass through for callers who already speak the service's type names.
func apiColumnType(friendly string) string {
	if mapped, ok := friendlyTypes[friendly]; ok {
		return mapped
	}
	return friendly
}

func buildColumnRequest(col types.NewStagingColumn) (bevault.StagingColumnRequest, error) {
	if strings.TrimSpace(col.Name) == "" {
		return bevault.StagingColumnRequest{}, errors.New("column name is required")
	}
	if strings.TrimSpace(col.DataType) == "" {
		return bevault.StagingColumnRequest{}, fmt.Errorf("column %q requires a dataType", col.Name)
	}
	apiType := apiColumnType(col.DataType)
	if apiType == "String" && col.Length <= 0 {
		return bevault.StagingColumnRequest{}, fmt.Errorf("column %q: String columns require a length", col.Name)
	}
	req := bevault.StagingColumnRequest{
		Name:                col.Name,
		DataType:            apiType,
		Nullable:            col.Nullable,
		PrimaryKey:          col.PrimaryKey,
		BusinessDescription: col.BusinessDescription,
		HardRuleDefinition:  col.HardRuleDefinition,
		BaseType:            &types.BaseType{DataType: apiType},
	}
	if apiType == "String" {
		req.Length = col.Length
		req.BaseType.Length = col.Length
	}
	return req, nil
}

// CreateStagingTable creates a staging table from an explicit column list or
// from a view/table query.
func (s *Service) CreateStagingTable(ctx context.Context, in types.CreateStagingTableInput) (types.StagingTable, error) {
	if strings.TrimSpace(in.Name) == "" {
		return types.StagingTable{}, errors.New("staging table name is required")
	}
	queryType := in.QueryType
	if queryType == "" {
		queryType = "Table"
	}
	if queryType != "Table" && queryType != "View" {
		return types.StagingTable{}, errors.New("queryType must be Table or View")
	}
	if queryType == "View" && strings.TrimSpace(in.Query) == "" {
		return types.StagingTable{}, errors.New("View staging tables require a query")
	}
	if len(in.Columns) == 0 && strings.TrimSpace(in.Query) == "" {
		return types.StagingTable{}, errors.New("either columns or a query is required")
	}

	projectID, err := s.res.ProjectID(ctx, in.Project)
	if err != nil {
		return types.StagingTable{}, err
	}
	sourceSystemID, err := s.res.SourceSystemID(ctx, projectID, in.SourceSystem)
	if err != nil {
		return types.StagingTable{}, err
	}
	dataPackageID, err := s.res.DataPackageID(ctx, projectID, sourceSystemID, in.DataPackage)
	if err != nil {
		return types.StagingTable{}, err
	}

	req := bevault.CreateStagingTableRequest{
		TableName: in.Name,
		QueryType: queryType,
		Query:     in.Query,
	}
	for _, col := range in.Columns {
		colReq, err := buildColumnRequest(col)
		if err != nil {
			return types.StagingTable{}, err
		}
		req.Columns = append(req.Columns, colReq)
	}
	return s.api.SourceSystems.CreateStagingTable(ctx, projectID, sourceSystemID, dataPackageID, req)
}

// GetStagingTable returns the column catalogue plus every attached mapping
// reconstructed into readable form.
func (s *Service) GetStagingTable(ctx context.Context, scope types.TableScope) (types.StagingTableView, error) {
	ref, err := s.asm.ResolveTableScope(ctx, scope)
	if err != nil {
		return types.StagingTableView{}, err
	}
	table, err := s.api.SourceSystems.StagingTable(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
	if err != nil {
		return types.StagingTableView{}, err
	}
	raws, err := s.api.SourceSystems.TableMappings(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
	if err != nil {
		return types.StagingTableView{}, err
	}
	return types.StagingTableView{
		ID:       table.ID,
		Name:     table.Name,
		Columns:  table.Columns(),
		Mappings: s.rec.Format(ctx, ref.ProjectID, table.Columns(), raws),
	}, nil
}

// AddStagingTableColumn appends a column.
func (s *Service) AddStagingTableColumn(ctx context.Context, scope types.TableScope, col types.NewStagingColumn) (types.StagingColumn, error) {
	ref, err := s.asm.ResolveTableScope(ctx, scope)
	if err != nil {
		return types.StagingColumn{}, err
	}
	req, err := buildColumnRequest(col)
	if err != nil {
		return types.StagingColumn{}, err
	}
	return s.api.SourceSystems.AddColumn(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID, req)
}

// UpdateStagingTableColumn rewrites a column, resolving it by id or name
// against the table's catalogue.
func (s *Service) UpdateStagingTableColumn(ctx context.Context, in types.UpdateStagingColumnInput) (types.StagingColumn, error) {
	ref, err := s.asm.ResolveTableScope(ctx, in.TableScope)
	if err != nil {
		return types.StagingColumn{}, err
	}
	columnID, err := s.stagingColumnID(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID, in.Column)
	if err != nil {
		return types.StagingColumn{}, err
	}
	req, err := buildColumnRequest(in.NewStagingColumn)
	if err != nil {
		return types.StagingColumn{}, err
	}
	req.ID = columnID
	return s.api.SourceSystems.UpdateColumn(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID, columnID, req)
}

// DeleteStagingTableColumn removes a column.
func (s *Service) DeleteStagingTableColumn(ctx context.Context, scope types.TableScope, column string) error {
	ref, err := s.asm.ResolveTableScope(ctx, scope)
	if err != nil {
		return err
	}
	columnID, err := s.stagingColumnID(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID, column)
	if err != nil {
		return err
	}
	return s.api.SourceSystems.DeleteColumn(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID, columnID)
}

// DeleteStagingTable removes a staging table.
func (s *Service) DeleteStagingTable(ctx context.Context, scope types.TableScope) error {
	ref, err := s.asm.ResolveTableScope(ctx, scope)
	if err != nil {
		return err
	}
	return s.api.SourceSystems.DeleteStagingTable(ctx, ref.ProjectID, ref.SourceSystemID, ref.DataPackageID, ref.TableID)
}

func (s *Service) stagingColumnID(ctx context.Context, projectID, sourceSystemID, dataPackageID, tableID, idOrName string) (string, error) {
	if types.IsCanonicalID(idOrName) {
		return idOrName, nil
	}
	table, err := s.api.SourceSystems.StagingTable(ctx, projectID, sourceSystemID, dataPackageID, tableID)
	if err != nil {
		return "", err
	}
	for _, c := range table.Columns() {
		if c.Name == idOrName {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("column %q not found in staging table %s", idOrName, tableID)
}
