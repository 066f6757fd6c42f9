package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vaultforge/bevault-mcp/pkg/types"
)

// dispatchTool routes one tools/call to the vault service. Every case decodes
// its own argument shape; validation beyond shape lives in the service.
func (s *Server) dispatchTool(ctx context.Context, name string, args json.RawMessage) (map[string]any, error) {
	switch name {
	case "get_projects":
		projects, err := s.svc.GetProjects(ctx)
		if err != nil {
			return nil, err
		}
		return toolSuccess(projects)

	case "search_model":
		var in struct {
			Project    string `json:"project"`
			SearchTerm string `json:"searchTerm"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		entities, err := s.svc.SearchModel(ctx, in.Project, in.SearchTerm)
		if err != nil {
			return nil, err
		}
		return toolSuccess(entities)

	case "get_snapshots":
		var in struct {
			Project string `json:"project"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		snapshots, err := s.svc.GetSnapshots(ctx, in.Project)
		if err != nil {
			return nil, err
		}
		return toolSuccess(snapshots)

	case "create_hub":
		var in types.CreateHubInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		hub, err := s.svc.CreateHub(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(hub)

	case "update_hub":
		var in struct {
			Project               string `json:"project"`
			Hub                   string `json:"hub"`
			Name                  string `json:"name"`
			IgnoreBusinessKeyCase *bool  `json:"ignoreBusinessKeyCase"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		hub, err := s.svc.UpdateHub(ctx, in.Project, in.Hub, in.Name, in.IgnoreBusinessKeyCase)
		if err != nil {
			return nil, err
		}
		return toolSuccess(hub)

	case "delete_hub":
		var in struct {
			Project string `json:"project"`
			Hub     string `json:"hub"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteHub(ctx, in.Project, in.Hub); err != nil {
			return nil, err
		}
		return toolDeleted("hub", in.Hub)

	case "create_link":
		var in types.CreateLinkInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		link, err := s.svc.CreateLink(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(link)

	case "get_link":
		var in struct {
			Project string `json:"project"`
			Link    string `json:"link"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		link, err := s.svc.GetLink(ctx, in.Project, in.Link)
		if err != nil {
			return nil, err
		}
		return toolSuccess(link)

	case "update_link":
		var in struct {
			Project string `json:"project"`
			Link    string `json:"link"`
			Name    string `json:"name"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		link, err := s.svc.UpdateLink(ctx, in.Project, in.Link, in.Name)
		if err != nil {
			return nil, err
		}
		return toolSuccess(link)

	case "delete_link":
		var in struct {
			Project string `json:"project"`
			Link    string `json:"link"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteLink(ctx, in.Project, in.Link); err != nil {
			return nil, err
		}
		return toolDeleted("link", in.Link)

	case "get_satellite":
		var in struct {
			Project    string `json:"project"`
			ParentType string `json:"parentType"`
			Parent     string `json:"parent"`
			Satellite  string `json:"satellite"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		sat, err := s.svc.GetSatellite(ctx, in.Project, in.ParentType, in.Parent, in.Satellite)
		if err != nil {
			return nil, err
		}
		return toolSuccess(sat)

	case "create_source_system":
		var in types.CreateSourceSystemInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		sys, err := s.svc.CreateSourceSystem(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(sys)

	case "search_source_systems":
		var in struct {
			Project      string `json:"project"`
			NameContains string `json:"nameContains"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		systems, err := s.svc.SearchSourceSystems(ctx, in.Project, in.NameContains)
		if err != nil {
			return nil, err
		}
		return toolSuccess(systems)

	case "update_source_system":
		var in struct {
			types.CreateSourceSystemInput
			SourceSystem string `json:"sourceSystem"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		sys, err := s.svc.UpdateSourceSystem(ctx, in.CreateSourceSystemInput, in.SourceSystem)
		if err != nil {
			return nil, err
		}
		return toolSuccess(sys)

	case "delete_source_system":
		var in struct {
			Project      string `json:"project"`
			SourceSystem string `json:"sourceSystem"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteSourceSystem(ctx, in.Project, in.SourceSystem); err != nil {
			return nil, err
		}
		return toolDeleted("sourceSystem", in.SourceSystem)

	case "create_data_package":
		var in types.CreateDataPackageInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		pkg, err := s.svc.CreateDataPackage(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(pkg)

	case "update_data_package":
		var in struct {
			types.CreateDataPackageInput
			DataPackage string `json:"dataPackage"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		pkg, err := s.svc.UpdateDataPackage(ctx, in.CreateDataPackageInput, in.DataPackage)
		if err != nil {
			return nil, err
		}
		return toolSuccess(pkg)

	case "delete_data_package":
		var in struct {
			Project      string `json:"project"`
			SourceSystem string `json:"sourceSystem"`
			DataPackage  string `json:"dataPackage"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteDataPackage(ctx, in.Project, in.SourceSystem, in.DataPackage); err != nil {
			return nil, err
		}
		return toolDeleted("dataPackage", in.DataPackage)

	case "create_staging_table":
		var in types.CreateStagingTableInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		table, err := s.svc.CreateStagingTable(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(table)

	case "get_staging_table":
		var in types.TableScope
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		view, err := s.svc.GetStagingTable(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(view)

	case "add_staging_table_column":
		var in struct {
			types.TableScope
			types.NewStagingColumn
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		col, err := s.svc.AddStagingTableColumn(ctx, in.TableScope, in.NewStagingColumn)
		if err != nil {
			return nil, err
		}
		return toolSuccess(col)

	case "update_staging_table_column":
		var in types.UpdateStagingColumnInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		col, err := s.svc.UpdateStagingTableColumn(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(col)

	case "delete_staging_table_column":
		var in struct {
			types.TableScope
			Column string `json:"column"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteStagingTableColumn(ctx, in.TableScope, in.Column); err != nil {
			return nil, err
		}
		return toolDeleted("column", in.Column)

	case "delete_staging_table":
		var in types.TableScope
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteStagingTable(ctx, in); err != nil {
			return nil, err
		}
		return toolDeleted("stagingTable", in.StagingTable)

	case "map_column_to_hub":
		var in types.MapColumnToHubInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		raw, err := s.svc.MapColumnToHub(ctx, in)
		if err != nil {
			return nil, err
		}
		return rawResult(raw)

	case "map_columns_to_link":
		var in types.MapColumnsToLinkInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		raw, err := s.svc.MapColumnsToLink(ctx, in)
		if err != nil {
			return nil, err
		}
		return rawResult(raw)

	case "map_columns_to_satellite":
		var in types.MapColumnsToSatelliteInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		raw, err := s.svc.MapColumnsToSatellite(ctx, in)
		if err != nil {
			return nil, err
		}
		return rawResult(raw)

	case "update_staging_table_satellite_mapping":
		var in types.UpdateSatelliteMappingInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		raw, err := s.svc.UpdateSatelliteMapping(ctx, in)
		if err != nil {
			return nil, err
		}
		return rawResult(raw)

	case "delete_staging_table_mapping":
		var in types.DeleteMappingInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteMapping(ctx, in); err != nil {
			return nil, err
		}
		return toolDeleted("mapping", in.Mapping)

	case "search_information_marts":
		var in struct {
			Project      string `json:"project"`
			NameContains string `json:"nameContains"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		marts, err := s.svc.SearchInformationMarts(ctx, in.Project, in.NameContains)
		if err != nil {
			return nil, err
		}
		return toolSuccess(marts)

	case "create_information_mart":
		var in types.CreateInformationMartInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		mart, err := s.svc.CreateInformationMart(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(mart)

	case "update_information_mart_script_code":
		var in types.UpdateScriptCodeInput
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		script, err := s.svc.UpdateInformationMartScriptCode(ctx, in)
		if err != nil {
			return nil, err
		}
		return toolSuccess(script)

	case "delete_information_mart_script":
		var in struct {
			Project         string `json:"project"`
			InformationMart string `json:"informationMart"`
			Script          string `json:"script"`
		}
		if err := decodeArgs(name, args, &in); err != nil {
			return nil, err
		}
		if err := s.svc.DeleteInformationMartScript(ctx, in.Project, in.InformationMart, in.Script); err != nil {
			return nil, err
		}
		return toolDeleted("script", in.Script)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}
