package mcp

// ToolDefinition describes one MCP tool for tools/list.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

func jsonSchema(props map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func propString(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func propStringEnum(desc string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "enum": values}
}

func propNumber(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func propBoolean(desc string) map[string]any {
	return map[string]any{"type": "boolean", "description": desc}
}

func propStringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": desc,
		"items":       map[string]any{"type": "string"},
	}
}

func propObjectArray(desc string, props map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": desc,
		"items":       jsonSchema(props, required),
	}
}

// tableScopeProps are shared by every tool that addresses one staging table.
func tableScopeProps() map[string]any {
	return map[string]any{
		"project":      propString("Project id or name"),
		"sourceSystem": propString("Source system id or name"),
		"dataPackage":  propString("Data package id or name"),
		"stagingTable": propString("Staging table id or name"),
	}
}

var tableScopeRequired = []string{"project", "sourceSystem", "dataPackage", "stagingTable"}

func withTableScope(extra map[string]any) map[string]any {
	props := tableScopeProps()
	for k, v := range extra {
		props[k] = v
	}
	return props
}

func newColumnProps() map[string]any {
	return map[string]any{
		"name": propString("Column name"),
		"dataType": propStringEnum(
			"Column type; friendly names map to service types, others pass through",
			"DateTime", "Date", "Text", "Boolean", "Integer", "Numeric",
		),
		"length":              propNumber("Length, required for Text columns"),
		"nullable":            propBoolean("Whether the column is nullable"),
		"primaryKey":          propBoolean("Whether the column is part of the primary key"),
		"businessDescription": propString("Business description"),
		"hardRuleDefinition":  propString("Hard rule applied at load time"),
	}
}

func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		// Projects and model browsing.
		{
			Name:        "get_projects",
			Description: "List all projects visible to the configured account.",
			InputSchema: jsonSchema(map[string]any{}, nil),
		},
		{
			Name:        "search_model",
			Description: "Search hubs, links and satellites of a project by name fragment.",
			InputSchema: jsonSchema(map[string]any{
				"project":    propString("Project id or name"),
				"searchTerm": propString("Name fragment to match"),
			}, []string{"project", "searchTerm"}),
		},
		{
			Name:        "get_snapshots",
			Description: "List the snapshots of a project.",
			InputSchema: jsonSchema(map[string]any{
				"project": propString("Project id or name"),
			}, []string{"project"}),
		},

		// Hubs.
		{
			Name:        "create_hub",
			Description: "Create a hub with a single business key.",
			InputSchema: jsonSchema(map[string]any{
				"project":               propString("Project id or name"),
				"name":                  propString("Hub name"),
				"businessKeyLength":     propNumber("Business key length, defaults to 255"),
				"ignoreBusinessKeyCase": propBoolean("Whether business key comparison ignores case"),
				"description":           propString("Optional description"),
			}, []string{"project", "name"}),
		},
		{
			Name:        "update_hub",
			Description: "Rename a hub or toggle business-key case handling.",
			InputSchema: jsonSchema(map[string]any{
				"project":               propString("Project id or name"),
				"hub":                   propString("Hub id or name"),
				"name":                  propString("New hub name, unchanged when empty"),
				"ignoreBusinessKeyCase": propBoolean("New case handling, unchanged when omitted"),
			}, []string{"project", "hub"}),
		},
		{
			Name:        "delete_hub",
			Description: "Delete a hub.",
			InputSchema: jsonSchema(map[string]any{
				"project": propString("Project id or name"),
				"hub":     propString("Hub id or name"),
			}, []string{"project", "hub"}),
		},

		// Links.
		{
			Name:        "create_link",
			Description: "Create a link between hubs, with optional dependent child columns.",
			InputSchema: jsonSchema(map[string]any{
				"project":  propString("Project id or name"),
				"name":     propString("Link name"),
				"linkType": propStringEnum("Link type", "Relationship", "Hierarchy", "Transaction", "SameAs"),
				"hubReferences": propObjectArray("Hub references of the link", map[string]any{
					"columnName": propString("Reference column name"),
					"hub":        propString("Referenced hub id or name"),
					"order":      propNumber("Reference order, defaults to position"),
				}, []string{"columnName", "hub"}),
				"dependentChildColumns": propObjectArray("Dependent child columns", map[string]any{
					"columnName": propString("Column name"),
					"dataType":   propString("Column data type"),
				}, []string{"columnName", "dataType"}),
			}, []string{"project", "name", "linkType", "hubReferences"}),
		},
		{
			Name:        "get_link",
			Description: "Get a link with its hub references and column catalogues.",
			InputSchema: jsonSchema(map[string]any{
				"project": propString("Project id or name"),
				"link":    propString("Link id or name"),
			}, []string{"project", "link"}),
		},
		{
			Name:        "update_link",
			Description: "Rename a link, keeping its structure.",
			InputSchema: jsonSchema(map[string]any{
				"project": propString("Project id or name"),
				"link":    propString("Link id or name"),
				"name":    propString("New link name"),
			}, []string{"project", "link", "name"}),
		},
		{
			Name:        "delete_link",
			Description: "Delete a link.",
			InputSchema: jsonSchema(map[string]any{
				"project": propString("Project id or name"),
				"link":    propString("Link id or name"),
			}, []string{"project", "link"}),
		},
		{
			Name:        "get_satellite",
			Description: "Get a satellite scoped to its hub or link parent.",
			InputSchema: jsonSchema(map[string]any{
				"project":    propString("Project id or name"),
				"parentType": propStringEnum("Parent entity type", "hub", "link"),
				"parent":     propString("Parent hub or link id or name"),
				"satellite":  propString("Satellite id or name"),
			}, []string{"project", "parentType", "parent", "satellite"}),
		},

		// Source systems and data packages.
		{
			Name:        "create_source_system",
			Description: "Create a source system in a project.",
			InputSchema: jsonSchema(map[string]any{
				"project":             propString("Project id or name"),
				"name":                propString("Source system name"),
				"code":                propString("Short source system code"),
				"version":             propString("Source system version"),
				"qualityType":         propString("Data quality classification"),
				"description":         propString("Optional description"),
				"dataSteward":         propString("Data steward"),
				"systemAdministrator": propString("System administrator"),
			}, []string{"project", "name", "code"}),
		},
		{
			Name:        "search_source_systems",
			Description: "List source systems, optionally filtered by name fragment.",
			InputSchema: jsonSchema(map[string]any{
				"project":      propString("Project id or name"),
				"nameContains": propString("Optional name fragment"),
			}, []string{"project"}),
		},
		{
			Name:        "update_source_system",
			Description: "Update a source system; omitted fields keep their current values.",
			InputSchema: jsonSchema(map[string]any{
				"project":             propString("Project id or name"),
				"sourceSystem":        propString("Source system id or name"),
				"name":                propString("New name"),
				"code":                propString("New code"),
				"version":             propString("New version"),
				"qualityType":         propString("New quality classification"),
				"description":         propString("New description"),
				"dataSteward":         propString("New data steward"),
				"systemAdministrator": propString("New system administrator"),
			}, []string{"project", "sourceSystem"}),
		},
		{
			Name:        "delete_source_system",
			Description: "Delete a source system.",
			InputSchema: jsonSchema(map[string]any{
				"project":      propString("Project id or name"),
				"sourceSystem": propString("Source system id or name"),
			}, []string{"project", "sourceSystem"}),
		},
		{
			Name:        "create_data_package",
			Description: "Create a data package in a source system.",
			InputSchema: jsonSchema(map[string]any{
				"project":          propString("Project id or name"),
				"sourceSystem":     propString("Source system id or name"),
				"name":             propString("Data package name"),
				"deliverySchedule": propString("Delivery schedule"),
			}, []string{"project", "sourceSystem", "name"}),
		},
		{
			Name:        "update_data_package",
			Description: "Update a data package; omitted fields keep their current values.",
			InputSchema: jsonSchema(map[string]any{
				"project":          propString("Project id or name"),
				"sourceSystem":     propString("Source system id or name"),
				"dataPackage":      propString("Data package id or name"),
				"name":             propString("New name"),
				"deliverySchedule": propString("New delivery schedule"),
			}, []string{"project", "sourceSystem", "dataPackage"}),
		},
		{
			Name:        "delete_data_package",
			Description: "Delete a data package.",
			InputSchema: jsonSchema(map[string]any{
				"project":      propString("Project id or name"),
				"sourceSystem": propString("Source system id or name"),
				"dataPackage":  propString("Data package id or name"),
			}, []string{"project", "sourceSystem", "dataPackage"}),
		},

		// Staging tables.
		{
			Name:        "create_staging_table",
			Description: "Create a staging table from a column list or a Table/View query.",
			InputSchema: jsonSchema(map[string]any{
				"project":      propString("Project id or name"),
				"sourceSystem": propString("Source system id or name"),
				"dataPackage":  propString("Data package id or name"),
				"name":         propString("Staging table name"),
				"queryType":    propStringEnum("Creation mode, defaults to Table", "Table", "View"),
				"query":        propString("Source query, required for View tables"),
				"columns":      propObjectArray("Column definitions", newColumnProps(), []string{"name", "dataType"}),
			}, []string{"project", "sourceSystem", "dataPackage", "name"}),
		},
		{
			Name:        "get_staging_table",
			Description: "Get a staging table's columns plus its mappings in readable form.",
			InputSchema: jsonSchema(tableScopeProps(), tableScopeRequired),
		},
		{
			Name:        "add_staging_table_column",
			Description: "Add a column to a staging table.",
			InputSchema: jsonSchema(withTableScope(newColumnProps()),
				append(append([]string{}, tableScopeRequired...), "name", "dataType")),
		},
		{
			Name:        "update_staging_table_column",
			Description: "Rewrite one staging-table column, addressed by id or name.",
			InputSchema: jsonSchema(withTableScope(mergeProps(newColumnProps(), map[string]any{
				"column": propString("Column id or current name"),
			})), append(append([]string{}, tableScopeRequired...), "column", "name", "dataType")),
		},
		{
			Name:        "delete_staging_table_column",
			Description: "Delete one staging-table column.",
			InputSchema: jsonSchema(withTableScope(map[string]any{
				"column": propString("Column id or name"),
			}), append(append([]string{}, tableScopeRequired...), "column")),
		},
		{
			Name:        "delete_staging_table",
			Description: "Delete a staging table.",
			InputSchema: jsonSchema(tableScopeProps(), tableScopeRequired),
		},

		// Mappings.
		{
			Name:        "map_column_to_hub",
			Description: "Map one staging column onto a hub's business key.",
			InputSchema: jsonSchema(withTableScope(map[string]any{
				"hub":                   propString("Hub id or name"),
				"column":                propString("Staging column id or name"),
				"isFullLoad":            propBoolean("Whether loads are full loads"),
				"expectNullBusinessKey": propBoolean("Whether null business keys are expected"),
			}), append(append([]string{}, tableScopeRequired...), "hub", "column")),
		},
		{
			Name:        "map_columns_to_link",
			Description: "Create a link mapping; every hub reference of the link must be bound.",
			InputSchema: jsonSchema(withTableScope(map[string]any{
				"link": propString("Link id or name"),
				"hubReferences": propObjectArray("Hub reference bindings", map[string]any{
					"hubMapping":   propString("Feeding hub mapping id or hub name"),
					"hubReference": propString("Link hub reference id or column name"),
				}, []string{"hubMapping", "hubReference"}),
				"dependentChildColumns": propObjectArray("Dependent child bindings", map[string]any{
					"linkColumn":    propString("Link column id or name"),
					"stagingColumn": propString("Staging column id or name"),
				}, []string{"linkColumn", "stagingColumn"}),
				"dataColumns": propObjectArray("Data column bindings", map[string]any{
					"linkColumn":    propString("Link column id or name"),
					"stagingColumn": propString("Staging column id or name"),
				}, []string{"linkColumn", "stagingColumn"}),
				"isFullLoad": propBoolean("Whether loads are full loads, defaults to true"),
			}), append(append([]string{}, tableScopeRequired...), "link", "hubReferences")),
		},
		{
			Name:        "map_columns_to_satellite",
			Description: "Create a satellite mapping under an existing hub or link mapping.",
			InputSchema: jsonSchema(withTableScope(map[string]any{
				"parentType":        propStringEnum("Parent mapping type", "hub", "link"),
				"parentMapping":     propString("Parent mapping id or name"),
				"satelliteName":     propString("Satellite name"),
				"columns":           propStringArray("Staging column names carried by the satellite"),
				"isMultiActive":     propBoolean("Whether the satellite is multi-active"),
				"subSequenceColumn": propString("Sub-sequence column for multi-active satellites"),
			}), append(append([]string{}, tableScopeRequired...), "parentType", "parentMapping", "satelliteName", "columns")),
		},
		{
			Name:        "update_staging_table_satellite_mapping",
			Description: "Rewrite an existing satellite mapping; the parent is derived from the table's mappings.",
			InputSchema: jsonSchema(withTableScope(map[string]any{
				"mapping":           propString("Satellite mapping id or name"),
				"satelliteName":     propString("Satellite name, unchanged when empty"),
				"columns":           propStringArray("Staging column names carried by the satellite"),
				"isMultiActive":     propBoolean("Whether the satellite is multi-active"),
				"subSequenceColumn": propString("Sub-sequence column for multi-active satellites"),
			}), append(append([]string{}, tableScopeRequired...), "mapping", "columns")),
		},
		{
			Name:        "delete_staging_table_mapping",
			Description: "Delete one mapping from a staging table.",
			InputSchema: jsonSchema(withTableScope(map[string]any{
				"mapping": propString("Mapping id or name"),
			}), append(append([]string{}, tableScopeRequired...), "mapping")),
		},

		// Information marts.
		{
			Name:        "search_information_marts",
			Description: "List information marts, optionally filtered by name fragment.",
			InputSchema: jsonSchema(map[string]any{
				"project":      propString("Project id or name"),
				"nameContains": propString("Optional name fragment"),
			}, []string{"project"}),
		},
		{
			Name:        "create_information_mart",
			Description: "Create an information mart over a snapshot named by id or name.",
			InputSchema: jsonSchema(map[string]any{
				"project":     propString("Project id or name"),
				"name":        propString("Information mart name"),
				"snapshot":    propString("Snapshot id or name"),
				"description": propString("Optional description"),
			}, []string{"project", "name", "snapshot"}),
		},
		{
			Name:        "update_information_mart_script_code",
			Description: "Replace the code of one information-mart script, keeping its name.",
			InputSchema: jsonSchema(map[string]any{
				"project":         propString("Project id or name"),
				"informationMart": propString("Information mart id or name"),
				"script":          propString("Script id or name"),
				"code":            propString("New script code"),
			}, []string{"project", "informationMart", "script", "code"}),
		},
		{
			Name:        "delete_information_mart_script",
			Description: "Delete one script from an information mart.",
			InputSchema: jsonSchema(map[string]any{
				"project":         propString("Project id or name"),
				"informationMart": propString("Information mart id or name"),
				"script":          propString("Script id or name"),
			}, []string{"project", "informationMart", "script"}),
		},
	}
}

func mergeProps(base, extra map[string]any) map[string]any {
	for k, v := range extra {
		base[k] = v
	}
	return base
}
