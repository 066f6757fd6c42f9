package types

// Destination kinds used in reconstructed mapping views.
const (
	DestinationBusinessKey     = "businessKey"
	DestinationHubReference    = "hubReference"
	DestinationDependentChild  = "dependentChild"
	DestinationDataColumn      = "dataColumn"
	DestinationSatelliteColumn = "satelliteColumn"
)

// ColumnMapping is one source-to-destination pair of a reconstructed mapping.
type ColumnMapping struct {
	SourceColumnName      string `json:"sourceColumnName"`
	DestinationID         string `json:"destinationId"`
	DestinationType       string `json:"destinationType"`
	DestinationColumnName string `json:"destinationColumnName"`
}

// FormattedMapping is the denormalized, readable view of one mapping.
type FormattedMapping struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	ParentName     string          `json:"parentName,omitempty"`
	MappingType    string          `json:"mappingType"`
	IsFullLoad     *bool           `json:"isFullLoad,omitempty"`
	ColumnMappings []ColumnMapping `json:"columnMappings"`
}

// StagingTableView is the get-staging-table tool response: the column
// catalogue plus every attached mapping in readable form.
type StagingTableView struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Columns  []StagingColumn    `json:"columns"`
	Mappings []FormattedMapping `json:"mappings"`
}
