// Package refs builds fully-qualified entity references used as payload
// fields when creating mappings. Pure string construction; IDs must already
// be resolved.
package refs

import "strings"

func apiRoot(baseURL, projectID string) string {
	return strings.TrimRight(baseURL, "/") + "/metavault/api/projects/" + projectID
}

// Hub references a hub by id or name.
func Hub(baseURL, projectID, hubIDOrName string) string {
	return apiRoot(baseURL, projectID) + "/model/hubs/" + hubIDOrName
}

// Link references a link.
func Link(baseURL, projectID, linkID string) string {
	return apiRoot(baseURL, projectID) + "/model/links/" + linkID
}

// LinkHubReference references one hub-reference sub-resource of a link.
func LinkHubReference(baseURL, projectID, linkID, hubReferenceID string) string {
	return Link(baseURL, projectID, linkID) + "/hubreferences/" + hubReferenceID
}

// HubMapping references an existing hub mapping.
func HubMapping(baseURL, projectID, mappingID string) string {
	return apiRoot(baseURL, projectID) + "/mappings/hubs/" + mappingID
}

// StagingTable references a staging table through its containment chain.
func StagingTable(baseURL, projectID, sourceSystemID, dataPackageID, tableID string) string {
	return apiRoot(baseURL, projectID) +
		"/metavault/sourcesystems/" + sourceSystemID +
		"/datapackages/" + dataPackageID +
		"/tables/" + tableID
}

// StagingColumn references a staging-table column by id or name; the service
// accepts both transparently for column references.
func StagingColumn(baseURL, projectID, sourceSystemID, dataPackageID, tableID, columnIDOrName string) string {
	return StagingTable(baseURL, projectID, sourceSystemID, dataPackageID, tableID) + "/columns/" + columnIDOrName
}
