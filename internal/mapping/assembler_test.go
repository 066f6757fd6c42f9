package mapping

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/internal/resolver"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

const (
	testBaseURL = "https://vault.test"

	projID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	ssID   = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	dpID   = "cccccccccccccccccccccccccccccccc"
	tblID  = "dddddddddddddddddddddddddddddddd"
)

func canonicalScope() types.TableScope {
	return types.TableScope{
		Project:      projID,
		SourceSystem: ssID,
		DataPackage:  dpID,
		StagingTable: tblID,
	}
}

func tableMappingsPath() string {
	return "/metavault/api/projects/" + projID +
		"/metavault/sourcesystems/" + ssID +
		"/datapackages/" + dpID +
		"/tables/" + tblID + "/mappings"
}

type recordedCall struct {
	path string
	body json.RawMessage
}

// fakeDoer serves canned GET bodies by exact path and records writes.
type fakeDoer struct {
	gets    map[string]string
	posts   []recordedCall
	puts    []recordedCall
	deletes []string
}

func (d *fakeDoer) GetJSON(_ context.Context, path string, _ url.Values, out any) error {
	body, ok := d.gets[path]
	if !ok {
		return &bevault.APIError{Status: http.StatusNotFound, Method: http.MethodGet, Path: path}
	}
	return json.Unmarshal([]byte(body), out)
}

func (d *fakeDoer) PostJSON(_ context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	d.posts = append(d.posts, recordedCall{path: path, body: raw})
	if out != nil {
		return json.Unmarshal([]byte(`{"id":"created"}`), out)
	}
	return nil
}

func (d *fakeDoer) PutJSON(_ context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	d.puts = append(d.puts, recordedCall{path: path, body: raw})
	if out != nil {
		return json.Unmarshal([]byte(`{"id":"updated"}`), out)
	}
	return nil
}

func (d *fakeDoer) Delete(_ context.Context, path string) error {
	d.deletes = append(d.deletes, path)
	return nil
}

func newTestAssembler(gets map[string]string) (*Assembler, *fakeDoer) {
	d := &fakeDoer{gets: gets}
	logger := log.New(io.Discard)
	api := bevault.NewClient(d, testBaseURL, logger)
	return NewAssembler(api, resolver.New(api, logger), logger), d
}

func hubMappingRecord(id, name, hubID, columnID string) string {
	return `{"id":"` + id + `","name":"` + name + `","mappingType":"Hub","hubId":"` + hubID +
		`","isFullLoad":true,"businessKeyMapping":{"businessKeyId":"bk1","columnId":"` + columnID + `"}}`
}

func TestMapColumnToHubBuildsReferences(t *testing.T) {
	t.Parallel()

	a, d := newTestAssembler(nil)
	raw, err := a.MapColumnToHub(context.Background(), types.MapColumnToHubInput{
		TableScope: canonicalScope(),
		Hub:        "Customer",
		Column:     "customer_id",
		IsFullLoad: true,
	})
	if err != nil {
		t.Fatalf("MapColumnToHub: %v", err)
	}
	if string(raw) != `{"id":"created"}` {
		t.Fatalf("unexpected service response passthrough: %s", raw)
	}

	if len(d.posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(d.posts))
	}
	post := d.posts[0]
	if post.path != "/metavault/api/projects/"+projID+"/mappings/hubs" {
		t.Fatalf("unexpected path: %s", post.path)
	}

	var payload bevault.HubMappingPayload
	if err := json.Unmarshal(post.body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	wantHub := testBaseURL + "/metavault/api/projects/" + projID + "/model/hubs/Customer"
	if payload.Hub != wantHub {
		t.Fatalf("hub ref %q, want %q", payload.Hub, wantHub)
	}
	if !strings.HasSuffix(payload.DataPackageColumn, "/tables/"+tblID+"/columns/customer_id") {
		t.Fatalf("column ref %q lacks column suffix", payload.DataPackageColumn)
	}
	if !payload.IsFullLoad {
		t.Fatal("isFullLoad not carried")
	}
}

func TestMapColumnToHubRequiresHubAndColumn(t *testing.T) {
	t.Parallel()

	a, d := newTestAssembler(nil)
	if _, err := a.MapColumnToHub(context.Background(), types.MapColumnToHubInput{
		TableScope: canonicalScope(),
		Hub:        "Customer",
	}); err == nil {
		t.Fatal("expected error for missing column")
	}
	if len(d.posts) != 0 {
		t.Fatal("invalid input must not reach the service")
	}
}

func linkHAL(id string, hubRefs string) string {
	return `{"id":"` + id + `","name":"OrderLink","linkType":"Relationship","_embedded":{
		"hubReferences":{"_embedded":{"hubReferences":[` + hubRefs + `]}},
		"dependentChildColumns":[],"dataColumns":[]}}`
}

func TestMapColumnsToLink(t *testing.T) {
	t.Parallel()

	gets := map[string]string{
		"/metavault/api/projects/" + projID + "/model/links/OrderLink": linkHAL("l1",
			`{"id":"hr1","columnName":"order_ref","order":1,"hubId":"h1"}`),
		tableMappingsPath(): `{"_embedded":{"mappings":[` + hubMappingRecord("m1", "Customer", "h1", "c1") + `]}}`,
	}
	a, d := newTestAssembler(gets)

	_, err := a.MapColumnsToLink(context.Background(), types.MapColumnsToLinkInput{
		TableScope: canonicalScope(),
		Link:       "OrderLink",
		HubReferences: []types.HubReferencePair{
			{HubMapping: "Customer", HubReference: "order_ref"},
		},
	})
	if err != nil {
		t.Fatalf("MapColumnsToLink: %v", err)
	}

	if len(d.posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(d.posts))
	}
	post := d.posts[0]
	if post.path != "/metavault/api/projects/"+projID+"/mappings/links" {
		t.Fatalf("unexpected path: %s", post.path)
	}

	var payload bevault.LinkMappingPayload
	if err := json.Unmarshal(post.body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if !payload.IsFullLoad {
		t.Fatal("isFullLoad must default to true")
	}
	if len(payload.HubReferencesDetails) != 1 {
		t.Fatalf("got %d hub reference details, want 1", len(payload.HubReferencesDetails))
	}
	det := payload.HubReferencesDetails[0]
	if !strings.HasSuffix(det.HubMapping, "/mappings/hubs/m1") {
		t.Fatalf("hub mapping ref %q, want suffix /mappings/hubs/m1", det.HubMapping)
	}
	if !strings.HasSuffix(det.HubReference, "/model/links/l1/hubreferences/hr1") {
		t.Fatalf("hub reference ref %q, want link sub-resource suffix", det.HubReference)
	}

	// Optional arrays must be omitted, not sent as empty lists.
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(post.body, &shape); err != nil {
		t.Fatalf("decode payload shape: %v", err)
	}
	if _, present := shape["linkMappingDependentChildColumns"]; present {
		t.Fatal("empty dependent child array must be omitted")
	}
	if _, present := shape["linkMappingDataColumns"]; present {
		t.Fatal("empty data column array must be omitted")
	}
}

func TestMapColumnsToLinkRequiresFullCoverage(t *testing.T) {
	t.Parallel()

	gets := map[string]string{
		"/metavault/api/projects/" + projID + "/model/links/OrderLink": linkHAL("l1",
			`{"id":"hr1","columnName":"order_ref"},{"id":"hr2","columnName":"product_ref"}`),
		tableMappingsPath(): `{"_embedded":{"mappings":[` + hubMappingRecord("m1", "Customer", "h1", "c1") + `]}}`,
	}
	a, d := newTestAssembler(gets)

	_, err := a.MapColumnsToLink(context.Background(), types.MapColumnsToLinkInput{
		TableScope: canonicalScope(),
		Link:       "OrderLink",
		HubReferences: []types.HubReferencePair{
			{HubMapping: "Customer", HubReference: "order_ref"},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "every hub reference must be covered") {
		t.Fatalf("expected coverage error, got %v", err)
	}
	if len(d.posts) != 0 {
		t.Fatal("incomplete mapping must not reach the service")
	}
}

func TestMapColumnsToLinkUnmappedHubIsActionable(t *testing.T) {
	t.Parallel()

	gets := map[string]string{
		"/metavault/api/projects/" + projID + "/model/links/OrderLink": linkHAL("l1",
			`{"id":"hr1","columnName":"order_ref"}`),
		tableMappingsPath(): `{"_embedded":{"mappings":[]}}`,
	}
	a, _ := newTestAssembler(gets)

	_, err := a.MapColumnsToLink(context.Background(), types.MapColumnsToLinkInput{
		TableScope: canonicalScope(),
		Link:       "OrderLink",
		HubReferences: []types.HubReferencePair{
			{HubMapping: "Customer", HubReference: "order_ref"},
		},
	})
	var nf *resolver.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != "hub mapping" || !strings.Contains(nf.Scope, "map the hub before") {
		t.Fatalf("error should point at the missing prerequisite: %+v", nf)
	}
}

func TestMapColumnsToSatelliteResolvesParentByName(t *testing.T) {
	t.Parallel()

	gets := map[string]string{
		tableMappingsPath(): `{"_embedded":{"mappings":[` + hubMappingRecord("m1", "Customer", "h1", "c1") + `]}}`,
	}
	a, d := newTestAssembler(gets)

	_, err := a.MapColumnsToSatellite(context.Background(), types.MapColumnsToSatelliteInput{
		TableScope:    canonicalScope(),
		ParentType:    "hub",
		ParentMapping: "Customer",
		SatelliteName: "CustomerDetails",
		Columns:       []string{"email", "phone"},
	})
	if err != nil {
		t.Fatalf("MapColumnsToSatellite: %v", err)
	}

	if len(d.posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(d.posts))
	}
	post := d.posts[0]
	wantPath := "/metavault/api/projects/" + projID + "/mappings/hubs/m1/satellites"
	if post.path != wantPath {
		t.Fatalf("path %q, want %q", post.path, wantPath)
	}

	var payload bevault.SatelliteMappingPayload
	if err := json.Unmarshal(post.body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.SatelliteName != "CustomerDetails" || len(payload.SatelliteColumns) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if !strings.HasSuffix(payload.SatelliteColumns[0], "/columns/email") {
		t.Fatalf("column ref %q, want staging column reference", payload.SatelliteColumns[0])
	}
	if payload.SubSequenceColumn != "" {
		t.Fatal("subSequenceColumn must be omitted when not supplied")
	}
}

func TestMapColumnsToSatelliteRejectsBadParentType(t *testing.T) {
	t.Parallel()

	a, _ := newTestAssembler(nil)
	_, err := a.MapColumnsToSatellite(context.Background(), types.MapColumnsToSatelliteInput{
		TableScope:    canonicalScope(),
		ParentType:    "satellite",
		ParentMapping: "m1",
		SatelliteName: "X",
		Columns:       []string{"a"},
	})
	if err == nil || !strings.Contains(err.Error(), "expected hub or link") {
		t.Fatalf("expected parent type error, got %v", err)
	}
}

func TestUpdateSatelliteMappingDerivesParent(t *testing.T) {
	t.Parallel()

	satRecord := `{"id":"s1","name":"CustomerDetails","mappingType":"Satellite","hubId":"h1","satelliteParentMappingId":"m1"}`
	gets := map[string]string{
		tableMappingsPath(): `{"_embedded":{"mappings":[` +
			hubMappingRecord("m1", "Customer", "h1", "c1") + `,` + satRecord + `]}}`,
	}
	a, d := newTestAssembler(gets)

	_, err := a.UpdateSatelliteMapping(context.Background(), types.UpdateSatelliteMappingInput{
		TableScope: canonicalScope(),
		Mapping:    "CustomerDetails",
		Columns:    []string{"email"},
	})
	if err != nil {
		t.Fatalf("UpdateSatelliteMapping: %v", err)
	}

	if len(d.puts) != 1 {
		t.Fatalf("got %d puts, want 1", len(d.puts))
	}
	put := d.puts[0]
	wantPath := "/metavault/api/projects/" + projID + "/mappings/hubs/m1/satellites/s1"
	if put.path != wantPath {
		t.Fatalf("path %q, want %q", put.path, wantPath)
	}

	var payload bevault.SatelliteMappingPayload
	if err := json.Unmarshal(put.body, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	// Empty satelliteName falls back to the existing mapping name.
	if payload.SatelliteName != "CustomerDetails" {
		t.Fatalf("satellite name %q, want existing name", payload.SatelliteName)
	}
}

func TestDeleteMappingPerType(t *testing.T) {
	t.Parallel()

	satRecord := `{"id":"s1","name":"CustomerDetails","mappingType":"Satellite","hubId":"h1","satelliteParentMappingId":"m1"}`
	linkRecord := `{"id":"m2","name":"OrderLink","mappingType":"Link","linkId":"l1"}`
	mappings := `{"_embedded":{"mappings":[` +
		hubMappingRecord("m1", "Customer", "h1", "c1") + `,` + linkRecord + `,` + satRecord + `]}}`

	cases := []struct {
		name       string
		mapping    string
		wantSuffix string
	}{
		{"hub mapping", "m1", "/mappings/hubs/m1"},
		{"link mapping", "OrderLink", "/mappings/links/m2"},
		// A satellite deletes through its parent's concrete hub id, not the
		// parent mapping id.
		{"satellite mapping", "s1", "/mappings/hubs/h1/satellites/s1"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, d := newTestAssembler(map[string]string{tableMappingsPath(): mappings})
			err := a.DeleteMapping(context.Background(), types.DeleteMappingInput{
				TableScope: canonicalScope(),
				Mapping:    tc.mapping,
			})
			if err != nil {
				t.Fatalf("DeleteMapping: %v", err)
			}
			if len(d.deletes) != 1 || !strings.HasSuffix(d.deletes[0], tc.wantSuffix) {
				t.Fatalf("deletes %v, want suffix %q", d.deletes, tc.wantSuffix)
			}
		})
	}
}

func TestDeleteMappingUnknownMapping(t *testing.T) {
	t.Parallel()

	a, _ := newTestAssembler(map[string]string{
		tableMappingsPath(): `{"_embedded":{"mappings":[]}}`,
	})
	err := a.DeleteMapping(context.Background(), types.DeleteMappingInput{
		TableScope: canonicalScope(),
		Mapping:    "ghost",
	})
	var nf *resolver.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
