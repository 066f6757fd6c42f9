package vault

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

const martID = "ffffffffffffffffffffffffffffffff"

func TestCreateInformationMartResolvesSnapshot(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(map[string]string{
		"/metavault/api/projects/" + projID + "/model/snapshots": `{"_embedded":{"snapshots":[
			{"id":"snap1","name":"Daily"}
		]}}`,
	})
	_, err := svc.CreateInformationMart(context.Background(), types.CreateInformationMartInput{
		Project:     projID,
		Name:        "Sales Mart",
		Snapshot:    "Daily",
		Description: "daily sales slice",
	})
	if err != nil {
		t.Fatalf("CreateInformationMart: %v", err)
	}

	if len(d.posts) != 1 || !strings.HasSuffix(d.posts[0].path, "/informationmarts") {
		t.Fatalf("unexpected posts: %+v", d.posts)
	}
	var req bevault.CreateInformationMartRequest
	if err := json.Unmarshal(d.posts[0].body, &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.SnapshotID != "snap1" {
		t.Fatalf("snapshot name not resolved: %+v", req)
	}
	if req.Name != "Sales Mart" || req.Description != "daily sales slice" {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestCreateInformationMartRequiresName(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(nil)
	_, err := svc.CreateInformationMart(context.Background(), types.CreateInformationMartInput{Project: projID, Snapshot: "Daily"})
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("got %v, want missing-name error", err)
	}
	if len(d.posts) != 0 {
		t.Fatal("invalid input must not reach the service")
	}
}

func TestUpdateScriptCodeKeepsName(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(map[string]string{
		"/metavault/api/projects/" + projID + "/informationmarts/" + martID: `{
			"id":"` + martID + `","name":"Sales Mart",
			"_embedded":{"scripts":[
				{"id":"sc1","name":"load_sales","code":"SELECT 1"},
				{"id":"sc2","name":"load_returns","code":"SELECT 2"}
			]}
		}`,
	})
	_, err := svc.UpdateInformationMartScriptCode(context.Background(), types.UpdateScriptCodeInput{
		Project:         projID,
		InformationMart: martID,
		Script:          "load_sales",
		Code:            "SELECT 42",
	})
	if err != nil {
		t.Fatalf("UpdateInformationMartScriptCode: %v", err)
	}

	if len(d.puts) != 1 || !strings.HasSuffix(d.puts[0].path, "/informationmarts/"+martID+"/scripts/sc1") {
		t.Fatalf("unexpected puts: %+v", d.puts)
	}
	var req bevault.UpdateScriptRequest
	if err := json.Unmarshal(d.puts[0].body, &req); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	if req.Name != "load_sales" {
		t.Fatalf("script name must be preserved: %+v", req)
	}
	if req.Code != "SELECT 42" {
		t.Fatalf("script code not replaced: %+v", req)
	}
}

func TestDeleteInformationMartScript(t *testing.T) {
	t.Parallel()

	svc, d := newTestService(map[string]string{
		"/metavault/api/projects/" + projID + "/informationmarts/" + martID: `{
			"id":"` + martID + `","name":"Sales Mart",
			"_embedded":{"scripts":[{"id":"sc1","name":"load_sales"}]}
		}`,
	})
	if err := svc.DeleteInformationMartScript(context.Background(), projID, martID, "load_sales"); err != nil {
		t.Fatalf("DeleteInformationMartScript: %v", err)
	}
	if len(d.deletes) != 1 || !strings.HasSuffix(d.deletes[0], "/informationmarts/"+martID+"/scripts/sc1") {
		t.Fatalf("deletes %v, want resolved script id", d.deletes)
	}
}
