package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
	"github.com/vaultforge/bevault-mcp/pkg/types"
)

const canonical = "0123456789abcdef0123456789abcdef"

// fakeDoer serves canned JSON bodies by exact path and counts calls. Unknown
// paths return a remote 404.
type fakeDoer struct {
	responses map[string]string
	calls     int
}

func (d *fakeDoer) GetJSON(_ context.Context, path string, _ url.Values, out any) error {
	d.calls++
	body, ok := d.responses[path]
	if !ok {
		return &bevault.APIError{Status: http.StatusNotFound, Method: http.MethodGet, Path: path}
	}
	return jsonInto(body, out)
}

func (d *fakeDoer) PostJSON(_ context.Context, path string, _, out any) error {
	d.calls++
	return jsonInto(`{}`, out)
}

func (d *fakeDoer) PutJSON(_ context.Context, path string, _, out any) error {
	d.calls++
	return jsonInto(`{}`, out)
}

func (d *fakeDoer) Delete(_ context.Context, path string) error {
	d.calls++
	return nil
}

func jsonInto(body string, out any) error {
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(body), out)
}

func newTestResolver(responses map[string]string) (*Resolver, *fakeDoer) {
	d := &fakeDoer{responses: responses}
	api := bevault.NewClient(d, "https://vault.test", log.New(io.Discard))
	return New(api, log.New(io.Discard)), d
}

func TestCanonicalIDsPassThroughWithoutNetwork(t *testing.T) {
	t.Parallel()

	r, d := newTestResolver(nil)
	ctx := context.Background()

	checks := []func() (string, error){
		func() (string, error) { return r.ProjectID(ctx, canonical) },
		func() (string, error) { return r.SourceSystemID(ctx, "p1", canonical) },
		func() (string, error) { return r.DataPackageID(ctx, "p1", "ss1", canonical) },
		func() (string, error) { return r.StagingTableID(ctx, "p1", "ss1", "dp1", canonical) },
		func() (string, error) { return r.HubID(ctx, "p1", canonical) },
		func() (string, error) { return r.LinkID(ctx, "p1", canonical) },
		func() (string, error) { return r.SnapshotID(ctx, "p1", canonical) },
		func() (string, error) { return r.InformationMartID(ctx, "p1", canonical) },
	}
	for i, fn := range checks {
		got, err := fn()
		if err != nil {
			t.Fatalf("check %d: %v", i, err)
		}
		if got != canonical {
			t.Fatalf("check %d: got %q, want passthrough", i, got)
		}
	}
	if d.calls != 0 {
		t.Fatalf("canonical resolution made %d network calls, want 0", d.calls)
	}
}

func TestProjectIDByName(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects": `{"_embedded":{"projects":[{"id":"p1","name":"Sales"}]}}`,
	})
	got, err := r.ProjectID(context.Background(), "Sales")
	if err != nil {
		t.Fatalf("ProjectID: %v", err)
	}
	if got != "p1" {
		t.Fatalf("got %q, want p1", got)
	}
}

func TestProjectIDAmbiguousUsesFirst(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects": `{"_embedded":{"projects":[{"id":"p1","name":"Sales"},{"id":"p2","name":"Sales"}]}}`,
	})
	got, err := r.ProjectID(context.Background(), "Sales")
	if err != nil {
		t.Fatalf("ProjectID: %v", err)
	}
	if got != "p1" {
		t.Fatalf("got %q, want first match p1", got)
	}
}

func TestProjectIDNotFound(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects": `{"_embedded":{"projects":[]}}`,
	})
	_, err := r.ProjectID(context.Background(), "Missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Kind != "project" || nf.Value != "Missing" {
		t.Fatalf("unexpected error detail: %+v", nf)
	}
}

func TestSourceSystemIDByName(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects/p1/metavault/sourcesystems/CRM": `{"id":"ss1","name":"CRM"}`,
	})
	got, err := r.SourceSystemID(context.Background(), "p1", "CRM")
	if err != nil {
		t.Fatalf("SourceSystemID: %v", err)
	}
	if got != "ss1" {
		t.Fatalf("got %q, want ss1", got)
	}

	_, err = r.SourceSystemID(context.Background(), "p1", "Nope")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for remote 404, got %v", err)
	}
}

func TestStagingTableIDScansListing(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects/p1/metavault/sourcesystems/ss1/datapackages/dp1/tables": `{"_embedded":{"tables":[
			{"id":"t1","name":"stg_orders"},
			{"id":"t2","name":"stg_customers"}
		]}}`,
	})
	got, err := r.StagingTableID(context.Background(), "p1", "ss1", "dp1", "stg_customers")
	if err != nil {
		t.Fatalf("StagingTableID: %v", err)
	}
	if got != "t2" {
		t.Fatalf("got %q, want t2", got)
	}

	_, err = r.StagingTableID(context.Background(), "p1", "ss1", "dp1", "stg_missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestSnapshotIDScansListing(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects/p1/model/snapshots": `{"_embedded":{"snapshots":[{"id":"sn1","name":"Daily"}]}}`,
	})
	got, err := r.SnapshotID(context.Background(), "p1", "Daily")
	if err != nil {
		t.Fatalf("SnapshotID: %v", err)
	}
	if got != "sn1" {
		t.Fatalf("got %q, want sn1", got)
	}
}

func TestInformationMartIDRequiresExactName(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(map[string]string{
		"/metavault/api/projects/p1/informationmarts": `{"_embedded":{"informationMarts":[
			{"id":"im1","name":"Sales"},
			{"id":"im2","name":"Sales Extended"}
		]}}`,
	})
	got, err := r.InformationMartID(context.Background(), "p1", "Sales")
	if err != nil {
		t.Fatalf("InformationMartID: %v", err)
	}
	if got != "im1" {
		t.Fatalf("got %q, want exact match im1", got)
	}
}

func TestScriptIDWithinMart(t *testing.T) {
	t.Parallel()

	r, _ := newTestResolver(nil)
	mart := types.InformationMart{
		Name: "Sales",
		Scripts: []types.InformationMartScript{
			{ID: "sc1", Name: "load"},
			{ID: "sc2", Name: "transform"},
		},
	}
	got, err := r.ScriptID(mart, "transform")
	if err != nil {
		t.Fatalf("ScriptID: %v", err)
	}
	if got != "sc2" {
		t.Fatalf("got %q, want sc2", got)
	}

	if got, err := r.ScriptID(mart, canonical); err != nil || got != canonical {
		t.Fatalf("canonical script id should pass through, got %q, %v", got, err)
	}

	_, err = r.ScriptID(mart, "missing")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
