package vault

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vaultforge/bevault-mcp/internal/bevault"
)

const (
	projID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	ssID   = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	dpID   = "cccccccccccccccccccccccccccccccc"
	tblID  = "dddddddddddddddddddddddddddddddd"
)

type recordedCall struct {
	path string
	body json.RawMessage
}

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
		return json.Unmarshal([]byte(`{"id":"created","name":"created"}`), out)
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
		return json.Unmarshal([]byte(`{"id":"updated","name":"updated"}`), out)
	}
	return nil
}

func (d *fakeDoer) Delete(_ context.Context, path string) error {
	d.deletes = append(d.deletes, path)
	return nil
}

func newTestService(gets map[string]string) (*Service, *fakeDoer) {
	d := &fakeDoer{gets: gets}
	logger := log.New(io.Discard)
	api := bevault.NewClient(d, "https://vault.test", logger)
	return NewService(api, logger), d
}

func TestGetProjects(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]string{
		"/metavault/api/projects": `{"_embedded":{"projects":[{"id":"p1","name":"Sales"}]}}`,
	})
	projects, err := svc.GetProjects(context.Background())
	if err != nil {
		t.Fatalf("GetProjects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Sales" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestSearchModel(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]string{
		"/metavault/api/projects/" + projID + "/model/search": `{"_embedded":{"entities":[
			{"id":"h1","name":"Customer","type":"Hub"}
		]}}`,
	})
	entities, err := svc.SearchModel(context.Background(), projID, "Cust")
	if err != nil {
		t.Fatalf("SearchModel: %v", err)
	}
	if len(entities) != 1 || entities[0].Type != "Hub" {
		t.Fatalf("unexpected entities: %+v", entities)
	}
}
