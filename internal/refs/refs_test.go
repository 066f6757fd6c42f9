package refs

import "testing"

func TestReferenceBuilders(t *testing.T) {
	t.Parallel()

	base := "https://vault.example.com/"
	root := "https://vault.example.com/metavault/api/projects/p1"

	cases := []struct {
		name string
		got  string
		want string
	}{
		{"hub", Hub(base, "p1", "Customer"), root + "/model/hubs/Customer"},
		{"link", Link(base, "p1", "l1"), root + "/model/links/l1"},
		{"link hub reference", LinkHubReference(base, "p1", "l1", "hr1"), root + "/model/links/l1/hubreferences/hr1"},
		{"hub mapping", HubMapping(base, "p1", "m1"), root + "/mappings/hubs/m1"},
		{
			"staging table",
			StagingTable(base, "p1", "ss1", "dp1", "t1"),
			root + "/metavault/sourcesystems/ss1/datapackages/dp1/tables/t1",
		},
		{
			"staging column",
			StagingColumn(base, "p1", "ss1", "dp1", "t1", "order_id"),
			root + "/metavault/sourcesystems/ss1/datapackages/dp1/tables/t1/columns/order_id",
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.got != tc.want {
				t.Fatalf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}
