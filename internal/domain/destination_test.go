package domain

import "testing"

func TestDestinationDraftSamePlace(t *testing.T) {
	tests := []struct {
		name  string
		draft DestinationDraft
		other Destination
		want  bool
	}{
		{
			name:  "case only",
			draft: DestinationDraft{Name: "Test City", TypeID: 1, CountryID: 1},
			other: Destination{Name: "TEST CITY", TypeID: 1, CountryID: 1},
			want:  true,
		},
		{
			name:  "surrounding space",
			draft: DestinationDraft{Name: "Test City", TypeID: 1, CountryID: 1},
			other: Destination{Name: "  test city ", TypeID: 1, CountryID: 1},
			want:  true,
		},
		{
			name:  "other type",
			draft: DestinationDraft{Name: "Test City", TypeID: 1, CountryID: 1},
			other: Destination{Name: "Test City", TypeID: 2, CountryID: 1},
		},
		{
			name:  "other country",
			draft: DestinationDraft{Name: "Test City", TypeID: 1, CountryID: 1},
			other: Destination{Name: "Test City", TypeID: 1, CountryID: 2},
		},
		{
			// lower() keeps U+017F, so the unique index treats these as different.
			name:  "long s is not folded to s",
			draft: DestinationDraft{Name: "Test City", TypeID: 1, CountryID: 1},
			other: Destination{Name: "Teſt City", TypeID: 1, CountryID: 1},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.draft.SamePlace(tc.other); got != tc.want {
				t.Fatalf("SamePlace(%q, %q) = %v, want %v", tc.draft.Name, tc.other.Name, got, tc.want)
			}
		})
	}
}
