package importer

import "testing"

func TestFieldCaseVariants(t *testing.T) {
	cases := []struct {
		row  Row
		want string
	}{
		{Row{"email": "a@x.edu"}, "a@x.edu"},
		{Row{"Email": "b@x.edu"}, "b@x.edu"},
		{Row{"EMAIL": "c@x.edu"}, "c@x.edu"},
		{Row{"email": "", "Email": "d@x.edu"}, "d@x.edu"},
		{Row{"name": "ignored"}, ""},
	}

	for _, tc := range cases {
		if got := Field(tc.row, "email"); got != tc.want {
			t.Errorf("Field(%v, email) = %q, want %q", tc.row, got, tc.want)
		}
	}
}

func TestSniffRole(t *testing.T) {
	cases := []struct {
		row  Row
		want string
	}{
		{Row{"studentId": "CS101", "name": "A"}, "student"},
		{Row{"name": "A", "type": "Faculty Member"}, "faculty"},
		{Row{"name": "A", "type": "System Admin"}, "admin"},
		{Row{"name": "A", "note": "student of CSE"}, "student"},
		{Row{"name": "A"}, ""},
	}

	for _, tc := range cases {
		if got := SniffRole(tc.row); got != tc.want {
			t.Errorf("SniffRole(%v) = %q, want %q", tc.row, got, tc.want)
		}
	}
}
