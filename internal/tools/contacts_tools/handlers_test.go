package contacts_tools

import (
	"strings"
	"testing"

	"google.golang.org/api/people/v1"
)

func TestFormatPerson(t *testing.T) {
	got := formatPerson(&people.Person{
		ResourceName: "people/c42",
		Names:        []*people.Name{{DisplayName: "Ada Lovelace"}},
		EmailAddresses: []*people.EmailAddress{
			{Value: "ada@example.com"},
		},
		PhoneNumbers:  []*people.PhoneNumber{{Value: "+44 20 1234 5678"}},
		Organizations: []*people.Organization{{Name: "Analytical Engines Ltd"}},
	})

	for _, want := range []string{
		"Ada Lovelace",
		"Resource: people/c42",
		"Email: ada@example.com",
		"Phone: +44 20 1234 5678",
		"Organization: Analytical Engines Ltd",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatPerson missing %q:\n%s", want, got)
		}
	}
}

func TestFormatPersonWithoutName(t *testing.T) {
	got := formatPerson(&people.Person{ResourceName: "people/c7"})
	if !strings.Contains(got, "(no name)") {
		t.Errorf("formatPerson = %q, want no-name placeholder", got)
	}
}

func TestFormatPersonNil(t *testing.T) {
	if got := formatPerson(nil); got != "(no contact data)" {
		t.Errorf("formatPerson(nil) = %q", got)
	}
}
