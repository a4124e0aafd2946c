package contact

import "fmt"

// Contact is a fixed name/phone record, kept apart from generic tables
type Contact struct {
	Name  string
	Phone string
}

// String renders the contact the way the contact list prints it
func (c Contact) String() string {
	return fmt.Sprintf("Name: %s, Phone: %s", c.Name, c.Phone)
}
