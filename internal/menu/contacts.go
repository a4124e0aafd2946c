package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/leengari/contactbook/internal/domain/contact"
)

func (c *Controller) contactMenu(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "\nContact Operations\n")
		fmt.Fprint(c.out, "1. Add Contact\n")
		fmt.Fprint(c.out, "2. View Contacts\n")
		fmt.Fprint(c.out, "3. Delete Contact\n")
		fmt.Fprint(c.out, "4. Return to Main Menu\n")

		choice, err := c.readChoice()
		if errors.Is(err, errNotNumber) {
			continue
		}
		if err != nil {
			return err
		}

		switch choice {
		case 1:
			err = c.addContact(ctx)
		case 2:
			c.viewContacts(ctx)
		case 3:
			err = c.deleteContact(ctx)
		case 4:
			return nil
		default:
			fmt.Fprintln(c.out, msgInvalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

func (c *Controller) addContact(ctx context.Context) error {
	name, err := c.prompt("Enter name: ")
	if err != nil {
		return err
	}
	phone, err := c.prompt("Enter phone number: ")
	if err != nil {
		return err
	}

	if err := c.eng.AddContact(ctx, contact.Contact{Name: name, Phone: phone}); err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintln(c.out, "Contact added successfully!")
	return nil
}

func (c *Controller) viewContacts(ctx context.Context) {
	contacts, err := c.eng.Contacts(ctx)
	if err != nil {
		c.report(err)
		return
	}

	fmt.Fprintln(c.out, "Contacts:")
	for _, ct := range contacts {
		fmt.Fprintln(c.out, ct.String())
	}
}

func (c *Controller) deleteContact(ctx context.Context) error {
	name, err := c.prompt("Enter the name of the contact to delete: ")
	if err != nil {
		return err
	}

	if _, err := c.eng.DeleteContact(ctx, name); err != nil {
		c.report(err)
		return nil
	}
	fmt.Fprintln(c.out, "Contact deleted successfully!")
	return nil
}
