package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/accountkeeper/internal/api"
	"github.com/dmitrijs2005/accountkeeper/internal/client/client"
)

// editableFields are the account fields update offers, by JSON name.
var editableFields = []string{"name", "username", "email", "dateOfBirth"}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

func (a *App) printUser(u *api.User) {
	fmt.Fprintf(a.out, "Name:          %s\n", u.Name)
	fmt.Fprintf(a.out, "Username:      %s\n", u.Username)
	fmt.Fprintf(a.out, "Email:         %s\n", u.Email)
	fmt.Fprintf(a.out, "Date of birth: %s\n", u.DateOfBirth)
	fmt.Fprintf(a.out, "Verified:      %t\n", u.EmailVerified)
	fmt.Fprintf(a.out, "Created:       %s\n", u.CreatedAt.Format("2006-01-02 15:04:05"))
}

// WhoAmI prints the logged-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(client.ErrNotLoggedIn)
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.GetUser(rctx, a.userName)
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

// buildReplacePatch returns a one-operation JSON Patch setting field.
func buildReplacePatch(field, value string) ([]byte, error) {
	return json.Marshal([]patchOp{{Op: "replace", Path: "/" + field, Value: value}})
}

// Update changes one account field. Renaming the account invalidates the
// current tokens, so the user is asked to log in again.
func (a *App) Update(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(client.ErrNotLoggedIn)
	}

	field, err := GetSimpleText(a.reader, "Field to change ("+strings.Join(editableFields, ", ")+")", a.out)
	if err != nil {
		return a.report(err)
	}
	known := false
	for _, f := range editableFields {
		if f == field {
			known = true
			break
		}
	}
	if !known {
		return a.report(fmt.Errorf("unknown field %q", field))
	}

	value, err := GetSimpleText(a.reader, "New value", a.out)
	if err != nil {
		return a.report(err)
	}

	patch, err := buildReplacePatch(field, value)
	if err != nil {
		return a.report(err)
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	u, err := a.client.UpdateUser(rctx, a.userName, patch)
	if err != nil {
		return a.report(err)
	}

	a.printUser(u)
	if u.Username != a.userName {
		a.userName = ""
		fmt.Fprintln(a.out, "Username changed, please log in again.")
	}
	return nil
}

// Delete removes the account after the user retypes the username.
func (a *App) Delete(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.report(client.ErrNotLoggedIn)
	}

	confirm, err := GetSimpleText(a.reader, fmt.Sprintf("Type %q to delete the account", a.userName), a.out)
	if err != nil {
		return a.report(err)
	}
	if confirm != a.userName {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	rctx, cancel := a.requestContext(ctx)
	defer cancel()

	if err := a.client.DeleteUser(rctx, a.userName); err != nil {
		return a.report(err)
	}

	a.userName = ""
	fmt.Fprintln(a.out, "Account deleted")
	return nil
}
