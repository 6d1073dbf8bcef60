package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/rswauth/authcore/internal/identity/models"
)

func (a *App) create(ctx context.Context, username string) error {
	f := &form{a: a}
	u := models.User{Username: username, Enabled: true}

	u.FirstName = f.text("First name")
	u.MiddleInitial = f.text("Middle initial")
	u.LastName = f.text("Last name")
	u.EmailAddress = f.text("Email")
	u.MobileNumber = f.text("Mobile")
	f.roles(&u, a.directory.Mode())
	u.Password = f.newPassword()
	if f.err != nil {
		return f.err
	}

	if err := a.directory.CreateUser(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %s created\n", username)
	return nil
}

func (a *App) show(ctx context.Context, username string) error {
	u, err := a.directory.LoadByUsername(ctx, username)
	if err != nil {
		return err
	}

	expires := "never"
	if u.PasswordExpiry != nil {
		expires = u.PasswordExpiry.Format("2006-01-02 15:04:05 MST")
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Username:\t%s\n", u.Username)
	fmt.Fprintf(w, "Name:\t%s\n", strings.Join(strings.Fields(u.FirstName+" "+u.MiddleInitial+" "+u.LastName), " "))
	fmt.Fprintf(w, "Email:\t%s\n", u.EmailAddress)
	fmt.Fprintf(w, "Mobile:\t%s\n", u.MobileNumber)
	fmt.Fprintf(w, "Enabled:\t%t\n", u.Enabled)
	fmt.Fprintf(w, "Locked:\t%t\n", u.Locked)
	fmt.Fprintf(w, "Password expires:\t%s\n", expires)
	fmt.Fprintf(w, "Groups:\t%s\n", strings.Join(u.GroupNames(), ", "))
	fmt.Fprintf(w, "Authorities:\t%s\n", strings.Join(u.Authorities, ", "))
	return w.Flush()
}

func (a *App) search(ctx context.Context, pattern string) error {
	users, err := a.directory.SearchUsers(ctx, pattern)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Fprintln(a.out, "no users found")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tLAST NAME\tFIRST NAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.Username, u.LastName, u.FirstName, u.EmailAddress)
	}
	return w.Flush()
}

func (a *App) profile(ctx context.Context, username string) error {
	cur, err := a.directory.LoadByUsername(ctx, username)
	if err != nil {
		return err
	}

	f := &form{a: a}
	p := models.UserProfileUpdate{Username: username}
	p.FirstName = f.textOr("First name", cur.FirstName)
	p.MiddleInitial = f.textOr("Middle initial", cur.MiddleInitial)
	p.LastName = f.textOr("Last name", cur.LastName)
	p.EmailAddress = f.textOr("Email", cur.EmailAddress)
	p.MobileNumber = f.textOr("Mobile", cur.MobileNumber)
	if strings.EqualFold(f.text("Change password? (y/N)"), "y") {
		p.OldPassword = f.password("Current password")
		p.NewPassword = f.newPassword()
	}
	if f.err != nil {
		return f.err
	}

	if err := a.directory.UpdateUserProfile(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "profile of %s updated\n", username)
	return nil
}

func (a *App) deleteUser(ctx context.Context, username string) error {
	if err := a.directory.DeleteUser(ctx, username); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %s deleted\n", username)
	return nil
}

// setFlag returns a command that loads a user, applies change and stores
// the result without touching the password or roles.
func (a *App) setFlag(change func(u *models.User), done string) func(context.Context, string) error {
	return func(ctx context.Context, username string) error {
		cur, err := a.directory.LoadByUsername(ctx, username)
		if err != nil {
			return err
		}
		u := adminCopy(cur)
		change(&u)
		if err := a.directory.UpdateUserAdmin(ctx, u); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "user %s %s\n", username, done)
		return nil
	}
}

// adminCopy prepares a loaded user for UpdateUserAdmin: no password and no
// role lists, so both are kept as stored.
func adminCopy(u *models.User) models.User {
	return u.WithoutPassword().WithGroups().WithAuthorities()
}
