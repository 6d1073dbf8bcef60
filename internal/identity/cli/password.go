package cli

import (
	"context"
	"fmt"
)

func (a *App) passwd(ctx context.Context, username string) error {
	f := &form{a: a}
	old := f.password("Current password")
	pw := f.newPassword()
	if f.err != nil {
		return f.err
	}

	if err := a.directory.ChangePassword(ctx, username, old, pw); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password of %s changed\n", username)
	return nil
}

// reset replaces a password without knowing the old one. The new password
// gets the default expiry.
func (a *App) reset(ctx context.Context, username string) error {
	cur, err := a.directory.LoadByUsername(ctx, username)
	if err != nil {
		return err
	}

	pw, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}

	u := adminCopy(cur)
	u.Password = pw
	u.PasswordExpiry = nil
	if err := a.directory.UpdateUserAdmin(ctx, u); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "password of %s reset\n", username)
	return nil
}
